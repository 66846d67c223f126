package models

import "time"

// Scene types reported by the classification service.
const (
	SceneEmptyRoom = "empty_room"
	SceneInterior  = "interior"
	SceneExterior  = "exterior"
	SceneUnknown   = "unknown"
)

// ImageAnalysisResult is the classification output for one image URL.
// Cached in memory for the process lifetime and persisted to the database
// as the durable source of truth.
type ImageAnalysisResult struct {
	ImageURL        string    `json:"image_url"`
	SceneType       string    `json:"scene_type"`
	TimeOfDay       string    `json:"time_of_day"`
	ClutterScore    float64   `json:"clutter_score"`
	DetectedObjects []string  `json:"detected_objects"`
	Confidence      float64   `json:"confidence"`
	AnalysisID      string    `json:"analysis_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Usable reports whether the result carries signal callers may act on.
// Sentinel results produced on classification failure are not usable.
func (r *ImageAnalysisResult) Usable() bool {
	return r.SceneType != SceneUnknown && r.SceneType != "error" && r.Confidence > 0
}

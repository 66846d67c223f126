package suggest

import (
	"strings"

	"propshot-backend/internal/models"
)

// Feature thresholds. Scene-derived flags require classifier confidence
// above featureConfidenceMin; clutter uses the raw score directly.
const (
	featureConfidenceMin = 0.7
	clutterScoreMin      = 0.6
)

// ConditionKind enumerates the rule predicate variants.
type ConditionKind int

const (
	CondEmptyRoom ConditionKind = iota
	CondCluttered
	CondExterior
	CondEveningShot
	CondPropertyType
	CondRequiredObjects
)

// Condition is one tagged predicate of a rule. Kind selects the variant;
// Expect applies to the boolean kinds, PropertyType and RequiredObjects to
// their respective kinds.
type Condition struct {
	Kind            ConditionKind
	Expect          bool
	PropertyType    string
	RequiredObjects []string
}

// conditionsOf flattens the stored JSON shape into tagged conditions.
// Absent fields produce no condition and are never evaluated.
func conditionsOf(rc models.RuleConditions) []Condition {
	var conds []Condition
	if rc.RequiresEmptyRoom != nil {
		conds = append(conds, Condition{Kind: CondEmptyRoom, Expect: *rc.RequiresEmptyRoom})
	}
	if rc.RequiresCluttered != nil {
		conds = append(conds, Condition{Kind: CondCluttered, Expect: *rc.RequiresCluttered})
	}
	if rc.RequiresExterior != nil {
		conds = append(conds, Condition{Kind: CondExterior, Expect: *rc.RequiresExterior})
	}
	if rc.RequiresEveningShot != nil {
		conds = append(conds, Condition{Kind: CondEveningShot, Expect: *rc.RequiresEveningShot})
	}
	if rc.PropertyType != "" {
		conds = append(conds, Condition{Kind: CondPropertyType, PropertyType: rc.PropertyType})
	}
	if len(rc.RequiredObjects) > 0 {
		conds = append(conds, Condition{Kind: CondRequiredObjects, RequiredObjects: rc.RequiredObjects})
	}
	return conds
}

// ImageFeatures is the per-image feature set derived from one analysis
// result.
type ImageFeatures struct {
	EmptyRoom   bool
	Cluttered   bool
	Exterior    bool
	EveningShot bool
	Objects     []string

	// Confidence per feature flag, used for rule confidence averaging.
	Confidence map[string]float64
}

// FeaturesOf derives the feature flags from a classification result.
func FeaturesOf(r *models.ImageAnalysisResult) ImageFeatures {
	highConfidence := r.Confidence > featureConfidenceMin
	timeOfDay := strings.ToLower(r.TimeOfDay)
	evening := timeOfDay == "evening" || timeOfDay == "twilight" || timeOfDay == "dusk" || timeOfDay == "night"

	return ImageFeatures{
		EmptyRoom:   r.SceneType == models.SceneEmptyRoom && highConfidence,
		Cluttered:   r.ClutterScore >= clutterScoreMin,
		Exterior:    r.SceneType == models.SceneExterior && highConfidence,
		EveningShot: evening && highConfidence,
		Objects:     r.DetectedObjects,
		Confidence: map[string]float64{
			"empty_room":   r.Confidence,
			"cluttered":    r.ClutterScore,
			"exterior":     r.Confidence,
			"evening_shot": r.Confidence,
			"overall":      r.Confidence,
		},
	}
}

// Matches evaluates a single condition against one image's features. This is
// the one exhaustive switch over all condition kinds.
func (c Condition) Matches(f ImageFeatures, propertyType string) bool {
	switch c.Kind {
	case CondEmptyRoom:
		return f.EmptyRoom == c.Expect
	case CondCluttered:
		return f.Cluttered == c.Expect
	case CondExterior:
		return f.Exterior == c.Expect
	case CondEveningShot:
		return f.EveningShot == c.Expect
	case CondPropertyType:
		return strings.EqualFold(c.PropertyType, propertyType)
	case CondRequiredObjects:
		return containsAll(f.Objects, c.RequiredObjects)
	default:
		return false
	}
}

// confidenceKey returns the feature-confidence key a condition reads, or ""
// when the condition does not check a feature flag.
func (c Condition) confidenceKey() string {
	switch c.Kind {
	case CondEmptyRoom:
		return "empty_room"
	case CondCluttered:
		return "cluttered"
	case CondExterior:
		return "exterior"
	case CondEveningShot:
		return "evening_shot"
	default:
		return ""
	}
}

func containsAll(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, o := range have {
		set[strings.ToLower(o)] = true
	}
	for _, w := range want {
		if !set[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

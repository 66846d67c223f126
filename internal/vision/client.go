// Package vision wraps the external image-classification API.
package vision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Analysis type hints sent with every classification request.
var DefaultAnalysisTypes = []string{"scene", "objects", "quality"}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type AnalyzeRequest struct {
	ImageURL      string   `json:"image_url"`
	AnalysisTypes []string `json:"analysis_types"`
}

type AnalyzeResponse struct {
	SceneType       string   `json:"scene_type"`
	TimeOfDay       string   `json:"time_of_day"`
	ClutterScore    float64  `json:"clutter_score"`
	DetectedObjects []string `json:"detected_objects"`
	Confidence      float64  `json:"confidence"`
	AnalysisID      string   `json:"analysis_id"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify submits one image URL for classification. There is deliberately
// no retry here: a failed call is treated by callers as absent signal.
func (c *Client) Classify(imageURL string, analysisTypes []string) (*AnalyzeResponse, error) {
	if len(analysisTypes) == 0 {
		analysisTypes = DefaultAnalysisTypes
	}

	jsonData, err := json.Marshal(AnalyzeRequest{
		ImageURL:      imageURL,
		AnalysisTypes: analysisTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/analyze"
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to classify image: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

package vision

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	var gotRequest AnalyzeRequest
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		gotAPIKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(AnalyzeResponse{
			SceneType:       "empty_room",
			TimeOfDay:       "day",
			ClutterScore:    0.1,
			DetectedObjects: []string{"window", "hardwood_floor"},
			Confidence:      0.93,
			AnalysisID:      "an-42",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "test-key")
	resp, err := client.Classify("https://img/1.jpg", nil)

	require.NoError(t, err)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "https://img/1.jpg", gotRequest.ImageURL)
	assert.Equal(t, DefaultAnalysisTypes, gotRequest.AnalysisTypes)
	assert.Equal(t, "empty_room", resp.SceneType)
	assert.InDelta(t, 0.93, resp.Confidence, 1e-9)
	assert.Equal(t, "an-42", resp.AnalysisID)
}

func TestClassify_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Classify("https://img/1.jpg", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClassify_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Classify("https://img/1.jpg", nil)

	assert.Error(t, err)
}

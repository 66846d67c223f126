package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"propshot-backend/internal/handlers"
	"propshot-backend/internal/models"
	"propshot-backend/internal/validation"
)

func quotesRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := handlers.NewQuotesHandler(validation.New())
	router.POST("/quotes", handler.Quote)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQuote_BasePackage(t *testing.T) {
	router := quotesRouter()

	w := postJSON(t, router, "/quotes", models.QuoteRequest{PhotoCount: 5})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.PhotoCount)
	assert.InDelta(t, 7.50, resp.Total, 1e-9)
}

func TestQuote_WithServicesAndVolumeDiscount(t *testing.T) {
	router := quotesRouter()

	w := postJSON(t, router, "/quotes", models.QuoteRequest{
		PhotoCount: 12,
		Services:   models.ServiceSelection{VirtualStaging: true},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// (1.50 + 10.00) * 12 * 0.90
	assert.InDelta(t, 124.20, resp.Total, 1e-9)
}

func TestQuote_NegativePhotoCount(t *testing.T) {
	router := quotesRouter()

	w := postJSON(t, router, "/quotes", map[string]any{"photo_count": -2})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

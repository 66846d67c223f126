package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"propshot-backend/internal/config"
	"propshot-backend/internal/handlers"
	"propshot-backend/internal/services"
)

func webhooksRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// The lifecycle service is only reached after token and payload checks
	// pass, which none of these requests do.
	handler := handlers.NewWebhooksHandler(cfg, services.NewLifecycleService(nil, nil))
	router.POST("/api/v1/webhooks/payments", handler.HandlePayment)
	router.POST("/api/v1/webhooks/editing", handler.HandleEditing)
	return router
}

func postWebhook(router *gin.Engine, path, token, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentWebhook_MissingToken(t *testing.T) {
	router := webhooksRouter(&config.Config{PaymentWebhookToken: "secret"})

	w := postWebhook(router, "/api/v1/webhooks/payments", "", `{}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentWebhook_WrongToken(t *testing.T) {
	router := webhooksRouter(&config.Config{PaymentWebhookToken: "secret"})

	w := postWebhook(router, "/api/v1/webhooks/payments", "Bearer wrong", `{}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentWebhook_InvalidOrderID(t *testing.T) {
	router := webhooksRouter(&config.Config{PaymentWebhookToken: "secret"})

	w := postWebhook(router, "/api/v1/webhooks/payments", "Bearer secret",
		`{"event":"payment.updated","order_id":"not-a-uuid","status":"succeeded"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentWebhook_UnknownStatus(t *testing.T) {
	router := webhooksRouter(&config.Config{PaymentWebhookToken: "secret"})

	w := postWebhook(router, "/api/v1/webhooks/payments", "Bearer secret",
		`{"event":"payment.updated","order_id":"b7a9c9e2-63a5-4f4e-9c41-2f8f0a3a9d11","status":"teleported"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditingWebhook_ConfigurationPing(t *testing.T) {
	router := webhooksRouter(&config.Config{EditingWebhookToken: "secret"})

	w := postWebhook(router, "/api/v1/webhooks/editing", "secret",
		`{"event":"webhook_updated"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "webhook configured")
}

func TestEditingWebhook_InvalidPhotoID(t *testing.T) {
	router := webhooksRouter(&config.Config{EditingWebhookToken: "secret"})

	w := postWebhook(router, "/api/v1/webhooks/editing", "Bearer secret",
		`{"event":"photo.edited","order_id":"b7a9c9e2-63a5-4f4e-9c41-2f8f0a3a9d11","photo_id":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

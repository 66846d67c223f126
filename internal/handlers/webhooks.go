package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"propshot-backend/internal/config"
	"propshot-backend/internal/models"
	"propshot-backend/internal/services"
)

type WebhooksHandler struct {
	config    *config.Config
	lifecycle *services.LifecycleService
}

func NewWebhooksHandler(cfg *config.Config, lifecycle *services.LifecycleService) *WebhooksHandler {
	return &WebhooksHandler{
		config:    cfg,
		lifecycle: lifecycle,
	}
}

// PaymentWebhookEvent is the payment provider's callback payload.
type PaymentWebhookEvent struct {
	Event   string `json:"event"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// EditingWebhookEvent is the editing pipeline's callback payload.
type EditingWebhookEvent struct {
	Event      string `json:"event"`
	OrderID    string `json:"order_id"`
	PhotoID    string `json:"photo_id"`
	EditedPath string `json:"edited_path,omitempty"`
	Error      bool   `json:"error"`
}

// HandlePayment godoc
// @Summary     Payment provider webhook endpoint
// @Description Receives payment status callbacks. Uses authentication token verification.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Authorization header string true "Authentication token (configured with the payment provider)"
// @Success     200 {object} map[string]string "status"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /webhooks/payments [post]
func (h *WebhooksHandler) HandlePayment(c *gin.Context) {
	if h.lifecycle == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "lifecycle service not available"})
		return
	}
	if !h.verifyToken(c, h.config.PaymentWebhookToken) {
		return
	}

	var event PaymentWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse event",
			Message: err.Error(),
		})
		return
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	switch event.Status {
	case models.PaymentStatusSucceeded, models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown payment status"})
		return
	}

	// Acknowledge immediately; the provider retries on non-2xx.
	go func() {
		if err := h.lifecycle.HandlePaymentUpdate(orderID, event.Status); err != nil {
			log.Printf("payment webhook: order %s: %v", orderID, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleEditing godoc
// @Summary     Editing pipeline webhook endpoint
// @Description Receives per-photo completion callbacks from the editing pipeline. Uses authentication token verification.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Authorization header string true "Authentication token (configured with the editing pipeline)"
// @Success     200 {object} map[string]string "status"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /webhooks/editing [post]
func (h *WebhooksHandler) HandleEditing(c *gin.Context) {
	if h.lifecycle == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "lifecycle service not available"})
		return
	}
	if !h.verifyToken(c, h.config.EditingWebhookToken) {
		return
	}

	var event EditingWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse event",
			Message: err.Error(),
		})
		return
	}

	// Configuration pings carry no photo.
	if event.Event == "webhook_updated" {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "webhook configured"})
		return
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}
	photoID, err := uuid.Parse(event.PhotoID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid photo id"})
		return
	}

	go func() {
		if err := h.lifecycle.HandlePhotoEdited(orderID, photoID, event.EditedPath, event.Error); err != nil {
			log.Printf("editing webhook: order %s photo %s: %v", orderID, photoID, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// verifyToken checks the webhook's shared-secret Authorization header. The
// header may carry a bare token or a Bearer prefix.
func (h *WebhooksHandler) verifyToken(c *gin.Context, expected string) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization token"})
		return false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	token = strings.TrimSpace(token)

	if expected != "" && token != expected {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization token"})
		return false
	}
	return true
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"propshot-backend/internal/middleware"
	"propshot-backend/internal/models"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// currentUserID pulls the authenticated user id out of the gin context. On
// failure it writes the error response and returns false.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}

	return userID, true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func orderResponse(order *models.Order) models.OrderResponse {
	resp := models.OrderResponse{
		ID:            order.ID.String(),
		PhotoCount:    order.PhotoCount,
		Services:      order.Services(),
		TotalPrice:    order.TotalPrice,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.Notes.Valid {
		resp.Notes = order.Notes.String
	}
	if order.TrackingNumber.Valid {
		resp.TrackingNumber = order.TrackingNumber.String
	}
	if order.AssignedEditorID.Valid {
		resp.AssignedEditorID = order.AssignedEditorID.UUID.String()
	}
	if order.EstimatedCompletion.Valid {
		t := order.EstimatedCompletion.Time
		resp.EstimatedCompletion = &t
	}
	return resp
}

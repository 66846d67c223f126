package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"propshot-backend/internal/models"
	"propshot-backend/internal/pricing"
	"propshot-backend/internal/supabase"
	"propshot-backend/internal/validation"
)

type OrdersHandler struct {
	dbClient       *supabase.DatabaseClient
	realtimeClient *supabase.RealtimeClient
	validate       *validatorv10.Validate
}

func NewOrdersHandler(dbClient *supabase.DatabaseClient, realtimeClient *supabase.RealtimeClient, validate *validatorv10.Validate) *OrdersHandler {
	return &OrdersHandler{
		dbClient:       dbClient,
		realtimeClient: realtimeClient,
		validate:       validate,
	}
}

// CreateOrder godoc
// @Summary     Create a new order
// @Description Creates an order from a photo count and selected services. The server recomputes the price; a client-claimed total that disagrees with the quote is rejected. An optional discount code is applied server-side.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateOrderRequest true "Order details"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	total, err := pricing.Quote(req.PhotoCount, req.Services)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid photo count", Message: err.Error()})
		return
	}

	if req.DiscountCode != "" {
		code := strings.ToUpper(strings.TrimSpace(req.DiscountCode))
		discount, err := h.dbClient.GetDiscount(code)
		if err != nil || discount == nil || !discount.Usable(timeNow()) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid discount code"})
			return
		}
		total = pricing.ApplyDiscount(total, discount)
		_ = h.dbClient.IncrementDiscountUse(code)
	}

	order := &models.Order{
		ID:                 uuid.New(),
		UserID:             userID,
		PhotoCount:         req.PhotoCount,
		VirtualStaging:     req.Services.VirtualStaging,
		TwilightConversion: req.Services.TwilightConversion,
		Decluttering:       req.Services.Decluttering,
		TotalPrice:         total,
		Status:             models.OrderStatusPending,
		PaymentStatus:      models.PaymentStatusPending,
	}
	if req.Notes != "" {
		order.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := h.dbClient.CreateOrder(order); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create order",
			Message: err.Error(),
		})
		return
	}

	_ = h.dbClient.AddOrderHistory(order.ID, "created", "", uuid.NullUUID{UUID: userID, Valid: true})

	created, err := h.dbClient.GetOrder(order.ID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load order",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, orderResponse(created))
}

// ListOrders godoc
// @Summary     List orders
// @Description Returns all orders for the authenticated user
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.dbClient.ListOrders(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	responses := make([]models.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = orderResponse(&orders[i])
	}

	c.JSON(http.StatusOK, models.OrderListResponse{Orders: responses})
}

// GetOrder godoc
// @Summary     Get order details
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "order_id")
	if !ok {
		return
	}

	order, err := h.dbClient.GetOrder(orderID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "order not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// GetStatus godoc
// @Summary     Get order status
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.StatusResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/status [get]
func (h *OrdersHandler) GetStatus(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "order_id")
	if !ok {
		return
	}

	order, err := h.dbClient.GetOrder(orderID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "order not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		OrderID:       order.ID.String(),
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		UpdatedAt:     order.UpdatedAt,
	})
}

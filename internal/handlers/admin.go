package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"propshot-backend/internal/models"
	"propshot-backend/internal/services"
	"propshot-backend/internal/supabase"
	"propshot-backend/internal/validation"
)

type AdminHandler struct {
	dbClient  *supabase.DatabaseClient
	assigner  *services.Assigner
	lifecycle *services.LifecycleService
	validate  *validatorv10.Validate
}

func NewAdminHandler(dbClient *supabase.DatabaseClient, assigner *services.Assigner, lifecycle *services.LifecycleService, validate *validatorv10.Validate) *AdminHandler {
	return &AdminHandler{
		dbClient:  dbClient,
		assigner:  assigner,
		lifecycle: lifecycle,
		validate:  validate,
	}
}

// ListOrders godoc
// @Summary     List all orders
// @Description Returns every order, optionally filtered by status via the ?status= query parameter.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       status query string false "Filter by order status"
// @Success     200 {object} models.OrderListResponse
// @Router      /admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.dbClient.ListAllOrders(c.Query("status"))
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

// AssignEditor godoc
// @Summary     Assign an editor to an order
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       request body models.AssignEditorRequest true "Editor"
// @Success     200 {object} models.AssignmentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/assign [post]
func (h *AdminHandler) AssignEditor(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "order_id")
	if !ok {
		return
	}

	var req models.AssignEditorRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	editorID, err := uuid.Parse(req.EditorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid editor id"})
		return
	}

	editor, err := h.dbClient.GetEditor(editorID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "editor not found",
			Message: err.Error(),
		})
		return
	}

	assignment, err := h.assigner.Assign(orderID, *editor, uuid.NullUUID{UUID: adminID, Valid: true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to assign editor",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.AssignmentResponse{
		OrderID:  assignment.OrderID.String(),
		EditorID: assignment.EditorID.String(),
		Editor:   assignment.Editor,
	})
}

// AutoAssign godoc
// @Summary     Auto-assign editors
// @Description Distributes all unassigned paid orders over active editors round-robin, least recently assigned first.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.AutoAssignResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/orders/auto-assign [post]
func (h *AdminHandler) AutoAssign(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	assignments, err := h.assigner.AutoAssign(uuid.NullUUID{UUID: adminID, Valid: true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to auto-assign",
			Message: err.Error(),
		})
		return
	}

	responses := make([]models.AssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = models.AssignmentResponse{
			OrderID:  a.OrderID.String(),
			EditorID: a.EditorID.String(),
			Editor:   a.Editor,
		}
	}
	c.JSON(http.StatusOK, models.AutoAssignResponse{Assignments: responses})
}

// Approve godoc
// @Summary     Approve an order in review
// @Description Moves a reviewed order to completed and issues a tracking number.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "order_id")
	if !ok {
		return
	}

	order, err := h.lifecycle.Approve(orderID, uuid.NullUUID{UUID: adminID, Valid: true})
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to approve order",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// RequestRevision godoc
// @Summary     Send an order in review back for revision
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       request body models.RevisionRequest true "Revision note"
// @Success     200 {object} map[string]string
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/orders/{order_id}/revision [post]
func (h *AdminHandler) RequestRevision(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "order_id")
	if !ok {
		return
	}

	var req models.RevisionRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	if err := h.lifecycle.RequestRevision(orderID, req.Note, uuid.NullUUID{UUID: adminID, Valid: true}); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to request revision",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

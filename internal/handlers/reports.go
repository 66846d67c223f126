package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"propshot-backend/internal/models"
	"propshot-backend/internal/supabase"
)

type ReportsHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewReportsHandler(dbClient *supabase.DatabaseClient) *ReportsHandler {
	return &ReportsHandler{dbClient: dbClient}
}

// Summary godoc
// @Summary     Admin summary report
// @Description Order counts by status, revenue totals, suggestion interaction counts and headline figures.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ReportSummaryResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/reports/summary [get]
func (h *ReportsHandler) Summary(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	ordersByStatus, err := h.dbClient.OrdersByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to build report",
			Message: err.Error(),
		})
		return
	}

	collected, pending, err := h.dbClient.RevenueTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to build report",
			Message: err.Error(),
		})
		return
	}

	// Secondary metrics are best-effort; a failed count leaves a zero.
	interactions, err := h.dbClient.CountInteractionsByAction()
	if err != nil {
		interactions = map[string]int{}
	}
	totalPhotos, _ := h.dbClient.CountPhotos()
	activeEditors, _ := h.dbClient.CountActiveEditors()

	totalOrders := 0
	for _, count := range ordersByStatus {
		totalOrders += count
	}
	avgOrderValue := 0.0
	if totalOrders > 0 {
		avgOrderValue = (collected + pending) / float64(totalOrders)
	}

	c.JSON(http.StatusOK, models.ReportSummaryResponse{
		OrdersByStatus:     ordersByStatus,
		TotalRevenue:       collected,
		PendingRevenue:     pending,
		InteractionsByKind: interactions,
		TotalOrders:        totalOrders,
		TotalPhotos:        totalPhotos,
		ActiveEditors:      activeEditors,
		AverageOrderValue:  avgOrderValue,
	})
}

package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"propshot-backend/internal/models"
	"propshot-backend/internal/supabase"
	"propshot-backend/internal/validation"
)

type DiscountsHandler struct {
	dbClient *supabase.DatabaseClient
	validate *validatorv10.Validate
}

func NewDiscountsHandler(dbClient *supabase.DatabaseClient, validate *validatorv10.Validate) *DiscountsHandler {
	return &DiscountsHandler{dbClient: dbClient, validate: validate}
}

// Validate godoc
// @Summary     Validate a discount code
// @Description Customer-facing check that a code exists, is active, unexpired and under its use cap.
// @Tags        discounts
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ValidateDiscountRequest true "Code to check"
// @Success     200 {object} models.DiscountResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /discounts/validate [post]
func (h *DiscountsHandler) Validate(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var req models.ValidateDiscountRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	discount, err := h.dbClient.GetDiscount(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to look up code",
			Message: err.Error(),
		})
		return
	}

	if discount == nil || !discount.Usable(timeNow()) {
		c.JSON(http.StatusOK, models.DiscountResponse{Code: code, Valid: false})
		return
	}

	c.JSON(http.StatusOK, discountResponse(discount, true))
}

// Create godoc
// @Summary     Create a discount code
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateDiscountRequest true "Discount code"
// @Success     200 {object} models.DiscountResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/discounts [post]
func (h *DiscountsHandler) Create(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var req models.CreateDiscountRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	discount := &models.DiscountCode{
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		PercentOff: req.PercentOff,
		AmountOff:  req.AmountOff,
		MaxUses:    req.MaxUses,
		Active:     true,
	}
	if req.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid expires_at",
				Message: "expected RFC 3339 timestamp",
			})
			return
		}
		discount.ExpiresAt = sql.NullTime{Time: expires, Valid: true}
	}

	if err := h.dbClient.CreateDiscount(discount); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create discount",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, discountResponse(discount, true))
}

// List godoc
// @Summary     List discount codes
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DiscountListResponse
// @Router      /admin/discounts [get]
func (h *DiscountsHandler) List(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	discounts, err := h.dbClient.ListDiscounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list discounts",
			Message: err.Error(),
		})
		return
	}

	responses := make([]models.DiscountResponse, len(discounts))
	now := timeNow()
	for i := range discounts {
		responses[i] = discountResponse(&discounts[i], discounts[i].Usable(now))
	}

	c.JSON(http.StatusOK, models.DiscountListResponse{Discounts: responses})
}

// Deactivate godoc
// @Summary     Deactivate a discount code
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       code path string true "Discount code"
// @Success     200 {object} map[string]string
// @Router      /admin/discounts/{code} [delete]
func (h *DiscountsHandler) Deactivate(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if err := h.dbClient.DeactivateDiscount(code); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to deactivate discount",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func discountResponse(discount *models.DiscountCode, valid bool) models.DiscountResponse {
	resp := models.DiscountResponse{
		Code:       discount.Code,
		PercentOff: discount.PercentOff,
		AmountOff:  discount.AmountOff,
		Valid:      valid,
	}
	if discount.ExpiresAt.Valid {
		t := discount.ExpiresAt.Time
		resp.ExpiresAt = &t
	}
	return resp
}

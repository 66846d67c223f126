package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"propshot-backend/internal/models"
	"propshot-backend/internal/pricing"
	"propshot-backend/internal/validation"
)

type QuotesHandler struct {
	validate *validatorv10.Validate
}

func NewQuotesHandler(validate *validatorv10.Validate) *QuotesHandler {
	return &QuotesHandler{validate: validate}
}

// Quote godoc
// @Summary     Price estimate
// @Description Computes the price for a photo count and service selection without creating anything.
// @Tags        quotes
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.QuoteRequest true "Quote inputs"
// @Success     200 {object} models.QuoteResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /quotes [post]
func (h *QuotesHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	total, err := pricing.Quote(req.PhotoCount, req.Services)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid photo count", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.QuoteResponse{
		PhotoCount: req.PhotoCount,
		Total:      total,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"propshot-backend/internal/models"
	"propshot-backend/internal/suggest"
	"propshot-backend/internal/validation"
)

type SuggestionsHandler struct {
	engine   *suggest.Engine
	validate *validatorv10.Validate
}

func NewSuggestionsHandler(engine *suggest.Engine, validate *validatorv10.Validate) *SuggestionsHandler {
	return &SuggestionsHandler{engine: engine, validate: validate}
}

// GetSuggestions godoc
// @Summary     Promotional suggestions for uploaded photos
// @Description Analyzes the given image URLs and returns up to three upsell suggestions ranked by priority. Analysis or rule failures degrade to fewer suggestions, never to an error.
// @Tags        suggestions
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SuggestionsRequest true "Image URLs and optional property type"
// @Success     200 {object} models.SuggestionsResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /suggestions [post]
func (h *SuggestionsHandler) GetSuggestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SuggestionsRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	suggestions, segment := h.engine.GetSuggestions(userID, req.ImageURLs, req.PropertyType)
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	c.JSON(http.StatusOK, models.SuggestionsResponse{
		Suggestions: suggestions,
		Segment:     segment,
	})
}

// TrackInteraction godoc
// @Summary     Record a suggestion interaction
// @Description Persists one view/click/dismiss interaction for analytics. Persistence failures are swallowed; this endpoint never fails a client for a logging problem.
// @Tags        suggestions
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.InteractionRequest true "Interaction"
// @Success     200 {object} map[string]string
// @Failure     400 {object} models.ErrorResponse
// @Router      /suggestions/interactions [post]
func (h *SuggestionsHandler) TrackInteraction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.InteractionRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	h.engine.TrackInteraction(userID, req.SuggestionID, req.Action, req.Metadata)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

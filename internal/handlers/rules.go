package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"propshot-backend/internal/models"
	"propshot-backend/internal/supabase"
	"propshot-backend/internal/validation"
)

type RulesHandler struct {
	dbClient *supabase.DatabaseClient
	validate *validatorv10.Validate
}

func NewRulesHandler(dbClient *supabase.DatabaseClient, validate *validatorv10.Validate) *RulesHandler {
	return &RulesHandler{dbClient: dbClient, validate: validate}
}

// List godoc
// @Summary     List suggestion rules
// @Description Returns every configured suggestion rule, enabled or not.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.RuleListResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/rules [get]
func (h *RulesHandler) List(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	rules, err := h.dbClient.ListRules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list rules",
			Message: err.Error(),
		})
		return
	}

	resp := models.RuleListResponse{Rules: make([]models.RuleResponse, 0, len(rules))}
	for i := range rules {
		resp.Rules = append(resp.Rules, ruleResponse(&rules[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary     Create a suggestion rule
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UpsertRuleRequest true "Rule definition"
// @Success     201 {object} models.RuleResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/rules [post]
func (h *RulesHandler) Create(c *gin.Context) {
	h.upsert(c, uuid.New(), http.StatusCreated)
}

// Update godoc
// @Summary     Update a suggestion rule
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       rule_id path string                   true "Rule ID"
// @Param       request body models.UpsertRuleRequest true "Rule definition"
// @Success     200 {object} models.RuleResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/rules/{rule_id} [put]
func (h *RulesHandler) Update(c *gin.Context) {
	ruleID, ok := pathUUID(c, "rule_id")
	if !ok {
		return
	}
	h.upsert(c, ruleID, http.StatusOK)
}

// Delete godoc
// @Summary     Delete a suggestion rule
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       rule_id path string true "Rule ID"
// @Success     200 {object} models.StatusResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/rules/{rule_id} [delete]
func (h *RulesHandler) Delete(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	ruleID, ok := pathUUID(c, "rule_id")
	if !ok {
		return
	}

	if err := h.dbClient.DeleteRule(ruleID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete rule",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "deleted"})
}

func (h *RulesHandler) upsert(c *gin.Context, ruleID uuid.UUID, status int) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var req models.UpsertRuleRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	rule := &models.SuggestionRule{
		ID:               ruleID,
		Name:             req.Name,
		Enabled:          req.Enabled,
		TriggerType:      req.TriggerType,
		TriggerThreshold: req.TriggerThreshold,
		Weight:           req.Weight,
		Priority:         req.Priority,
		Conditions:       req.Conditions,
		Actions:          req.Actions,
		Variants:         req.Variants,
	}
	if req.Description != "" {
		rule.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := h.dbClient.SaveRule(rule); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save rule",
			Message: err.Error(),
		})
		return
	}

	c.JSON(status, ruleResponse(rule))
}

func ruleResponse(rule *models.SuggestionRule) models.RuleResponse {
	return models.RuleResponse{
		ID:               rule.ID.String(),
		Name:             rule.Name,
		Description:      rule.Description.String,
		Enabled:          rule.Enabled,
		TriggerType:      rule.TriggerType,
		TriggerThreshold: rule.TriggerThreshold,
		Weight:           rule.Weight,
		Priority:         rule.Priority,
		Conditions:       rule.Conditions,
		Actions:          rule.Actions,
		Variants:         rule.Variants,
	}
}

package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RuleConditions is the stored (JSON) shape of a rule's predicates. A nil
// field means the condition is absent and is not evaluated.
type RuleConditions struct {
	RequiresEmptyRoom   *bool    `json:"requires_empty_room,omitempty"`
	RequiresCluttered   *bool    `json:"requires_cluttered,omitempty"`
	RequiresExterior    *bool    `json:"requires_exterior,omitempty"`
	RequiresEveningShot *bool    `json:"requires_evening_shot,omitempty"`
	PropertyType        string   `json:"property_type,omitempty"`
	RequiredObjects     []string `json:"required_objects,omitempty"`
}

// RuleAction is one entry of a rule's ordered action list.
type RuleAction struct {
	Type           string  `json:"type"`
	Title          string  `json:"title,omitempty"`
	Description    string  `json:"description,omitempty"`
	CTA            string  `json:"cta,omitempty"`
	DiscountCode   string  `json:"discount_code,omitempty"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`
	DiscountExpiry string  `json:"discount_expiry,omitempty"`
}

// RuleVariant overrides a rule's conditions and/or actions for one A/B
// segment. Nil fields fall through to the rule's base values.
type RuleVariant struct {
	Conditions *RuleConditions `json:"conditions,omitempty"`
	Actions    []RuleAction    `json:"actions,omitempty"`
}

type SuggestionRule struct {
	ID               uuid.UUID
	Name             string
	Description      sql.NullString
	Enabled          bool
	TriggerType      string
	TriggerThreshold int
	Weight           float64
	Priority         int
	Conditions       RuleConditions
	Actions          []RuleAction
	Variants         map[string]RuleVariant
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Suggestion is a derived recommendation; it is computed fresh per request
// and never persisted.
type Suggestion struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	CTA            string  `json:"cta,omitempty"`
	Priority       float64 `json:"priority"`
	DiscountCode   string  `json:"discount_code,omitempty"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`
	DiscountExpiry string  `json:"discount_expiry,omitempty"`
	RuleID         string  `json:"rule_id"`
	Confidence     float64 `json:"confidence"`
	Segment        string  `json:"segment"`
}

const (
	InteractionView    = "view"
	InteractionClick   = "click"
	InteractionDismiss = "dismiss"
)

type SuggestionInteraction struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SuggestionID string
	Action       string
	Metadata     map[string]any
	CreatedAt    time.Time
}

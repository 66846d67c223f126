package models

// CreateOrderRequest is the payload for POST /orders. Total is the price the
// client computed and displayed; the server recomputes it and rejects a
// mismatch via struct-level validation.
type CreateOrderRequest struct {
	PhotoCount   int              `json:"photo_count" validate:"min=0"`
	Services     ServiceSelection `json:"services"`
	Total        float64          `json:"total" validate:"min=0"`
	DiscountCode string           `json:"discount_code,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// QuoteRequest asks for a price estimate without creating anything.
type QuoteRequest struct {
	PhotoCount int              `json:"photo_count" validate:"min=0"`
	Services   ServiceSelection `json:"services"`
}

type SuggestionsRequest struct {
	ImageURLs    []string `json:"image_urls" validate:"required,min=1,dive,url"`
	PropertyType string   `json:"property_type,omitempty"`
}

type InteractionRequest struct {
	SuggestionID string         `json:"suggestion_id" validate:"required"`
	Action       string         `json:"action" validate:"required,oneof=view click dismiss"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type ValidateDiscountRequest struct {
	Code string `json:"code" validate:"required"`
}

type CreateDiscountRequest struct {
	Code       string  `json:"code" validate:"required"`
	PercentOff float64 `json:"percent_off" validate:"min=0,max=100"`
	AmountOff  float64 `json:"amount_off" validate:"min=0"`
	MaxUses    int     `json:"max_uses" validate:"min=0"`
	ExpiresAt  string  `json:"expires_at,omitempty"`
}

type AssignEditorRequest struct {
	EditorID string `json:"editor_id" validate:"required,uuid"`
}

type RevisionRequest struct {
	Note string `json:"note" validate:"required"`
}

// UpsertRuleRequest creates or updates a suggestion rule.
type UpsertRuleRequest struct {
	Name             string                 `json:"name" validate:"required"`
	Description      string                 `json:"description,omitempty"`
	Enabled          bool                   `json:"enabled"`
	TriggerType      string                 `json:"trigger_type" validate:"required"`
	TriggerThreshold int                    `json:"trigger_threshold" validate:"min=1"`
	Weight           float64                `json:"weight" validate:"gt=0"`
	Priority         int                    `json:"priority"`
	Conditions       RuleConditions         `json:"conditions"`
	Actions          []RuleAction           `json:"actions" validate:"required,min=1"`
	Variants         map[string]RuleVariant `json:"variants,omitempty"`
}

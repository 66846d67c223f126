package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID                  string           `json:"order_id"`
	PhotoCount          int              `json:"photo_count"`
	Services            ServiceSelection `json:"services"`
	TotalPrice          float64          `json:"total_price"`
	Status              string           `json:"status"`
	PaymentStatus       string           `json:"payment_status"`
	Notes               string           `json:"notes,omitempty"`
	TrackingNumber      string           `json:"tracking_number,omitempty"`
	AssignedEditorID    string           `json:"assigned_editor_id,omitempty"`
	EstimatedCompletion *time.Time       `json:"estimated_completion,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type StatusResponse struct {
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type QuoteResponse struct {
	PhotoCount int     `json:"photo_count"`
	Total      float64 `json:"total"`
}

type PhotoResponse struct {
	ID               string    `json:"id"`
	StoragePath      string    `json:"storage_path"`
	StorageURL       string    `json:"storage_url"`
	EditedURL        string    `json:"edited_url,omitempty"`
	Status           string    `json:"status"`
	OriginalFilename string    `json:"original_filename"`
	CreatedAt        time.Time `json:"created_at"`
}

type UploadResponse struct {
	OrderID    string          `json:"order_id"`
	Photos     []PhotoResponse `json:"photos"`
	PhotoCount int             `json:"photo_count"`
	Errors     []string        `json:"errors,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Segment     string       `json:"segment"`
}

type DiscountResponse struct {
	Code       string     `json:"code"`
	PercentOff float64    `json:"percent_off,omitempty"`
	AmountOff  float64    `json:"amount_off,omitempty"`
	Valid      bool       `json:"valid"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type DiscountListResponse struct {
	Discounts []DiscountResponse `json:"discounts"`
}

type AssignmentResponse struct {
	OrderID  string `json:"order_id"`
	EditorID string `json:"editor_id"`
	Editor   string `json:"editor"`
}

type AutoAssignResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// ReportSummaryResponse aggregates order, revenue and suggestion metrics for
// the admin dashboard.
type ReportSummaryResponse struct {
	OrdersByStatus      map[string]int `json:"orders_by_status"`
	TotalRevenue        float64        `json:"total_revenue"`
	PendingRevenue      float64        `json:"pending_revenue"`
	InteractionsByKind  map[string]int `json:"interactions_by_kind"`
	TotalOrders         int            `json:"total_orders"`
	TotalPhotos         int            `json:"total_photos"`
	ActiveEditors       int            `json:"active_editors"`
	AverageOrderValue   float64        `json:"average_order_value"`
}

type RuleResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description,omitempty"`
	Enabled          bool                   `json:"enabled"`
	TriggerType      string                 `json:"trigger_type"`
	TriggerThreshold int                    `json:"trigger_threshold"`
	Weight           float64                `json:"weight"`
	Priority         int                    `json:"priority"`
	Conditions       RuleConditions         `json:"conditions"`
	Actions          []RuleAction           `json:"actions"`
	Variants         map[string]RuleVariant `json:"variants,omitempty"`
}

type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Order lifecycle statuses. Transitions are monotonic forward except the
// explicit review -> revision branch.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusReview     = "review"
	OrderStatusRevision   = "revision"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed"
)

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSucceeded  = "succeeded"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

// orderTransitions maps each status to the statuses it may move into.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusFailed},
	OrderStatusProcessing: {OrderStatusReview, OrderStatusFailed},
	OrderStatusReview:     {OrderStatusRevision, OrderStatusCompleted, OrderStatusFailed},
	OrderStatusRevision:   {OrderStatusReview, OrderStatusFailed},
	OrderStatusCompleted:  {},
	OrderStatusFailed:     {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ServiceSelection holds the add-on editing services chosen for an order.
type ServiceSelection struct {
	VirtualStaging     bool `json:"virtual_staging"`
	TwilightConversion bool `json:"twilight_conversion"`
	Decluttering       bool `json:"decluttering"`
}

type Order struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	PhotoCount          int
	VirtualStaging      bool
	TwilightConversion  bool
	Decluttering        bool
	TotalPrice          float64
	Status              string
	PaymentStatus       string
	Notes               sql.NullString
	TrackingNumber      sql.NullString
	AssignedEditorID    uuid.NullUUID
	EstimatedCompletion sql.NullTime
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Services returns the order's add-on flags as a ServiceSelection.
func (o *Order) Services() ServiceSelection {
	return ServiceSelection{
		VirtualStaging:     o.VirtualStaging,
		TwilightConversion: o.TwilightConversion,
		Decluttering:       o.Decluttering,
	}
}

type Photo struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	StoragePath      string
	EditedPath       sql.NullString
	Status           string
	OriginalFilename string
	CreatedAt        time.Time
}

const (
	PhotoStatusProcessing = "processing"
	PhotoStatusCompleted  = "completed"
	PhotoStatusFailed     = "failed"
)

type Editor struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Active         bool
	LastAssignedAt sql.NullTime
	CreatedAt      time.Time
}

type DiscountCode struct {
	Code       string
	PercentOff float64
	AmountOff  float64
	MaxUses    int
	Uses       int
	Active     bool
	ExpiresAt  sql.NullTime
	CreatedAt  time.Time
}

// Usable reports whether the code can still be redeemed at the given time.
func (d *DiscountCode) Usable(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.MaxUses > 0 && d.Uses >= d.MaxUses {
		return false
	}
	if d.ExpiresAt.Valid && now.After(d.ExpiresAt.Time) {
		return false
	}
	return true
}

// OrderHistoryEntry records one admin action or status change on an order.
type OrderHistoryEntry struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Action    string
	Detail    sql.NullString
	ActorID   uuid.NullUUID
	CreatedAt time.Time
}

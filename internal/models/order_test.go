package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusProcessing, OrderStatusReview},
		{OrderStatusReview, OrderStatusRevision},
		{OrderStatusReview, OrderStatusCompleted},
		{OrderStatusRevision, OrderStatusReview},
		{OrderStatusPending, OrderStatusFailed},
		{OrderStatusProcessing, OrderStatusFailed},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusReview},
		{OrderStatusPending, OrderStatusCompleted},
		{OrderStatusProcessing, OrderStatusPending},
		{OrderStatusReview, OrderStatusProcessing},
		{OrderStatusCompleted, OrderStatusReview},
		{OrderStatusFailed, OrderStatusPending},
		{OrderStatusCompleted, OrderStatusCompleted},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("archived", OrderStatusCompleted))
	assert.False(t, CanTransition(OrderStatusPending, "archived"))
}

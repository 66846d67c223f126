package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"propshot-backend/internal/models"
	"propshot-backend/internal/supabase"
)

// Turnaround used for the customer-facing completion estimate once payment
// clears.
const estimatedTurnaround = 72 * time.Hour

// LifecycleService moves orders through their status machine in response to
// payment and editing-pipeline events and admin actions, recording history
// and notifying the customer along the way.
type LifecycleService struct {
	dbClient       *supabase.DatabaseClient
	realtimeClient *supabase.RealtimeClient
}

func NewLifecycleService(dbClient *supabase.DatabaseClient, realtimeClient *supabase.RealtimeClient) *LifecycleService {
	return &LifecycleService{
		dbClient:       dbClient,
		realtimeClient: realtimeClient,
	}
}

// HandlePaymentUpdate applies a payment-provider status to an order. A
// succeeded payment moves a pending order into processing.
func (s *LifecycleService) HandlePaymentUpdate(orderID uuid.UUID, paymentStatus string) error {
	order, err := s.dbClient.GetOrderByID(orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	if err := s.dbClient.UpdatePaymentStatus(orderID, paymentStatus); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	s.realtimeClient.PublishOrderEvent(orderID, "payment_updated",
		supabase.PaymentUpdatedPayload(orderID, paymentStatus))

	switch paymentStatus {
	case models.PaymentStatusSucceeded:
		if order.Status != models.OrderStatusPending {
			return nil
		}
		if err := s.transition(order, models.OrderStatusProcessing, "payment confirmed"); err != nil {
			return err
		}
		estimate := sql.NullTime{Time: time.Now().Add(estimatedTurnaround), Valid: true}
		_ = s.dbClient.SetEstimatedCompletion(orderID, estimate)
	case models.PaymentStatusFailed:
		// Left in pending with a failed payment; the customer retries from
		// the client.
		_ = s.dbClient.CreateNotification(order.UserID, orderID, "payment_failed",
			"Your payment could not be processed. Please try again.")
	}

	return nil
}

// HandlePhotoEdited applies one editing-pipeline callback. When the last
// photo of an order completes, the order moves to review.
func (s *LifecycleService) HandlePhotoEdited(orderID, photoID uuid.UUID, editedPath string, failed bool) error {
	order, err := s.dbClient.GetOrderByID(orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	status := models.PhotoStatusCompleted
	if failed {
		status = models.PhotoStatusFailed
	}
	if err := s.dbClient.UpdatePhotoEdited(photoID, editedPath, status); err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	s.realtimeClient.PublishOrderEvent(orderID, "photo_edited",
		supabase.PhotoEditedPayload(orderID, photoID, editedPath))

	pending, err := s.dbClient.CountPendingPhotos(orderID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}

	// All photos edited; revision rounds also land back in review.
	if order.Status != models.OrderStatusProcessing && order.Status != models.OrderStatusRevision {
		return nil
	}
	if err := s.transition(order, models.OrderStatusReview, "all photos edited"); err != nil {
		return err
	}
	_ = s.dbClient.CreateNotification(order.UserID, orderID, "order_in_review",
		"Your edited photos are ready for quality review.")
	return nil
}

// Approve completes an order in review and issues a tracking number.
func (s *LifecycleService) Approve(orderID uuid.UUID, actorID uuid.NullUUID) (*models.Order, error) {
	order, err := s.dbClient.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := s.transitionBy(order, models.OrderStatusCompleted, "approved", actorID); err != nil {
		return nil, err
	}

	tracking := fmt.Sprintf("PS-%s-%s", time.Now().Format("20060102"), orderID.String()[:8])
	_ = s.dbClient.SetTrackingNumber(orderID, tracking)
	_ = s.dbClient.CreateNotification(order.UserID, orderID, "order_completed",
		"Your order is complete. Your edited photos are ready to download.")

	return s.dbClient.GetOrderByID(orderID)
}

// RequestRevision sends an order in review back for another editing pass.
func (s *LifecycleService) RequestRevision(orderID uuid.UUID, note string, actorID uuid.NullUUID) error {
	order, err := s.dbClient.GetOrderByID(orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	if err := s.transitionBy(order, models.OrderStatusRevision, note, actorID); err != nil {
		return err
	}
	_ = s.dbClient.CreateNotification(order.UserID, orderID, "order_revision",
		"Your order needs another editing pass; we are on it.")
	return nil
}

func (s *LifecycleService) transition(order *models.Order, to, detail string) error {
	return s.transitionBy(order, to, detail, uuid.NullUUID{})
}

func (s *LifecycleService) transitionBy(order *models.Order, to, detail string, actorID uuid.NullUUID) error {
	if err := s.dbClient.TransitionOrder(order.ID, order.Status, to); err != nil {
		return err
	}
	_ = s.dbClient.AddOrderHistory(order.ID, "status_"+to, detail, actorID)
	s.realtimeClient.PublishOrderEvent(order.ID, "status_changed",
		supabase.StatusChangedPayload(order.ID, to))
	return nil
}

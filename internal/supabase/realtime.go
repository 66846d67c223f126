package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

// PublishEvent is a no-op hook: database writes trigger Supabase Realtime
// automatically, which is what the web client subscribes to. Kept so callers
// name the events they produce.
func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	return nil
}

func (r *RealtimeClient) PublishOrderEvent(orderID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("order:%s", orderID.String())
	return r.PublishEvent(channel, event, payload)
}

func (r *RealtimeClient) PublishUserEvent(userID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("user:%s", userID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func StatusChangedPayload(orderID uuid.UUID, status string) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderID.String(),
		"status":   status,
	}
}

func PaymentUpdatedPayload(orderID uuid.UUID, paymentStatus string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":       orderID.String(),
		"payment_status": paymentStatus,
	}
}

func PhotosUploadedPayload(orderID uuid.UUID, photoCount int) map[string]interface{} {
	return map[string]interface{}{
		"order_id":    orderID.String(),
		"photo_count": photoCount,
	}
}

func EditorAssignedPayload(orderID, editorID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"order_id":  orderID.String(),
		"editor_id": editorID.String(),
	}
}

func PhotoEditedPayload(orderID, photoID uuid.UUID, editedPath string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":    orderID.String(),
		"photo_id":    photoID.String(),
		"edited_path": editedPath,
	}
}

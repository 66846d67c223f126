package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"propshot-backend/internal/models"
)

// AssignmentStore is the slice of the database the assigner needs.
type AssignmentStore interface {
	ActiveEditors() ([]models.Editor, error)
	ListUnassignedOrders() ([]models.Order, error)
	AssignEditor(orderID, editorID uuid.UUID) error
	TouchEditorAssignment(editorID uuid.UUID, at time.Time) error
	AddOrderHistory(orderID uuid.UUID, action, detail string, actorID uuid.NullUUID) error
}

// Assigner distributes unassigned paid orders over active editors
// round-robin, starting from the least recently assigned editor. Plain list
// walking, not a scheduler.
type Assigner struct {
	store AssignmentStore
	now   func() time.Time
}

func NewAssigner(store AssignmentStore) *Assigner {
	return &Assigner{store: store, now: time.Now}
}

type Assignment struct {
	OrderID  uuid.UUID
	EditorID uuid.UUID
	Editor   string
}

// AutoAssign assigns every unassigned processing order to an editor and
// returns the assignments made. Per-order failures skip that order.
func (a *Assigner) AutoAssign(actorID uuid.NullUUID) ([]Assignment, error) {
	editors, err := a.store.ActiveEditors()
	if err != nil {
		return nil, fmt.Errorf("failed to load editors: %w", err)
	}
	if len(editors) == 0 {
		return nil, fmt.Errorf("no active editors available")
	}

	orders, err := a.store.ListUnassignedOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to load unassigned orders: %w", err)
	}

	var assignments []Assignment
	for i, order := range orders {
		editor := editors[i%len(editors)]
		if err := a.assign(order.ID, editor, actorID); err != nil {
			continue
		}
		assignments = append(assignments, Assignment{
			OrderID:  order.ID,
			EditorID: editor.ID,
			Editor:   editor.Name,
		})
	}

	return assignments, nil
}

// Assign assigns a single order to a specific editor.
func (a *Assigner) Assign(orderID uuid.UUID, editor models.Editor, actorID uuid.NullUUID) (Assignment, error) {
	if err := a.assign(orderID, editor, actorID); err != nil {
		return Assignment{}, err
	}
	return Assignment{OrderID: orderID, EditorID: editor.ID, Editor: editor.Name}, nil
}

func (a *Assigner) assign(orderID uuid.UUID, editor models.Editor, actorID uuid.NullUUID) error {
	if err := a.store.AssignEditor(orderID, editor.ID); err != nil {
		return fmt.Errorf("failed to assign editor: %w", err)
	}
	_ = a.store.TouchEditorAssignment(editor.ID, a.now())
	_ = a.store.AddOrderHistory(orderID, "editor_assigned", editor.Name, actorID)
	return nil
}

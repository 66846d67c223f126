package supabase

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"propshot-backend/internal/models"
)

// ActiveEditors returns active editors least-recently-assigned first, the
// order the round-robin assigner consumes them in.
func (d *DatabaseClient) ActiveEditors() ([]models.Editor, error) {
	rows, err := d.db.Query(`
		SELECT id, name, email, active, last_assigned_at, created_at
		FROM editors
		WHERE active = TRUE
		ORDER BY last_assigned_at ASC NULLS FIRST, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list editors: %w", err)
	}
	defer rows.Close()

	var editors []models.Editor
	for rows.Next() {
		var editor models.Editor
		err := rows.Scan(&editor.ID, &editor.Name, &editor.Email, &editor.Active,
			&editor.LastAssignedAt, &editor.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan editor: %w", err)
		}
		editors = append(editors, editor)
	}

	return editors, rows.Err()
}

func (d *DatabaseClient) GetEditor(editorID uuid.UUID) (*models.Editor, error) {
	var editor models.Editor
	err := d.db.QueryRow(`
		SELECT id, name, email, active, last_assigned_at, created_at
		FROM editors
		WHERE id = $1
	`, editorID).Scan(&editor.ID, &editor.Name, &editor.Email, &editor.Active,
		&editor.LastAssignedAt, &editor.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get editor: %w", err)
	}
	return &editor, nil
}

func (d *DatabaseClient) TouchEditorAssignment(editorID uuid.UUID, at time.Time) error {
	_, err := d.db.Exec(`
		UPDATE editors
		SET last_assigned_at = $1
		WHERE id = $2
	`, at, editorID)
	return err
}

func (d *DatabaseClient) GetDiscount(code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	err := d.db.QueryRow(`
		SELECT code, percent_off, amount_off, max_uses, uses, active, expires_at, created_at
		FROM discount_codes
		WHERE code = $1
	`, code).Scan(&discount.Code, &discount.PercentOff, &discount.AmountOff,
		&discount.MaxUses, &discount.Uses, &discount.Active,
		&discount.ExpiresAt, &discount.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}
	return &discount, nil
}

func (d *DatabaseClient) ListDiscounts() ([]models.DiscountCode, error) {
	rows, err := d.db.Query(`
		SELECT code, percent_off, amount_off, max_uses, uses, active, expires_at, created_at
		FROM discount_codes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	defer rows.Close()

	var discounts []models.DiscountCode
	for rows.Next() {
		var discount models.DiscountCode
		err := rows.Scan(&discount.Code, &discount.PercentOff, &discount.AmountOff,
			&discount.MaxUses, &discount.Uses, &discount.Active,
			&discount.ExpiresAt, &discount.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discounts = append(discounts, discount)
	}

	return discounts, rows.Err()
}

func (d *DatabaseClient) CreateDiscount(discount *models.DiscountCode) error {
	_, err := d.db.Exec(`
		INSERT INTO discount_codes (code, percent_off, amount_off, max_uses, active, expires_at)
		VALUES ($1, $2, $3, $4, TRUE, $5)
	`, discount.Code, discount.PercentOff, discount.AmountOff, discount.MaxUses, discount.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create discount: %w", err)
	}
	return nil
}

func (d *DatabaseClient) DeactivateDiscount(code string) error {
	_, err := d.db.Exec(`
		UPDATE discount_codes SET active = FALSE WHERE code = $1
	`, code)
	return err
}

func (d *DatabaseClient) IncrementDiscountUse(code string) error {
	_, err := d.db.Exec(`
		UPDATE discount_codes SET uses = uses + 1 WHERE code = $1
	`, code)
	return err
}

// IsAdmin reports whether the user's profile carries the admin role.
func (d *DatabaseClient) IsAdmin(userID uuid.UUID) (bool, error) {
	var role string
	err := d.db.QueryRow(`
		SELECT role FROM profiles WHERE user_id = $1
	`, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get profile: %w", err)
	}
	return role == "admin", nil
}

func (d *DatabaseClient) AddOrderHistory(orderID uuid.UUID, action, detail string, actorID uuid.NullUUID) error {
	_, err := d.db.Exec(`
		INSERT INTO order_history (id, order_id, action, detail, actor_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), orderID, action, detail, actorID)
	if err != nil {
		return fmt.Errorf("failed to add order history: %w", err)
	}
	return nil
}

func (d *DatabaseClient) CreateNotification(userID uuid.UUID, orderID uuid.UUID, kind, message string) error {
	_, err := d.db.Exec(`
		INSERT INTO notifications (id, user_id, order_id, kind, message)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), userID, orderID, kind, message)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Report queries for the admin summary.

func (d *DatabaseClient) OrdersByStatus() (map[string]int, error) {
	rows, err := d.db.Query(`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// RevenueTotals returns collected revenue (succeeded payments) and revenue
// still pending collection.
func (d *DatabaseClient) RevenueTotals() (collected, pending float64, err error) {
	err = d.db.QueryRow(`
		SELECT
			COALESCE(SUM(total_price) FILTER (WHERE payment_status = 'succeeded'), 0),
			COALESCE(SUM(total_price) FILTER (WHERE payment_status IN ('pending', 'processing')), 0)
		FROM orders
	`).Scan(&collected, &pending)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to total revenue: %w", err)
	}
	return collected, pending, nil
}

func (d *DatabaseClient) CountPhotos() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}

func (d *DatabaseClient) CountActiveEditors() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM editors WHERE active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count editors: %w", err)
	}
	return count, nil
}

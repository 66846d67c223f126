package supabase

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"propshot-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

const orderColumns = `id, user_id, photo_count, virtual_staging, twilight_conversion, decluttering,
	total_price, status, payment_status, notes, tracking_number, assigned_editor_id,
	estimated_completion, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID, &order.UserID, &order.PhotoCount,
		&order.VirtualStaging, &order.TwilightConversion, &order.Decluttering,
		&order.TotalPrice, &order.Status, &order.PaymentStatus,
		&order.Notes, &order.TrackingNumber, &order.AssignedEditorID,
		&order.EstimatedCompletion, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DatabaseClient) CreateOrder(order *models.Order) error {
	_, err := d.db.Exec(`
		INSERT INTO orders (id, user_id, photo_count, virtual_staging, twilight_conversion,
			decluttering, total_price, status, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, order.ID, order.UserID, order.PhotoCount,
		order.VirtualStaging, order.TwilightConversion, order.Decluttering,
		order.TotalPrice, order.Status, order.PaymentStatus, order.Notes)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(d.db.QueryRow(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetOrderByID fetches an order without a user check; webhook paths only.
func (d *DatabaseClient) GetOrderByID(orderID uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(d.db.QueryRow(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) ListOrders(userID uuid.UUID) ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListAllOrders returns every order, optionally filtered by status. Admin
// paths only.
func (d *DatabaseClient) ListAllOrders(status string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListUnassignedOrders returns paid, unassigned orders oldest first, the
// queue auto-assignment walks.
func (d *DatabaseClient) ListUnassignedOrders() ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT ` + orderColumns + `
		FROM orders
		WHERE assigned_editor_id IS NULL
		  AND status = 'processing'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// TransitionOrder moves an order from one status to another. The WHERE
// clause on the current status makes illegal or raced transitions fail
// instead of silently overwriting.
func (d *DatabaseClient) TransitionOrder(orderID uuid.UUID, from, to string) error {
	if !models.CanTransition(from, to) {
		return fmt.Errorf("invalid order transition %s -> %s", from, to)
	}

	res, err := d.db.Exec(`
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, orderID, from)
	if err != nil {
		return fmt.Errorf("failed to transition order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to transition order: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("order %s is no longer in status %s", orderID, from)
	}
	return nil
}

func (d *DatabaseClient) UpdatePaymentStatus(orderID uuid.UUID, paymentStatus string) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2
	`, paymentStatus, orderID)
	return err
}

func (d *DatabaseClient) SetTrackingNumber(orderID uuid.UUID, trackingNumber string) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET tracking_number = $1, updated_at = NOW()
		WHERE id = $2
	`, trackingNumber, orderID)
	return err
}

func (d *DatabaseClient) SetEstimatedCompletion(orderID uuid.UUID, estimate sql.NullTime) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET estimated_completion = $1, updated_at = NOW()
		WHERE id = $2
	`, estimate, orderID)
	return err
}

func (d *DatabaseClient) AssignEditor(orderID, editorID uuid.UUID) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET assigned_editor_id = $1, updated_at = NOW()
		WHERE id = $2
	`, editorID, orderID)
	return err
}

func (d *DatabaseClient) CreatePhoto(photo *models.Photo) error {
	_, err := d.db.Exec(`
		INSERT INTO photos (id, order_id, storage_path, status, original_filename)
		VALUES ($1, $2, $3, $4, $5)
	`, photo.ID, photo.OrderID, photo.StoragePath, photo.Status, photo.OriginalFilename)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetPhotos(orderID uuid.UUID) ([]models.Photo, error) {
	rows, err := d.db.Query(`
		SELECT id, order_id, storage_path, edited_path, status, original_filename, created_at
		FROM photos
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.OrderID, &photo.StoragePath, &photo.EditedPath,
			&photo.Status, &photo.OriginalFilename, &photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

func (d *DatabaseClient) UpdatePhotoEdited(photoID uuid.UUID, editedPath, status string) error {
	_, err := d.db.Exec(`
		UPDATE photos
		SET edited_path = $1, status = $2
		WHERE id = $3
	`, editedPath, status, photoID)
	return err
}

// SyncPhotoCount keeps the order's photo_count equal to its photo rows.
func (d *DatabaseClient) SyncPhotoCount(orderID uuid.UUID) (int, error) {
	var count int
	err := d.db.QueryRow(`
		UPDATE orders
		SET photo_count = (SELECT COUNT(*) FROM photos WHERE order_id = $1),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING photo_count
	`, orderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to sync photo count: %w", err)
	}
	return count, nil
}

// CountPendingPhotos returns the number of photos not yet edited.
func (d *DatabaseClient) CountPendingPhotos(orderID uuid.UUID) (int, error) {
	var count int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM photos
		WHERE order_id = $1 AND status != 'completed'
	`, orderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending photos: %w", err)
	}
	return count, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const orderColumns = `
	id, order_number, customer_id, vendor_id, item_id, quantity, total_cents,
	event_date, note, status, created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, order *Order) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO orders (order_number, customer_id, vendor_id, item_id, quantity, total_cents, event_date, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, created_at, updated_at
	`

	return r.db.QueryRow(
		ctx, q,
		order.OrderNumber,
		order.CustomerID,
		order.VendorID,
		order.ItemID,
		order.Quantity,
		order.TotalCents,
		order.EventDate,
		order.Note,
	).Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, filter Filter) ([]Order, int, error) {
	return r.list(ctx, `vendor_id = $1`, []any{vendorID}, filter)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter Filter) ([]Order, int, error) {
	return r.list(ctx, `customer_id = $1`, []any{customerID}, filter)
}

func (r *Repository) ListAll(ctx context.Context, filter Filter) ([]Order, int, error) {
	return r.list(ctx, `TRUE`, nil, filter)
}

func (r *Repository) list(ctx context.Context, where string, args []any, filter Filter) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + orderColumns + `, COUNT(*) OVER() AS total FROM orders WHERE ` + where
	if filter.Status != nil {
		args = append(args, *filter.Status)
		q += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	q += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []Order
		total int
	)
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.VendorID, &o.ItemID, &o.Quantity,
			&o.TotalCents, &o.EventDate, &o.Note, &o.Status, &o.CreatedAt, &o.UpdatedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}

	return out, total, rows.Err()
}

// UpdateStatus is scoped by vendor so a vendor can only touch its own orders.
func (r *Repository) UpdateStatus(ctx context.Context, orderID, vendorID uuid.UUID, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND vendor_id = $2
		RETURNING ` + orderColumns + `
	`

	return scanOrder(r.db.QueryRow(ctx, q, orderID, vendorID, status))
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.VendorID, &o.ItemID, &o.Quantity,
		&o.TotalCents, &o.EventDate, &o.Note, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

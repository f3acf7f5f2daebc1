package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const itemColumns = `
	id, vendor_id, name, description, price_cents, quantity, tags, is_active, created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, item *Item) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO inventory_items (vendor_id, name, description, price_cents, quantity, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at
	`

	return r.db.QueryRow(
		ctx, q,
		item.VendorID,
		item.Name,
		item.Description,
		item.PriceCents,
		item.Quantity,
		item.Tags,
	).Scan(&item.ID, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
}

// BulkCreate inserts the parsed rows of an import one by one and reports how
// many landed. A failed row aborts; the earlier inserts stand, so imports
// should be retried only with the remaining rows.
func (r *Repository) BulkCreate(ctx context.Context, items []*Item) (int, error) {
	for i, item := range items {
		if err := r.Create(ctx, item); err != nil {
			return i, fmt.Errorf("row %d (%s): %w", i+1, item.Name, err)
		}
	}
	return len(items), nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
}

func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]Item, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + itemColumns + `, COUNT(*) OVER() AS total FROM inventory_items WHERE vendor_id = $1 ORDER BY created_at DESC`
	args := []any{vendorID}
	if limit > 0 {
		q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []Item
		total int
	)
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.VendorID, &it.Name, &it.Description, &it.PriceCents,
			&it.Quantity, &it.Tags, &it.IsActive, &it.CreatedAt, &it.UpdatedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}

	return out, total, rows.Err()
}

// Update patches the allowed columns only; unknown keys are rejected so the
// handler cannot be tricked into touching vendor_id or timestamps.
func (r *Repository) Update(ctx context.Context, vendorID, itemID uuid.UUID, fields map[string]any) (*Item, error) {
	allowed := map[string]bool{
		"name": true, "description": true, "price_cents": true,
		"quantity": true, "tags": true, "is_active": true,
	}

	sets := make([]string, 0, len(fields))
	args := []any{itemID, vendorID}
	for col, val := range fields {
		if !allowed[col] {
			return nil, fmt.Errorf("column %q cannot be updated", col)
		}
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, itemID)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `UPDATE inventory_items SET ` + strings.Join(sets, ", ") +
		`, updated_at = NOW() WHERE id = $1 AND vendor_id = $2 RETURNING ` + itemColumns

	return scanItem(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) Delete(ctx context.Context, vendorID, itemID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1 AND vendor_id = $2`, itemID, vendorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.VendorID, &it.Name, &it.Description, &it.PriceCents,
		&it.Quantity, &it.Tags, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

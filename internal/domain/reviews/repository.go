package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO reviews (vendor_id, customer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, q, review.VendorID, review.CustomerID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
}

func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]Review, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		SELECT id, vendor_id, customer_id, rating, comment, created_at, COUNT(*) OVER() AS total
		FROM reviews
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`
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
		out   []Review
		total int
	)
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.VendorID, &rev.CustomerID, &rev.Rating, &rev.Comment, &rev.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, rev)
	}

	return out, total, rows.Err()
}

func (r *Repository) GetStats(ctx context.Context, vendorID uuid.UUID) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE vendor_id = $1
	`

	var stats Stats
	if err := r.db.QueryRow(ctx, q, vendorID).Scan(&stats.Count, &stats.Average); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) Delete(ctx context.Context, vendorID, reviewID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND vendor_id = $2`, reviewID, vendorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package vendors

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

// businessNameTaken checks uniqueness case-insensitively before insert so the
// caller gets a clean conflict error instead of a constraint violation.
func (r *Repository) businessNameTaken(ctx context.Context, name string) (bool, error) {
	const q = `SELECT id FROM vendors WHERE LOWER(business_name) = LOWER($1)`

	var existingID uuid.UUID
	err := r.db.QueryRow(ctx, q, name).Scan(&existingID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, err
}

func (r *Repository) Create(ctx context.Context, vendor *Vendor) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	taken, err := r.businessNameTaken(ctx, vendor.BusinessName)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateBusinessName
	}

	const q = `
		INSERT INTO vendors (user_id, business_name)
		VALUES ($1, $2)
		RETURNING id, card_seq, verification_status, registration_step, created_at, updated_at
	`

	return r.db.QueryRow(ctx, q, vendor.UserID, vendor.BusinessName).Scan(
		&vendor.ID,
		&vendor.CardSeq,
		&vendor.VerificationStatus,
		&vendor.RegistrationStep,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)
}

const vendorColumns = `
	id, user_id, business_name, card_seq, verification_status, registration_step,
	onboarding_completed_at, reviewed_by, reviewed_at, review_note, created_at, updated_at
`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanVendor(r.db.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
}

func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanVendor(r.db.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE user_id = $1`, userID))
}

func (r *Repository) GetByCardSeq(ctx context.Context, seq int64) (*Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanVendor(r.db.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE card_seq = $1`, seq))
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]Vendor, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + vendorColumns + `, COUNT(*) OVER() AS total FROM vendors`
	args := []any{}
	if filter.Status != nil {
		q += ` WHERE verification_status = $1`
		args = append(args, *filter.Status)
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
		out   []Vendor
		total int
	)
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.BusinessName, &v.CardSeq, &v.VerificationStatus,
			&v.RegistrationStep, &v.OnboardingCompletedAt, &v.ReviewedBy, &v.ReviewedAt,
			&v.ReviewNote, &v.CreatedAt, &v.UpdatedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}

	return out, total, rows.Err()
}

// AdvanceRegistrationStep moves the step forward only; a stale or repeated
// submission can never lower it.
func (r *Repository) AdvanceRegistrationStep(ctx context.Context, vendorID uuid.UUID, step int) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE vendors
		SET registration_step = GREATEST(registration_step, $2), updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, q, vendorID, step)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FinalizeOnboarding is phase two of the completion transition: step 6 plus a
// one-time completion stamp. Safe to retry.
func (r *Repository) FinalizeOnboarding(ctx context.Context, vendorID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE vendors
		SET registration_step = GREATEST(registration_step, 6),
		    onboarding_completed_at = COALESCE(onboarding_completed_at, NOW()),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, q, vendorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVerificationStatus applies an admin review decision. Re-applying the
// current status is a no-op success; transitions outside the state machine
// return ErrInvalidTransition.
func (r *Repository) SetVerificationStatus(ctx context.Context, vendorID uuid.UUID, status VerificationStatus, reviewedBy uuid.UUID, note *string) (*Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	vendor, err := r.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	if vendor.VerificationStatus == status {
		return vendor, nil
	}
	if !vendor.VerificationStatus.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	const q = `
		UPDATE vendors
		SET verification_status = $2, reviewed_by = $3, reviewed_at = NOW(), review_note = $4, updated_at = NOW()
		WHERE id = $1 AND verification_status = $5
		RETURNING ` + vendorColumns + `
	`

	updated, err := r.scanVendor(r.db.QueryRow(ctx, q, vendorID, status, reviewedBy, note, vendor.VerificationStatus))
	if errors.Is(err, ErrNotFound) {
		// Lost a race with another reviewer; reread and report what won.
		return r.GetByID(ctx, vendorID)
	}
	return updated, err
}

func (r *Repository) scanVendor(row pgx.Row) (*Vendor, error) {
	var v Vendor
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.BusinessName,
		&v.CardSeq,
		&v.VerificationStatus,
		&v.RegistrationStep,
		&v.OnboardingCompletedAt,
		&v.ReviewedBy,
		&v.ReviewedAt,
		&v.ReviewNote,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

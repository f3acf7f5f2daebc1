package onboarding

import (
	"context"
	"encoding/json"
	"errors"

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

func (r *Repository) Upsert(ctx context.Context, vendorID uuid.UUID, stage int, payload map[string]any) (*Progress, error) {
	if stage < StageRegistered || stage > StageCompleted {
		return nil, ErrInvalidStage
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	// GREATEST keeps the clamp correct even when two submissions race at the
	// database; the payload column is still last writer wins.
	const q = `
		INSERT INTO onboarding_progress (vendor_id, current_stage, payload, last_updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (vendor_id) DO UPDATE
		SET current_stage   = GREATEST(onboarding_progress.current_stage, EXCLUDED.current_stage),
		    payload         = EXCLUDED.payload,
		    last_updated_at = NOW()
		RETURNING vendor_id, current_stage, payload, completed_at, last_updated_at
	`

	return r.scanProgress(r.db.QueryRow(ctx, q, vendorID, stage, mustJSON(payload)))
}

func (r *Repository) Complete(ctx context.Context, vendorID uuid.UUID, payload map[string]any) (*Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	// completed_at is set once and never cleared on retries.
	const q = `
		INSERT INTO onboarding_progress (vendor_id, current_stage, payload, completed_at, last_updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (vendor_id) DO UPDATE
		SET current_stage   = GREATEST(onboarding_progress.current_stage, EXCLUDED.current_stage),
		    payload         = EXCLUDED.payload,
		    completed_at    = COALESCE(onboarding_progress.completed_at, NOW()),
		    last_updated_at = NOW()
		RETURNING vendor_id, current_stage, payload, completed_at, last_updated_at
	`

	return r.scanProgress(r.db.QueryRow(ctx, q, vendorID, StageCompleted, mustJSON(payload)))
}

func (r *Repository) GetByVendorID(ctx context.Context, vendorID uuid.UUID) (*Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT vendor_id, current_stage, payload, completed_at, last_updated_at
		FROM onboarding_progress
		WHERE vendor_id = $1
	`

	return r.scanProgress(r.db.QueryRow(ctx, q, vendorID))
}

func (r *Repository) scanProgress(row pgx.Row) (*Progress, error) {
	var (
		p   Progress
		raw []byte
	)
	err := row.Scan(&p.VendorID, &p.CurrentStage, &raw, &p.CompletedAt, &p.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.Payload); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func mustJSON(payload map[string]any) []byte {
	if payload == nil {
		payload = map[string]any{}
	}
	b, _ := json.Marshal(payload)
	return b
}

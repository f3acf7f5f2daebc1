package onboarding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound means the vendor never wrote any progress. Callers must not
// conflate this with a vendor sitting at stage 1.
var (
	ErrNotFound          = errors.New("onboarding progress not found")
	ErrInvalidStage      = errors.New("invalid onboarding stage")
	QueryTimeoutDuration = time.Second * 5
)

// Onboarding stages. A vendor is created at StageRegistered and finishes at
// StageCompleted; the stored stage never moves backward.
const (
	StageRegistered       = 1
	StageBusinessDetails  = 2
	StageLocationServices = 3
	StageDocuments        = 4
	StageCompleted        = 5
)

// Progress is the single per-vendor onboarding row. Payload is the raw
// stage submission; it is replaced on every write, last writer wins.
type Progress struct {
	VendorID      uuid.UUID      `json:"vendor_id"`
	CurrentStage  int            `json:"current_stage"`
	Payload       map[string]any `json:"payload,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	LastUpdatedAt time.Time      `json:"last_updated_at"`
}

type Store interface {
	// Upsert writes the stage and payload keyed by vendor. The stored stage is
	// clamped to the maximum of the existing and submitted values.
	Upsert(ctx context.Context, vendorID uuid.UUID, stage int, payload map[string]any) (*Progress, error)
	// Complete upserts stage 5 and stamps completed_at exactly once.
	Complete(ctx context.Context, vendorID uuid.UUID, payload map[string]any) (*Progress, error)
	GetByVendorID(ctx context.Context, vendorID uuid.UUID) (*Progress, error)
}

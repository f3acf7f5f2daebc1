package vendors

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("vendor not found")
	ErrDuplicateBusinessName = errors.New("a vendor with that business name already exists")
	ErrInvalidTransition     = errors.New("verification status transition not allowed")
	QueryTimeoutDuration     = time.Second * 5
)

type VerificationStatus string

const (
	StatusPending   VerificationStatus = "pending"
	StatusVerified  VerificationStatus = "verified"
	StatusRejected  VerificationStatus = "rejected"
	StatusSuspended VerificationStatus = "suspended"
)

// CanTransitionTo encodes the admin review state machine. Re-applying the
// current status is allowed so retries stay idempotent; a suspended vendor
// never goes back to verified through review.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusVerified || next == StatusRejected
	case StatusVerified:
		return next == StatusSuspended
	case StatusRejected:
		return false
	case StatusSuspended:
		return false
	}
	return false
}

type Vendor struct {
	ID                    uuid.UUID          `json:"id"`
	UserID                uuid.UUID          `json:"user_id"`
	BusinessName          string             `json:"business_name"`
	CardSeq               int64              `json:"-"`
	CardCode              string             `json:"card_code,omitempty"`
	VerificationStatus    VerificationStatus `json:"verification_status"`
	RegistrationStep      int                `json:"registration_step"`
	OnboardingCompletedAt *time.Time         `json:"onboarding_completed_at,omitempty"`
	ReviewedBy            *uuid.UUID         `json:"reviewed_by,omitempty"`
	ReviewedAt            *time.Time         `json:"reviewed_at,omitempty"`
	ReviewNote            *string            `json:"review_note,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

type Filter struct {
	Status *VerificationStatus
	Limit  int
	Offset int
}

type Store interface {
	Create(ctx context.Context, vendor *Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Vendor, error)
	GetByCardSeq(ctx context.Context, seq int64) (*Vendor, error)
	List(ctx context.Context, filter Filter) ([]Vendor, int, error)
	AdvanceRegistrationStep(ctx context.Context, vendorID uuid.UUID, step int) error
	FinalizeOnboarding(ctx context.Context, vendorID uuid.UUID) error
	SetVerificationStatus(ctx context.Context, vendorID uuid.UUID, status VerificationStatus, reviewedBy uuid.UUID, note *string) (*Vendor, error)
}

package onboarding

import (
	"context"
	"fmt"

	"eventra/internal/domain/vendors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service drives the onboarding progression across the progress row and the
// vendor record. The two tables are written without a shared transaction, so
// the service owns the reconciliation of half-finished completions.
type Service struct {
	progress Store
	vendors  vendors.Store
	logger   *zap.SugaredLogger
}

func NewService(progress Store, vendorStore vendors.Store, logger *zap.SugaredLogger) *Service {
	return &Service{progress: progress, vendors: vendorStore, logger: logger}
}

// SubmitStage records a stage submission. Stages 2-4 come through here;
// completion has its own transition. Resubmitting a passed stage re-writes
// the payload but never lowers the stored stage.
func (s *Service) SubmitStage(ctx context.Context, vendorID uuid.UUID, stage int, payload map[string]any) (*Progress, error) {
	if stage <= StageRegistered || stage >= StageCompleted {
		return nil, ErrInvalidStage
	}

	p, err := s.progress.Upsert(ctx, vendorID, stage, payload)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	// Keep the coarse counter on the vendor row in step with the progress row.
	if err := s.vendors.AdvanceRegistrationStep(ctx, vendorID, p.CurrentStage); err != nil {
		return nil, fmt.Errorf("advance registration step: %w", err)
	}

	return p, nil
}

// Complete runs the two-phase completion: stage 5 with a completion stamp on
// the progress row, then step 6 on the vendor row. When phase two fails the
// progress row stays completed and a later Progress read repairs the vendor.
func (s *Service) Complete(ctx context.Context, vendorID uuid.UUID, payload map[string]any) (*Progress, error) {
	p, err := s.progress.Complete(ctx, vendorID, payload)
	if err != nil {
		return nil, fmt.Errorf("complete progress: %w", err)
	}

	if err := s.vendors.FinalizeOnboarding(ctx, vendorID); err != nil {
		s.logger.Errorw("onboarding completed but vendor not finalized",
			"vendor_id", vendorID, "error", err)
		return nil, fmt.Errorf("finalize vendor: %w", err)
	}

	return p, nil
}

// Progress reads the vendor's progress row. A vendor that never started gets
// ErrNotFound. A completed progress row with an unfinalized vendor is the
// known partial-completion inconsistency; it is repaired here by retrying
// phase two alone.
func (s *Service) Progress(ctx context.Context, vendorID uuid.UUID) (*Progress, error) {
	p, err := s.progress.GetByVendorID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	if p.CompletedAt != nil {
		if err := s.reconcile(ctx, vendorID); err != nil {
			s.logger.Warnw("onboarding reconciliation failed", "vendor_id", vendorID, "error", err)
		}
	}

	return p, nil
}

func (s *Service) reconcile(ctx context.Context, vendorID uuid.UUID) error {
	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return err
	}
	if vendor.RegistrationStep >= StageCompleted+1 {
		return nil
	}

	s.logger.Infow("repairing unfinalized vendor after completed onboarding", "vendor_id", vendorID)
	return s.vendors.FinalizeOnboarding(ctx, vendorID)
}

package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventra/internal/domain/vendors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProgressStore mirrors the repository's clamp and stamp semantics in
// memory so the service can be exercised without a database.
type fakeProgressStore struct {
	rows map[uuid.UUID]*Progress
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: map[uuid.UUID]*Progress{}}
}

func (f *fakeProgressStore) Upsert(_ context.Context, vendorID uuid.UUID, stage int, payload map[string]any) (*Progress, error) {
	p, ok := f.rows[vendorID]
	if !ok {
		p = &Progress{VendorID: vendorID, CurrentStage: StageRegistered}
		f.rows[vendorID] = p
	}
	if stage > p.CurrentStage {
		p.CurrentStage = stage
	}
	p.Payload = payload
	p.LastUpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *fakeProgressStore) Complete(ctx context.Context, vendorID uuid.UUID, payload map[string]any) (*Progress, error) {
	p, err := f.Upsert(ctx, vendorID, StageCompleted, payload)
	if err != nil {
		return nil, err
	}
	row := f.rows[vendorID]
	if row.CompletedAt == nil {
		now := time.Now()
		row.CompletedAt = &now
	}
	p.CompletedAt = row.CompletedAt
	return p, nil
}

func (f *fakeProgressStore) GetByVendorID(_ context.Context, vendorID uuid.UUID) (*Progress, error) {
	p, ok := f.rows[vendorID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// fakeVendorStore carries just enough of the vendor row for the service:
// the monotonic registration step and the finalize stamp.
type fakeVendorStore struct {
	vendors.Store

	steps        map[uuid.UUID]int
	finalized    map[uuid.UUID]bool
	finalizeErr  error
	finalizeHits int
}

func newFakeVendorStore() *fakeVendorStore {
	return &fakeVendorStore{steps: map[uuid.UUID]int{}, finalized: map[uuid.UUID]bool{}}
}

func (f *fakeVendorStore) GetByID(_ context.Context, id uuid.UUID) (*vendors.Vendor, error) {
	step := f.steps[id]
	if step == 0 {
		step = StageRegistered
	}
	return &vendors.Vendor{ID: id, RegistrationStep: step}, nil
}

func (f *fakeVendorStore) AdvanceRegistrationStep(_ context.Context, vendorID uuid.UUID, step int) error {
	if step > f.steps[vendorID] {
		f.steps[vendorID] = step
	}
	return nil
}

func (f *fakeVendorStore) FinalizeOnboarding(_ context.Context, vendorID uuid.UUID) error {
	f.finalizeHits++
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	if f.steps[vendorID] < StageCompleted+1 {
		f.steps[vendorID] = StageCompleted + 1
	}
	f.finalized[vendorID] = true
	return nil
}

func newTestService() (*Service, *fakeProgressStore, *fakeVendorStore) {
	progress := newFakeProgressStore()
	vendorStore := newFakeVendorStore()
	return NewService(progress, vendorStore, zap.NewNop().Sugar()), progress, vendorStore
}

func TestSubmitStageAdvances(t *testing.T) {
	svc, _, vendorStore := newTestService()
	vendorID := uuid.New()

	p, err := svc.SubmitStage(context.Background(), vendorID, StageBusinessDetails, map[string]any{"category": "catering"})
	require.NoError(t, err)
	assert.Equal(t, StageBusinessDetails, p.CurrentStage)
	assert.Equal(t, StageBusinessDetails, vendorStore.steps[vendorID])

	p, err = svc.SubmitStage(context.Background(), vendorID, StageLocationServices, nil)
	require.NoError(t, err)
	assert.Equal(t, StageLocationServices, p.CurrentStage)
}

func TestSubmitStageNeverRegresses(t *testing.T) {
	svc, _, _ := newTestService()
	vendorID := uuid.New()

	_, err := svc.SubmitStage(context.Background(), vendorID, StageDocuments, map[string]any{"document_urls": []string{"a"}})
	require.NoError(t, err)

	// Resubmitting an earlier stage keeps the higher stored stage but
	// replaces the payload.
	p, err := svc.SubmitStage(context.Background(), vendorID, StageBusinessDetails, map[string]any{"category": "music"})
	require.NoError(t, err)
	assert.Equal(t, StageDocuments, p.CurrentStage)
	assert.Equal(t, "music", p.Payload["category"])
}

func TestSubmitStageRejectsOutOfRange(t *testing.T) {
	svc, _, _ := newTestService()
	vendorID := uuid.New()

	for _, stage := range []int{0, StageRegistered, StageCompleted, 6} {
		_, err := svc.SubmitStage(context.Background(), vendorID, stage, nil)
		assert.ErrorIs(t, err, ErrInvalidStage)
	}
}

func TestCompleteRunsBothPhases(t *testing.T) {
	svc, _, vendorStore := newTestService()
	vendorID := uuid.New()

	p, err := svc.Complete(context.Background(), vendorID, map[string]any{"goals": "more bookings"})
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, p.CurrentStage)
	require.NotNil(t, p.CompletedAt)
	assert.True(t, vendorStore.finalized[vendorID])
	assert.Equal(t, StageCompleted+1, vendorStore.steps[vendorID])
}

func TestCompleteStampIsSetOnce(t *testing.T) {
	svc, progress, _ := newTestService()
	vendorID := uuid.New()

	first, err := svc.Complete(context.Background(), vendorID, nil)
	require.NoError(t, err)

	second, err := svc.Complete(context.Background(), vendorID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.CompletedAt, second.CompletedAt)
	assert.Equal(t, first.CompletedAt, progress.rows[vendorID].CompletedAt)
}

func TestProgressRepairsHalfFinishedCompletion(t *testing.T) {
	svc, _, vendorStore := newTestService()
	vendorID := uuid.New()

	vendorStore.finalizeErr = errors.New("vendor table unavailable")
	_, err := svc.Complete(context.Background(), vendorID, nil)
	require.Error(t, err)
	assert.False(t, vendorStore.finalized[vendorID])

	// The progress row is completed; the next read notices the vendor row
	// lagging behind and retries phase two alone.
	vendorStore.finalizeErr = nil
	p, err := svc.Progress(context.Background(), vendorID)
	require.NoError(t, err)
	require.NotNil(t, p.CompletedAt)
	assert.True(t, vendorStore.finalized[vendorID])
	assert.Equal(t, StageCompleted+1, vendorStore.steps[vendorID])
}

func TestProgressSkipsRepairWhenFinalized(t *testing.T) {
	svc, _, vendorStore := newTestService()
	vendorID := uuid.New()

	_, err := svc.Complete(context.Background(), vendorID, nil)
	require.NoError(t, err)
	hits := vendorStore.finalizeHits

	_, err = svc.Progress(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, hits, vendorStore.finalizeHits)
}

func TestProgressNotFoundIsDistinct(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Progress(context.Background(), uuid.New())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFullOnboardingRun(t *testing.T) {
	svc, _, vendorStore := newTestService()
	vendorID := uuid.New()

	stages := []int{StageBusinessDetails, StageLocationServices, StageDocuments}
	for _, stage := range stages {
		_, err := svc.SubmitStage(context.Background(), vendorID, stage, map[string]any{"stage": stage})
		require.NoError(t, err)
	}

	p, err := svc.Complete(context.Background(), vendorID, map[string]any{"preferences": map[string]any{"contact": "email"}})
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, p.CurrentStage)
	assert.NotNil(t, p.CompletedAt)
	assert.Equal(t, StageCompleted+1, vendorStore.steps[vendorID])

	got, err := svc.Progress(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, got.CurrentStage)
}

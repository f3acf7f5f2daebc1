package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventra/internal/auth"
	"eventra/internal/domain/onboarding"
	"eventra/internal/domain/users"
	"eventra/internal/domain/vendors"
	"eventra/internal/ratelimiter"
	"eventra/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	byID    map[uuid.UUID]*users.User
	byEmail map[string]*users.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[uuid.UUID]*users.User{}, byEmail: map[string]*users.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *users.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return users.ErrDuplicateEmail
	}
	user.ID = uuid.New()
	user.IsActive = true
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) MarkVerified(_ context.Context, id uuid.UUID, channel string) error {
	u, ok := f.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	now := time.Now()
	if channel == "phone" {
		u.PhoneVerifiedAt = &now
	} else {
		u.EmailVerifiedAt = &now
	}
	return nil
}

type fakeVendorStore struct {
	byID    map[uuid.UUID]*vendors.Vendor
	nextSeq int64
}

func newFakeVendorStore() *fakeVendorStore {
	return &fakeVendorStore{byID: map[uuid.UUID]*vendors.Vendor{}}
}

func (f *fakeVendorStore) Create(_ context.Context, v *vendors.Vendor) error {
	for _, existing := range f.byID {
		if existing.BusinessName == v.BusinessName {
			return vendors.ErrDuplicateBusinessName
		}
	}
	v.ID = uuid.New()
	f.nextSeq++
	v.CardSeq = f.nextSeq
	v.VerificationStatus = vendors.StatusPending
	v.RegistrationStep = 1
	f.byID[v.ID] = v
	return nil
}

func (f *fakeVendorStore) GetByID(_ context.Context, id uuid.UUID) (*vendors.Vendor, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, vendors.ErrNotFound
	}
	return v, nil
}

func (f *fakeVendorStore) GetByUserID(_ context.Context, userID uuid.UUID) (*vendors.Vendor, error) {
	for _, v := range f.byID {
		if v.UserID == userID {
			return v, nil
		}
	}
	return nil, vendors.ErrNotFound
}

func (f *fakeVendorStore) GetByCardSeq(_ context.Context, seq int64) (*vendors.Vendor, error) {
	for _, v := range f.byID {
		if v.CardSeq == seq {
			return v, nil
		}
	}
	return nil, vendors.ErrNotFound
}

func (f *fakeVendorStore) List(_ context.Context, filter vendors.Filter) ([]vendors.Vendor, int, error) {
	var out []vendors.Vendor
	for _, v := range f.byID {
		if filter.Status != nil && v.VerificationStatus != *filter.Status {
			continue
		}
		out = append(out, *v)
	}
	return out, len(out), nil
}

func (f *fakeVendorStore) AdvanceRegistrationStep(_ context.Context, vendorID uuid.UUID, step int) error {
	v, ok := f.byID[vendorID]
	if !ok {
		return vendors.ErrNotFound
	}
	if step > v.RegistrationStep {
		v.RegistrationStep = step
	}
	return nil
}

func (f *fakeVendorStore) FinalizeOnboarding(_ context.Context, vendorID uuid.UUID) error {
	v, ok := f.byID[vendorID]
	if !ok {
		return vendors.ErrNotFound
	}
	if v.RegistrationStep < 6 {
		v.RegistrationStep = 6
	}
	if v.OnboardingCompletedAt == nil {
		now := time.Now()
		v.OnboardingCompletedAt = &now
	}
	return nil
}

func (f *fakeVendorStore) SetVerificationStatus(_ context.Context, vendorID uuid.UUID, status vendors.VerificationStatus, reviewedBy uuid.UUID, note *string) (*vendors.Vendor, error) {
	v, ok := f.byID[vendorID]
	if !ok {
		return nil, vendors.ErrNotFound
	}
	if v.VerificationStatus == status {
		return v, nil
	}
	if !v.VerificationStatus.CanTransitionTo(status) {
		return nil, vendors.ErrInvalidTransition
	}
	now := time.Now()
	v.VerificationStatus = status
	v.ReviewedBy = &reviewedBy
	v.ReviewedAt = &now
	v.ReviewNote = note
	return v, nil
}

type fakeProgressStore struct {
	rows map[uuid.UUID]*onboarding.Progress
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: map[uuid.UUID]*onboarding.Progress{}}
}

func (f *fakeProgressStore) Upsert(_ context.Context, vendorID uuid.UUID, stage int, payload map[string]any) (*onboarding.Progress, error) {
	p, ok := f.rows[vendorID]
	if !ok {
		p = &onboarding.Progress{VendorID: vendorID, CurrentStage: onboarding.StageRegistered}
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

func (f *fakeProgressStore) Complete(ctx context.Context, vendorID uuid.UUID, payload map[string]any) (*onboarding.Progress, error) {
	p, err := f.Upsert(ctx, vendorID, onboarding.StageCompleted, payload)
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

func (f *fakeProgressStore) GetByVendorID(_ context.Context, vendorID uuid.UUID) (*onboarding.Progress, error) {
	p, ok := f.rows[vendorID]
	if !ok {
		return nil, onboarding.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakePushTokenStore struct {
	byUser map[uuid.UUID][]string
}

func newFakePushTokenStore() *fakePushTokenStore {
	return &fakePushTokenStore{byUser: map[uuid.UUID][]string{}}
}

func (f *fakePushTokenStore) Save(_ context.Context, userID uuid.UUID, token, platform string) error {
	f.byUser[userID] = append(f.byUser[userID], token)
	return nil
}

func (f *fakePushTokenStore) ListByUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	return f.byUser[userID], nil
}

func (f *fakePushTokenStore) Remove(_ context.Context, userID uuid.UUID, token string) error {
	var kept []string
	for _, t := range f.byUser[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	f.byUser[userID] = kept
	return nil
}

func (f *fakePushTokenStore) RemoveByTokens(_ context.Context, tokens []string) error {
	return nil
}

type noopMailer struct{}

func (noopMailer) Send(templateFile, username, email string, data any) (int, error) {
	return http.StatusOK, nil
}

const testSessionSecret = "test-session-secret"

func newTestApplication(t *testing.T) (*application, *fakeUserStore, *fakeVendorStore) {
	t.Helper()

	userStore := newFakeUserStore()
	vendorStore := newFakeVendorStore()
	progressStore := newFakeProgressStore()
	tokenStore := newFakePushTokenStore()

	logger := zap.NewNop().Sugar()

	app := &application{
		config: config{
			addr: ":0",
			env:  "test",
			auth: authConfig{
				session: sessionConfig{
					secret:      testSessionSecret,
					exp:         time.Hour,
					iss:         "Eventra",
					cookieNames: []string{"vendor-token", "vendorToken"},
				},
			},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		store: store.Storage{
			Users:      userStore,
			Vendors:    vendorStore,
			Onboarding: progressStore,
			PushTokens: tokenStore,
		},
		logger:        logger,
		mailer:        noopMailer{},
		authenticator: auth.NewJWTAuthenticator(testSessionSecret, "eventra", "Eventra", time.Hour),
		onboarding:    onboarding.NewService(progressStore, vendorStore, logger),
	}

	return app, userStore, vendorStore
}

// seedVendor creates a user + vendor pair and returns a signed session token.
func seedVendor(t *testing.T, app *application, userStore *fakeUserStore, vendorStore *fakeVendorStore, businessName string) (*users.User, *vendors.Vendor, string) {
	t.Helper()

	user := &users.User{
		FirstName: "Asha",
		LastName:  "Rai",
		Email:     businessName + "@example.com",
		Phone:     "+9779812345678",
		Role:      string(auth.RoleVendor),
	}
	if err := user.Password.Set("correct-horse"); err != nil {
		t.Fatal(err)
	}
	if err := userStore.Create(context.Background(), user); err != nil {
		t.Fatal(err)
	}

	vendor := &vendors.Vendor{UserID: user.ID, BusinessName: businessName}
	if err := vendorStore.Create(context.Background(), vendor); err != nil {
		t.Fatal(err)
	}

	token, err := app.authenticator.GenerateSessionToken(auth.SessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     auth.RoleVendor,
		VendorID: &vendor.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	return user, vendor, token
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

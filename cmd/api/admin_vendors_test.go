package main

import (
	"net/http"
	"testing"

	"eventra/internal/auth"
	"eventra/internal/domain/vendors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminToken(t *testing.T, app *application) string {
	t.Helper()

	token, err := app.authenticator.GenerateSessionToken(auth.SessionClaims{
		UserID: uuid.New(),
		Email:  "admin@example.com",
		Role:   auth.RoleAdmin,
	})
	require.NoError(t, err)
	return token
}

func TestApproveVendor(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	_, vendor, _ := seedVendor(t, app, userStore, vendorStore, "pending-caterers")
	token := adminToken(t, app)

	req := httptestRequest(t, http.MethodPost, "/v1/admin/vendors/"+vendor.ID.String()+"/approve", nil)
	req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})

	rr := executeRequest(req, mux)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, vendors.StatusVerified, vendorStore.byID[vendor.ID].VerificationStatus)
	assert.NotNil(t, vendorStore.byID[vendor.ID].ReviewedBy)
	assert.NotNil(t, vendorStore.byID[vendor.ID].ReviewedAt)
}

func TestApproveVendorIsIdempotent(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	_, vendor, _ := seedVendor(t, app, userStore, vendorStore, "twice-approved")
	token := adminToken(t, app)

	for i := 0; i < 2; i++ {
		req := httptestRequest(t, http.MethodPost, "/v1/admin/vendors/"+vendor.ID.String()+"/approve", nil)
		req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})

		rr := executeRequest(req, mux)
		require.Equal(t, http.StatusOK, rr.Code, "attempt %d", i+1)
	}
	assert.Equal(t, vendors.StatusVerified, vendorStore.byID[vendor.ID].VerificationStatus)
}

func TestSuspendedVendorCannotBeReapproved(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	_, vendor, _ := seedVendor(t, app, userStore, vendorStore, "troubled-events")
	token := adminToken(t, app)

	do := func(action string) int {
		req := httptestRequest(t, http.MethodPost, "/v1/admin/vendors/"+vendor.ID.String()+"/"+action, nil)
		req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})
		return executeRequest(req, mux).Code
	}

	require.Equal(t, http.StatusOK, do("approve"))
	require.Equal(t, http.StatusOK, do("suspend"))

	assert.Equal(t, http.StatusConflict, do("approve"))
	assert.Equal(t, vendors.StatusSuspended, vendorStore.byID[vendor.ID].VerificationStatus)
}

func TestRejectVendorRecordsNote(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	_, vendor, _ := seedVendor(t, app, userStore, vendorStore, "incomplete-docs")
	token := adminToken(t, app)

	payload := map[string]string{"note": "business license is expired"}
	req := httptestRequest(t, http.MethodPost, "/v1/admin/vendors/"+vendor.ID.String()+"/reject", payload)
	req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})

	rr := executeRequest(req, mux)
	require.Equal(t, http.StatusOK, rr.Code)

	got := vendorStore.byID[vendor.ID]
	assert.Equal(t, vendors.StatusRejected, got.VerificationStatus)
	require.NotNil(t, got.ReviewNote)
	assert.Equal(t, "business license is expired", *got.ReviewNote)
}

func TestApproveUnknownVendorIs404(t *testing.T) {
	app, _, _ := newTestApplication(t)
	mux := app.mount()

	token := adminToken(t, app)

	req := httptestRequest(t, http.MethodPost, "/v1/admin/vendors/"+uuid.NewString()+"/approve", nil)
	req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})

	rr := executeRequest(req, mux)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

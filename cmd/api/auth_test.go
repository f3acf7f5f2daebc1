package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"eventra/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeRequiresSessionCookie(t *testing.T) {
	app, _, _ := newTestApplication(t)
	mux := app.mount()

	req := httptestRequest(t, http.MethodGet, "/v1/vendor/auth/me", nil)
	rr := executeRequest(req, mux)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "unauthorized")
}

func TestMeAcceptsEitherCookieName(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	user, _, token := seedVendor(t, app, userStore, vendorStore, "blue-lotus-catering")

	for _, cookieName := range []string{"vendor-token", "vendorToken"} {
		req := httptestRequest(t, http.MethodGet, "/v1/vendor/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})

		rr := executeRequest(req, mux)
		require.Equal(t, http.StatusOK, rr.Code, "cookie %q", cookieName)

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				User struct {
					ID string `json:"id"`
				} `json:"user"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, user.ID.String(), body.Data.User.ID)
	}
}

func TestMeCookiePrecedence(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	_, _, token := seedVendor(t, app, userStore, vendorStore, "sunrise-decor")

	// The current name is read first; a stale legacy cookie alongside it is
	// ignored.
	req := httptestRequest(t, http.MethodGet, "/v1/vendor/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})
	req.AddCookie(&http.Cookie{Name: "vendorToken", Value: "stale-garbage"})

	rr := executeRequest(req, mux)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMeRejectsCustomerToken(t *testing.T) {
	app, _, _ := newTestApplication(t)
	mux := app.mount()

	token, err := app.authenticator.GenerateSessionToken(auth.SessionClaims{
		UserID: uuid.New(),
		Email:  "customer@example.com",
		Role:   auth.RoleCustomer,
	})
	require.NoError(t, err)

	req := httptestRequest(t, http.MethodGet, "/v1/vendor/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})

	rr := executeRequest(req, mux)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "unauthorized")
}

func TestMeRejectsExpiredToken(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	_, vendor, _ := seedVendor(t, app, userStore, vendorStore, "stage-lights-np")

	expired := auth.NewJWTAuthenticator(testSessionSecret, "eventra", "Eventra", -time.Minute)
	token, err := expired.GenerateSessionToken(auth.SessionClaims{
		UserID:   vendor.UserID,
		Role:     auth.RoleVendor,
		VendorID: &vendor.ID,
	})
	require.NoError(t, err)

	req := httptestRequest(t, http.MethodGet, "/v1/vendor/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})

	rr := executeRequest(req, mux)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminRoutesRejectVendorToken(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	_, _, token := seedVendor(t, app, userStore, vendorStore, "gold-events")

	req := httptestRequest(t, http.MethodGet, "/v1/admin/vendors", nil)
	req.AddCookie(&http.Cookie{Name: "vendor-token", Value: token})

	rr := executeRequest(req, mux)
	// Wrong role reads as unauthorized, not forbidden.
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	user, vendor, _ := seedVendor(t, app, userStore, vendorStore, "moonlight-sounds")

	payload := map[string]string{"email": user.Email, "password": "correct-horse"}
	req := httptestRequest(t, http.MethodPost, "/v1/auth/login", payload)

	rr := executeRequest(req, mux)
	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "vendor-token", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := app.authenticator.ValidateSessionToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	require.NotNil(t, claims.VendorID)
	assert.Equal(t, vendor.ID, *claims.VendorID)
}

func TestLoginWrongPassword(t *testing.T) {
	app, userStore, vendorStore := newTestApplication(t)
	mux := app.mount()

	user, _, _ := seedVendor(t, app, userStore, vendorStore, "red-carpet-hire")

	payload := map[string]string{"email": user.Email, "password": "wrong-password"}
	req := httptestRequest(t, http.MethodPost, "/v1/auth/login", payload)

	rr := executeRequest(req, mux)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestLogoutExpiresBothCookieNames(t *testing.T) {
	app, _, _ := newTestApplication(t)
	mux := app.mount()

	req := httptestRequest(t, http.MethodPost, "/v1/auth/logout", nil)
	rr := executeRequest(req, mux)

	require.Equal(t, http.StatusNoContent, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 2)
	names := map[string]bool{}
	for _, c := range cookies {
		names[c.Name] = true
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
	assert.True(t, names["vendor-token"])
	assert.True(t, names["vendorToken"])
}

func httptestRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

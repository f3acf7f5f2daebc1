package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthenticator(exp time.Duration) *JWTAuthenticator {
	return NewJWTAuthenticator("test-secret", "eventra", "Eventra", exp)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	a := testAuthenticator(time.Hour)
	vendorID := uuid.New()

	token, err := a.GenerateSessionToken(SessionClaims{
		UserID:   uuid.New(),
		Email:    "owner@example.com",
		Role:     RoleVendor,
		VendorID: &vendorID,
	})
	require.NoError(t, err)

	claims, err := a.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleVendor, claims.Role)
	assert.Equal(t, "owner@example.com", claims.Email)
	require.NotNil(t, claims.VendorID)
	assert.Equal(t, vendorID, *claims.VendorID)
}

func TestExpiredTokenRejected(t *testing.T) {
	a := testAuthenticator(-time.Minute)

	token, err := a.GenerateSessionToken(SessionClaims{
		UserID: uuid.New(),
		Role:   RoleCustomer,
	})
	require.NoError(t, err)

	claims, err := a.ValidateSessionToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	signer := NewJWTAuthenticator("one-secret", "eventra", "Eventra", time.Hour)
	verifier := NewJWTAuthenticator("other-secret", "eventra", "Eventra", time.Hour)

	token, err := signer.GenerateSessionToken(SessionClaims{
		UserID: uuid.New(),
		Role:   RoleAdmin,
	})
	require.NoError(t, err)

	claims, err := verifier.ValidateSessionToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	a := testAuthenticator(time.Hour)

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		claims, err := a.ValidateSessionToken(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVendorTokenRequiresVendorBinding(t *testing.T) {
	a := testAuthenticator(time.Hour)

	token, err := a.GenerateSessionToken(SessionClaims{
		UserID: uuid.New(),
		Email:  "owner@example.com",
		Role:   RoleVendor,
		// no VendorID
	})
	require.NoError(t, err)

	claims, err := a.ValidateSessionToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnknownRoleRejected(t *testing.T) {
	a := testAuthenticator(time.Hour)

	token, err := a.GenerateSessionToken(SessionClaims{
		UserID: uuid.New(),
		Role:   Role("superuser"),
	})
	require.NoError(t, err)

	claims, err := a.ValidateSessionToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCustomerTokenCarriesNoVendorBinding(t *testing.T) {
	a := testAuthenticator(time.Hour)

	token, err := a.GenerateSessionToken(SessionClaims{
		UserID: uuid.New(),
		Email:  "customer@example.com",
		Role:   RoleCustomer,
	})
	require.NoError(t, err)

	claims, err := a.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, claims.Role)
	assert.Nil(t, claims.VendorID)
}

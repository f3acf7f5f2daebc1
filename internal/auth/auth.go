package auth

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed claims, wrong role shape. Callers must not distinguish them.
var ErrInvalidToken = errors.New("invalid session token")

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// SessionClaims is the decoded identity carried by a session cookie.
// VendorID is non-nil exactly when Role is RoleVendor.
type SessionClaims struct {
	UserID   uuid.UUID
	Email    string
	Role     Role
	VendorID *uuid.UUID
}

type Authenticator interface {
	GenerateSessionToken(claims SessionClaims) (string, error)
	ValidateSessionToken(token string) (*SessionClaims, error)
}

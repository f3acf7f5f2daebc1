package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTAuthenticator struct {
	secret string
	aud    string
	iss    string
	exp    time.Duration
}

func NewJWTAuthenticator(secret, aud, iss string, exp time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{secret, aud, iss, exp}
}

// GenerateSessionToken signs a session token carrying the identity claims.
func (a *JWTAuthenticator) GenerateSessionToken(claims SessionClaims) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"sub":   claims.UserID.String(),
		"email": claims.Email,
		"role":  string(claims.Role),
		"exp":   now.Add(a.exp).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"iss":   a.iss,
		"aud":   a.aud,
	}
	if claims.VendorID != nil {
		mapClaims["vendor_id"] = claims.VendorID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)

	tokenString, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateSessionToken verifies signature and expiry and decodes the claims.
// Every failure mode collapses to ErrInvalidToken; the underlying cause is
// wrapped for logging only.
func (a *JWTAuthenticator) ValidateSessionToken(token string) (*SessionClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claimsFromMap(mapClaims)
}

func claimsFromMap(m jwt.MapClaims) (*SessionClaims, error) {
	sub, _ := m["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: bad sub claim", ErrInvalidToken)
	}

	roleStr, _ := m["role"].(string)
	role := Role(roleStr)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: bad role claim", ErrInvalidToken)
	}

	claims := &SessionClaims{
		UserID: userID,
		Role:   role,
	}
	claims.Email, _ = m["email"].(string)

	if v, ok := m["vendor_id"].(string); ok && v != "" {
		vendorID, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad vendor_id claim", ErrInvalidToken)
		}
		claims.VendorID = &vendorID
	}

	// A vendor token without a vendor binding cannot authorize anything.
	if claims.Role == RoleVendor && claims.VendorID == nil {
		return nil, fmt.Errorf("%w: vendor token missing vendor binding", ErrInvalidToken)
	}

	return claims, nil
}

package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"eventra/internal/auth"
)

type contextKey string

const sessionCtx contextKey = "session"

// readSessionCookie walks the accepted cookie names in precedence order and
// returns the first non-empty value. Both the current and the legacy name are
// honored so older clients keep working.
func (app *application) readSessionCookie(r *http.Request) string {
	for _, name := range app.config.auth.session.cookieNames {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// SessionMiddleware is the single choke point for credential verification.
// Missing, expired, malformed and wrong-scope tokens all produce the same
// 401; handlers downstream only ever see validated claims.
func (app *application) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := app.readSessionCookie(r)
		if raw == "" {
			// Not an error, just an unauthenticated request.
			app.unauthorizedErrorResponse(w, r, errors.New("missing session cookie"))
			return
		}

		claims, err := app.authenticator.ValidateSessionToken(raw)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole scopes a route subtree to one role. A valid token with the
// wrong role is still reported as unauthorized, not forbidden, so callers
// cannot probe which scopes exist.
func (app *application) RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := getSessionFromContext(r)
			if claims == nil || claims.Role != role {
				app.unauthorizedErrorResponse(w, r, fmt.Errorf("role %q required", role))
				return
			}
			if role == auth.RoleVendor && claims.VendorID == nil {
				app.unauthorizedErrorResponse(w, r, errors.New("vendor token missing vendor binding"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func getSessionFromContext(r *http.Request) *auth.SessionClaims {
	claims, _ := r.Context().Value(sessionCtx).(*auth.SessionClaims)
	return claims
}

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			username := app.config.auth.basic.user
			pass := app.config.auth.basic.pass

			creds := strings.SplitN(string(decoded), ":", 2)
			if len(creds) != 2 || creds[0] != username || creds[1] != pass {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(r.RemoteAddr); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

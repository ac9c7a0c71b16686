package auth

import (
	"context"
	"net/http"
	"strings"

	"campusgate/internal/models"
	pkghttp "campusgate/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing user claims in context
	UserContextKey contextKey = "user"
	// AccessTokenContextKey holds the raw access token for the request,
	// needed at logout to insert it into the revocation ledger.
	AccessTokenContextKey contextKey = "access_token"
)

// RevocationChecker checks a raw token string against the revocation ledger.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// SessionActivityRecorder bumps the last-activity timestamp of the session
// identified by a token pair's jti.
type SessionActivityRecorder interface {
	TouchActivity(ctx context.Context, jti string) error
}

// Middleware validates the access token and injects its claims into the
// request context. The token is taken from the Authorization header when
// present, otherwise from the access_token cookie. Each authenticated
// request bumps its session's last-activity timestamp.
func Middleware(tm *TokenManager, revocations RevocationChecker, sessions SessionActivityRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractAccessToken(r)
			if !ok {
				pkghttp.WriteUnauthorized(w, "Missing access token")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			// Refresh tokens are only good for the refresh endpoint
			if claims.Type != models.TokenTypeAccess {
				pkghttp.WriteUnauthorized(w, "Refresh tokens cannot be used for API access")
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), tokenString)
				if err != nil {
					pkghttp.WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "Unable to verify token status")
					return
				}
				if revoked {
					pkghttp.WriteUnauthorized(w, "Token has been revoked")
					return
				}
			}

			if sessions != nil {
				// Bookkeeping only; a failed bump must not fail the request.
				_ = sessions.TouchActivity(r.Context(), claims.ID)
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			ctx = context.WithValue(ctx, AccessTokenContextKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces role-based access using the role resolved at
// authentication time and carried in the claims.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r)
			if claims == nil {
				pkghttp.WriteUnauthorized(w, "Authentication required")
				return
			}

			if claims.Role != role {
				pkghttp.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context.
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetAccessTokenFromContext returns the raw access token for the request.
func GetAccessTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(AccessTokenContextKey).(string)
	return token
}

func extractAccessToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}

	if token, err := GetAccessTokenCookie(r); err == nil && token != "" {
		return token, true
	}

	return "", false
}

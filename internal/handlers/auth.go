package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"campusgate/internal/auth"
	"campusgate/internal/models"
	"campusgate/internal/services"
	pkghttp "campusgate/pkg/http"

	"github.com/go-chi/chi/v5"
)

// AuthServiceInterface defines the auth flows the handler depends on.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string, meta services.RequestMeta) (*models.TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string, meta services.RequestMeta) (*models.TokenPair, error)
	Logout(ctx context.Context, claims *models.TokenClaims, accessTokens []string, refreshToken string, meta services.RequestMeta) error
	ListSessions(ctx context.Context, userID string) ([]*models.Session, error)
	RevokeSession(ctx context.Context, claims *models.TokenClaims, sessionID string, meta services.RequestMeta) error
}

// AuthHandler serves the token lifecycle endpoints.
type AuthHandler struct {
	service    AuthServiceInterface
	ipConfig   *pkghttp.IPConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:    service,
		ipConfig:   ipConfig,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Request/response DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=150"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Detail  string `json:"detail"`
	User    string `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

// SessionResponse is the API shape of one live session.
type SessionResponse struct {
	ID           string    `json:"id"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	DeviceName   string    `json:"device_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

func (h *AuthHandler) meta(r *http.Request) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
		UserAgent: r.Header.Get("User-Agent"),
	}
}

// Login handles POST /auth/token. On success the pair is returned in the
// body and mirrored into the two token cookies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	pair, user, err := h.service.Login(r.Context(), req.Username, req.Password, h.meta(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRateLimited):
			pkghttp.WriteTooManyRequests(w, "Too many failed login attempts. Please try again later.")
		case errors.Is(err, models.ErrUnauthorized):
			// One generic message for every credential failure mode
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetTokenCookies(w, pair.AccessToken, pair.RefreshToken, h.accessTTL, h.refreshTTL,
		pkghttp.SecureTransport(r, h.ipConfig))

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Detail:  "Login successful",
		User:    user.Username,
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
}

// Refresh handles POST /auth/token/refresh. The refresh token comes from
// the refresh_token cookie; there is no request body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, _ := auth.GetRefreshTokenCookie(r)

	pair, err := h.service.Refresh(r.Context(), refreshToken, h.meta(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTokenMissing):
			pkghttp.WriteUnauthorized(w, "No refresh token")
		case errors.Is(err, models.ErrTokenRevoked):
			pkghttp.WriteUnauthorized(w, "Token has been revoked")
		case errors.Is(err, models.ErrTokenInvalid):
			pkghttp.WriteUnauthorized(w, "Invalid refresh token")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetTokenCookies(w, pair.AccessToken, pair.RefreshToken, h.accessTTL, h.refreshTTL,
		pkghttp.SecureTransport(r, h.ipConfig))

	pkghttp.WriteJSON(w, http.StatusOK, RefreshResponse{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
}

// Logout handles POST /auth/logout. Both tokens are revoked, all of the
// user's sessions closed, and the cookies cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	// The token that authenticated the request, plus a stale access
	// cookie when the client authenticated via header; both must land in
	// the revocation ledger.
	accessTokens := []string{auth.GetAccessTokenFromContext(r)}
	if cookieToken, err := auth.GetAccessTokenCookie(r); err == nil && cookieToken != "" && cookieToken != accessTokens[0] {
		accessTokens = append(accessTokens, cookieToken)
	}
	refreshToken, _ := auth.GetRefreshTokenCookie(r)

	if err := h.service.Logout(r.Context(), claims, accessTokens, refreshToken, h.meta(r)); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.ClearTokenCookies(w, pkghttp.SecureTransport(r, h.ipConfig))

	pkghttp.WriteJSON(w, http.StatusOK, DetailResponse{Detail: "Logout successful"})
}

// ListSessions handles GET /auth/sessions.
func (h *AuthHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), claims.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	resp := SessionListResponse{Sessions: make([]SessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, SessionResponse{
			ID:           s.ID,
			IPAddress:    s.IPAddress,
			UserAgent:    s.UserAgent,
			DeviceName:   s.DeviceName,
			IsActive:     s.IsActive,
			CreatedAt:    s.CreatedAt,
			LastActivity: s.LastActivity,
		})
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// RevokeSession handles POST /auth/sessions/{id}/revoke. A session owned
// by someone else 404s the same as a missing one.
func (h *AuthHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		pkghttp.WriteBadRequest(w, "Missing session id")
		return
	}

	if err := h.service.RevokeSession(r.Context(), claims, sessionID, h.meta(r)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Session not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, DetailResponse{Detail: "Session revoked"})
}

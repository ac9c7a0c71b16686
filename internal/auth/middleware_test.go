package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusgate/internal/models"
	pkghttp "campusgate/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[token], nil
}

type stubActivityRecorder struct {
	touched []string
	err     error
}

func (s *stubActivityRecorder) TouchActivity(ctx context.Context, jti string) error {
	s.touched = append(s.touched, jti)
	return s.err
}

func newTestPair(t *testing.T, tm *TokenManager) *models.TokenPair {
	t.Helper()
	pair, err := tm.GeneratePair(&models.User{
		ID:       "b3b2b1a0-0000-4000-8000-000000000001",
		Username: "jsmith",
		Role:     models.RoleProfessor,
	})
	require.NoError(t, err)
	return pair
}

func okHandler(claims **models.TokenClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*claims = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_BearerToken(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	var claims *models.TokenClaims
	handler := Middleware(tm, &stubRevocations{}, nil)(okHandler(&claims))

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "jsmith", claims.Username)
	assert.Equal(t, models.RoleProfessor, claims.Role)
}

func TestMiddleware_CookieToken(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	var claims *models.TokenClaims
	handler := Middleware(tm, &stubRevocations{}, nil)(okHandler(&claims))

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, claims)
}

func TestMiddleware_MissingToken(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	handler := Middleware(tm, nil, nil)(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RefreshTokenRejected(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	handler := Middleware(tm, nil, nil)(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RevokedToken(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	revocations := &stubRevocations{revoked: map[string]bool{pair.AccessToken: true}}
	handler := Middleware(tm, revocations, nil)(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RevocationCheckFailureFailsClosed(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	revocations := &stubRevocations{err: errors.New("db down")}
	handler := Middleware(tm, revocations, nil)(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMiddleware_BumpsSessionActivity(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	recorder := &stubActivityRecorder{}
	handler := Middleware(tm, &stubRevocations{}, recorder)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	))

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, recorder.touched, 1)
	assert.Equal(t, pair.JTI, recorder.touched[0])
}

func TestMiddleware_NoActivityBumpForRejectedToken(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	recorder := &stubActivityRecorder{}
	revocations := &stubRevocations{revoked: map[string]bool{pair.AccessToken: true}}
	handler := Middleware(tm, revocations, recorder)(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, recorder.touched)
}

func TestMiddleware_ActivityBumpFailureDoesNotFailRequest(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm)

	recorder := &stubActivityRecorder{err: errors.New("db down")}
	handler := Middleware(tm, &stubRevocations{}, recorder)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	))

	req := httptest.NewRequest("GET", "/auth/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("test-secret-with-decent-length", 15*time.Minute, time.Hour)
	pair := newTestPair(t, tm) // professor

	handler := Middleware(tm, nil, nil)(RequireRole(models.RoleAdministrator)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	)))

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var errResp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "forbidden", errResp.Error)

	handler = Middleware(tm, nil, nil)(RequireRole(models.RoleProfessor)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	)))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

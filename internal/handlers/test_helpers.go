package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusgate/internal/auth"
	"campusgate/internal/models"
	"campusgate/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with a JSON body for testing.
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:49152"
	return req
}

// WithAuthContext injects access-token claims the way the auth middleware
// would, for testing authenticated endpoints.
func WithAuthContext(req *http.Request, userID, username, role string) *http.Request {
	claims := &models.TokenClaims{
		Type:     models.TokenTypeAccess,
		UserID:   userID,
		Username: username,
		Role:     role,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithURLParam attaches a chi route parameter to the request context.
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks status and decodes the JSON body into target.
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.True(t, strings.HasPrefix(contentType, "application/json"), "unexpected content type %q", contentType)

	if target != nil {
		assert.NoError(t, json.NewDecoder(w.Body).Decode(target))
	}
}

// cookieByName returns the named Set-Cookie from a recorded response.
func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, username, password string, meta services.RequestMeta) (*models.TokenPair, *models.User, error)
	RefreshFunc       func(ctx context.Context, refreshToken string, meta services.RequestMeta) (*models.TokenPair, error)
	LogoutFunc        func(ctx context.Context, claims *models.TokenClaims, accessTokens []string, refreshToken string, meta services.RequestMeta) error
	ListSessionsFunc  func(ctx context.Context, userID string) ([]*models.Session, error)
	RevokeSessionFunc func(ctx context.Context, claims *models.TokenClaims, sessionID string, meta services.RequestMeta) error
}

func (m *MockAuthService) Login(ctx context.Context, username, password string, meta services.RequestMeta) (*models.TokenPair, *models.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password, meta)
	}
	return nil, nil, models.ErrUnauthorized
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string, meta services.RequestMeta) (*models.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken, meta)
	}
	return nil, models.ErrTokenInvalid
}

func (m *MockAuthService) Logout(ctx context.Context, claims *models.TokenClaims, accessTokens []string, refreshToken string, meta services.RequestMeta) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, claims, accessTokens, refreshToken, meta)
	}
	return nil
}

func (m *MockAuthService) ListSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx, userID)
	}
	return []*models.Session{}, nil
}

func (m *MockAuthService) RevokeSession(ctx context.Context, claims *models.TokenClaims, sessionID string, meta services.RequestMeta) error {
	if m.RevokeSessionFunc != nil {
		return m.RevokeSessionFunc(ctx, claims, sessionID, meta)
	}
	return models.ErrNotFound
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	CreateUserFunc func(ctx context.Context, username, password, fullName, role string) (*models.User, error)
	GetUserFunc    func(ctx context.Context, id string) (*models.User, error)
	ListUsersFunc  func(ctx context.Context, limit, offset int) ([]*models.User, error)
}

func (m *MockUserService) CreateUser(ctx context.Context, username, password, fullName, role string) (*models.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, username, password, fullName, role)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

// MockSecurityEventLister implements SecurityEventListerInterface for testing
type MockSecurityEventLister struct {
	ListSecurityEventsFunc func(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error)
}

func (m *MockSecurityEventLister) ListSecurityEvents(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error) {
	if m.ListSecurityEventsFunc != nil {
		return m.ListSecurityEventsFunc(ctx, limit, offset)
	}
	return []*models.SecurityEvent{}, nil
}

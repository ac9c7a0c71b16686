package services

import (
	"context"
	"time"

	"campusgate/internal/models"
	pkgauth "campusgate/pkg/auth"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*models.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

// MockLoginAttemptRepository implements LoginAttemptRepository for testing
type MockLoginAttemptRepository struct {
	RecordFunc                  func(ctx context.Context, attempt *models.LoginAttempt) error
	CountRecentFailuresByIPFunc func(ctx context.Context, ipAddress string, since time.Time) (int, error)
}

func (m *MockLoginAttemptRepository) Record(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, attempt)
	}
	return nil
}

func (m *MockLoginAttemptRepository) CountRecentFailuresByIP(ctx context.Context, ipAddress string, since time.Time) (int, error) {
	if m.CountRecentFailuresByIPFunc != nil {
		return m.CountRecentFailuresByIPFunc(ctx, ipAddress, since)
	}
	return 0, nil
}

// MockTokenRevocationRepository implements TokenRevocationRepository for testing
type MockTokenRevocationRepository struct {
	RevokeFunc     func(ctx context.Context, token string, ttl time.Duration, reason string) error
	RevokeOnceFunc func(ctx context.Context, token string, ttl time.Duration, reason string) (bool, error)
	IsRevokedFunc  func(ctx context.Context, token string) (bool, error)
}

func (m *MockTokenRevocationRepository) Revoke(ctx context.Context, token string, ttl time.Duration, reason string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token, ttl, reason)
	}
	return nil
}

func (m *MockTokenRevocationRepository) RevokeOnce(ctx context.Context, token string, ttl time.Duration, reason string) (bool, error) {
	if m.RevokeOnceFunc != nil {
		return m.RevokeOnceFunc(ctx, token, ttl, reason)
	}
	return true, nil
}

func (m *MockTokenRevocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, token)
	}
	return false, nil
}

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc            func(ctx context.Context, session *models.Session) (*models.Session, error)
	ListByUserFunc        func(ctx context.Context, userID string) ([]*models.Session, error)
	DeleteByJTIFunc       func(ctx context.Context, jti string) error
	DeleteByUserFunc      func(ctx context.Context, userID string) (int64, error)
	DeleteByIDAndUserFunc func(ctx context.Context, sessionID, userID string) (bool, error)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	session.ID = "session123"
	return session, nil
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Session, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Session{}, nil
}

func (m *MockSessionRepository) DeleteByJTI(ctx context.Context, jti string) error {
	if m.DeleteByJTIFunc != nil {
		return m.DeleteByJTIFunc(ctx, jti)
	}
	return nil
}

func (m *MockSessionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if m.DeleteByUserFunc != nil {
		return m.DeleteByUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockSessionRepository) DeleteByIDAndUser(ctx context.Context, sessionID, userID string) (bool, error) {
	if m.DeleteByIDAndUserFunc != nil {
		return m.DeleteByIDAndUserFunc(ctx, sessionID, userID)
	}
	return false, nil
}

// MockSecurityEventRepository implements SecurityEventRepository for testing
type MockSecurityEventRepository struct {
	CreateFunc     func(ctx context.Context, event *models.SecurityEvent) error
	ListRecentFunc func(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error)

	Events []*models.SecurityEvent
}

func (m *MockSecurityEventRepository) Create(ctx context.Context, event *models.SecurityEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockSecurityEventRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit, offset)
	}
	return m.Events, nil
}

// NewTestUser creates a user with a known password hash for login tests.
// The password is "SecurePassword123".
func NewTestUser(id, username, role string) *models.User {
	hash, _ := pkgauth.HashPassword("SecurePassword123")
	return &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

package services

import (
	"context"
	"time"

	"campusgate/internal/models"
)

// UserRepository defines the user store operations the services need.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// LoginAttemptRepository is the credential store consulted for rate limiting.
type LoginAttemptRepository interface {
	Record(ctx context.Context, attempt *models.LoginAttempt) error
	CountRecentFailuresByIP(ctx context.Context, ipAddress string, since time.Time) (int, error)
}

// TokenRevocationRepository is the revocation ledger.
type TokenRevocationRepository interface {
	Revoke(ctx context.Context, token string, ttl time.Duration, reason string) error
	RevokeOnce(ctx context.Context, token string, ttl time.Duration, reason string) (bool, error)
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// SessionRepository is the registry of live authenticated clients.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Session, error)
	DeleteByJTI(ctx context.Context, jti string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteByIDAndUser(ctx context.Context, sessionID, userID string) (bool, error)
}

// SecurityEventRepository is the append-only audit trail.
type SecurityEventRepository interface {
	Create(ctx context.Context, event *models.SecurityEvent) error
	ListRecent(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error)
}

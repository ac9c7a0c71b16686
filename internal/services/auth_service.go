package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusgate/internal/auth"
	"campusgate/internal/models"
	"campusgate/internal/obs"
	pkgauth "campusgate/pkg/auth"
	"campusgate/pkg/logger"
)

// RequestMeta carries the client attributes recorded alongside every
// authentication event.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthService implements the token lifecycle: login, refresh, logout and
// session management. Every state change is mirrored into the security
// event trail.
type AuthService struct {
	userRepo       UserRepository
	revocationRepo TokenRevocationRepository
	sessionRepo    SessionRepository
	eventRepo      SecurityEventRepository
	throttle       *LoginThrottle
	tokens         *auth.TokenManager
	accessTTL      time.Duration
	refreshTTL     time.Duration
	audit          *logger.AuditLogger
	logger         *slog.Logger
}

func NewAuthService(
	userRepo UserRepository,
	revocationRepo TokenRevocationRepository,
	sessionRepo SessionRepository,
	eventRepo SecurityEventRepository,
	throttle *LoginThrottle,
	tokens *auth.TokenManager,
	accessTTL, refreshTTL time.Duration,
	audit *logger.AuditLogger,
	slogger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		revocationRepo: revocationRepo,
		sessionRepo:    sessionRepo,
		eventRepo:      eventRepo,
		throttle:       throttle,
		tokens:         tokens,
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		audit:          audit,
		logger:         slogger,
	}
}

// Login verifies credentials and opens a session. Credential failures all
// surface as models.ErrUnauthorized; the distinction between unknown user,
// inactive account and wrong password exists only in the attempt log.
func (s *AuthService) Login(ctx context.Context, username, password string, meta RequestMeta) (*models.TokenPair, *models.User, error) {
	limited, err := s.throttle.IsRateLimited(ctx, meta.IPAddress)
	if err != nil {
		obs.RecordLogin("error")
		return nil, nil, err
	}
	if limited {
		obs.RecordLogin("rate_limited")
		if err := s.logEvent(ctx, nil, models.EventFailedLogin, models.SeverityHigh, meta,
			fmt.Sprintf("rate limit exceeded for username %q", logger.SanitizedUsername(username))); err != nil {
			return nil, nil, err
		}
		return nil, nil, models.ErrRateLimited
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, s.failLogin(ctx, username, meta, models.FailureUserNotFound)
		}
		obs.RecordLogin("error")
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if !user.IsActive {
		return nil, nil, s.failLogin(ctx, username, meta, models.FailureUserInactive)
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, s.failLogin(ctx, username, meta, models.FailureInvalidCredentials)
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		obs.RecordLogin("error")
		return nil, nil, fmt.Errorf("generating token pair: %w", err)
	}

	if _, err := s.sessionRepo.Create(ctx, &models.Session{
		UserID:     user.ID,
		TokenJTI:   pair.JTI,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		DeviceName: deviceName(meta.UserAgent),
		IsActive:   true,
	}); err != nil {
		obs.RecordLogin("error")
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}

	if err := s.throttle.Record(ctx, username, meta.IPAddress, meta.UserAgent, true, ""); err != nil {
		obs.RecordLogin("error")
		return nil, nil, err
	}

	if err := s.logUserEvent(ctx, user, models.EventLogin, models.SeverityLow, meta, "user logged in"); err != nil {
		obs.RecordLogin("error")
		return nil, nil, err
	}

	obs.RecordLogin("success")
	return pair, user, nil
}

// failLogin records exactly one attempt row and one security event for a
// rejected credential check, then returns ErrUnauthorized.
func (s *AuthService) failLogin(ctx context.Context, username string, meta RequestMeta, reason string) error {
	if err := s.throttle.Record(ctx, username, meta.IPAddress, meta.UserAgent, false, reason); err != nil {
		obs.RecordLogin("error")
		return err
	}

	if err := s.logEvent(ctx, nil, models.EventFailedLogin, models.SeverityMedium, meta,
		fmt.Sprintf("failed login for username %q: %s", logger.SanitizedUsername(username), reason)); err != nil {
		obs.RecordLogin("error")
		return err
	}

	obs.RecordLogin("invalid_credentials")
	return models.ErrUnauthorized
}

// Refresh rotates a token pair. The presented refresh token is revoked
// before the new pair is handed out; the revocation insert doubles as the
// guard against two concurrent refreshes of the same token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta RequestMeta) (*models.TokenPair, error) {
	if refreshToken == "" {
		obs.RecordRefresh("invalid")
		return nil, models.ErrTokenMissing
	}

	revoked, err := s.revocationRepo.IsRevoked(ctx, refreshToken)
	if err != nil {
		obs.RecordRefresh("error")
		return nil, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		obs.RecordRefresh("revoked")
		return nil, models.ErrTokenRevoked
	}

	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		obs.RecordRefresh("invalid")
		return nil, err
	}
	if claims.Type != models.TokenTypeRefresh {
		obs.RecordRefresh("invalid")
		return nil, fmt.Errorf("%w: not a refresh token", models.ErrTokenInvalid)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			obs.RecordRefresh("invalid")
			return nil, models.ErrTokenInvalid
		}
		obs.RecordRefresh("error")
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.IsActive {
		obs.RecordRefresh("invalid")
		return nil, models.ErrTokenInvalid
	}

	// The row insert is the race arbiter: of two concurrent refreshes only
	// one observes RowsAffected == 1 and proceeds to mint a new pair.
	won, err := s.revocationRepo.RevokeOnce(ctx, refreshToken, s.refreshTTL, models.RevokeReasonRotation)
	if err != nil {
		obs.RecordRefresh("error")
		return nil, fmt.Errorf("revoking rotated token: %w", err)
	}
	if !won {
		obs.RecordRefresh("revoked")
		return nil, models.ErrTokenRevoked
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		obs.RecordRefresh("error")
		return nil, fmt.Errorf("generating token pair: %w", err)
	}

	if err := s.sessionRepo.DeleteByJTI(ctx, claims.ID); err != nil {
		obs.RecordRefresh("error")
		return nil, fmt.Errorf("closing rotated session: %w", err)
	}

	if _, err := s.sessionRepo.Create(ctx, &models.Session{
		UserID:     user.ID,
		TokenJTI:   pair.JTI,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		DeviceName: deviceName(meta.UserAgent),
		IsActive:   true,
	}); err != nil {
		obs.RecordRefresh("error")
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if err := s.logUserEvent(ctx, user, models.EventTokenRefresh, models.SeverityLow, meta, "token pair rotated"); err != nil {
		obs.RecordRefresh("error")
		return nil, err
	}

	obs.RecordRefresh("success")
	return pair, nil
}

// Logout revokes the caller's tokens and closes all of the user's
// sessions. Several access tokens may be presented at once (the one used
// to authenticate plus a stale cookie); each goes into the ledger. Missing
// cookies are tolerated: logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, claims *models.TokenClaims, accessTokens []string, refreshToken string, meta RequestMeta) error {
	if refreshToken != "" {
		if err := s.revocationRepo.Revoke(ctx, refreshToken, s.refreshTTL, models.RevokeReasonLogout); err != nil {
			return fmt.Errorf("revoking refresh token: %w", err)
		}
	}
	for _, accessToken := range accessTokens {
		if accessToken == "" {
			continue
		}
		if err := s.revocationRepo.Revoke(ctx, accessToken, s.accessTTL, models.RevokeReasonLogout); err != nil {
			return fmt.Errorf("revoking access token: %w", err)
		}
	}

	if _, err := s.sessionRepo.DeleteByUser(ctx, claims.UserID); err != nil {
		return fmt.Errorf("closing sessions: %w", err)
	}

	return s.logEvent(ctx, &claims.UserID, models.EventLogout, models.SeverityLow, meta,
		fmt.Sprintf("user %q logged out", logger.SanitizedUsername(claims.Username)))
}

// ListSessions returns the caller's live sessions, most recently active
// first.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// RevokeSession terminates one of the caller's own sessions. Sessions
// belonging to other users are indistinguishable from nonexistent ones.
func (s *AuthService) RevokeSession(ctx context.Context, claims *models.TokenClaims, sessionID string, meta RequestMeta) error {
	deleted, err := s.sessionRepo.DeleteByIDAndUser(ctx, sessionID, claims.UserID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if !deleted {
		return models.ErrNotFound
	}

	return s.logEvent(ctx, &claims.UserID, models.EventSessionTerminated, models.SeverityLow, meta,
		fmt.Sprintf("session %s terminated by owner", sessionID))
}

// ListSecurityEvents returns recent audit records, newest first.
func (s *AuthService) ListSecurityEvents(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error) {
	events, err := s.eventRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing security events: %w", err)
	}
	return events, nil
}

func (s *AuthService) logUserEvent(ctx context.Context, user *models.User, eventType, severity string, meta RequestMeta, description string) error {
	return s.logEvent(ctx, &user.ID, eventType, severity, meta, description)
}

// logEvent persists one security event and mirrors it to the audit log. A
// storage failure propagates so callers never report success for a flow
// whose audit record was lost.
func (s *AuthService) logEvent(ctx context.Context, userID *string, eventType, severity string, meta RequestMeta, description string) error {
	event := &models.SecurityEvent{
		UserID:      userID,
		EventType:   eventType,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Description: description,
		Severity:    severity,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("recording security event: %w", err)
	}

	audit := logger.AuditEvent{
		EventType:   eventType,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Severity:    severity,
		Description: description,
	}
	if userID != nil {
		audit.UserID = *userID
	}
	s.audit.LogSecurityEvent(audit)

	return nil
}

// deviceName derives a short label for the session list from the leading
// product token of the user agent.
func deviceName(userAgent string) string {
	ua := strings.TrimSpace(userAgent)
	if ua == "" {
		return "unknown"
	}
	if i := strings.IndexAny(ua, " ("); i > 0 {
		ua = ua[:i]
	}
	if len(ua) > 64 {
		ua = ua[:64]
	}
	return ua
}

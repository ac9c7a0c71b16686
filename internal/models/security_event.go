package models

import "time"

// Security event types.
const (
	EventLogin              = "login"
	EventFailedLogin        = "failed_login"
	EventLogout             = "logout"
	EventTokenRefresh       = "token_refresh"
	EventTokenRevocation    = "token_revocation"
	EventPermissionDenied   = "permission_denied"
	EventSuspiciousActivity = "suspicious_activity"
	EventPasswordChange     = "password_change"
	EventSessionTerminated  = "session_terminated"
)

// Event severities. Severity is assigned by the caller per event type; the
// log itself never infers it.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityEvent is one immutable audit record. UserID is nil for events
// with no authenticated principal (failed logins, rate-limit breaches).
type SecurityEvent struct {
	ID          string
	UserID      *string
	EventType   string
	IPAddress   string
	UserAgent   string
	Description string
	Severity    string
	CreatedAt   time.Time
}

package models

import "time"

// Failure reasons recorded with unsuccessful login attempts.
const (
	FailureInvalidCredentials = "invalid_credentials"
	FailureUserInactive       = "user_inactive"
	FailureUserNotFound       = "user_not_found"
	FailureRateLimit          = "rate_limit"
	FailureOther              = "other"
)

// LoginAttempt represents a single login attempt in the system. Rows are
// append-only; retention is handled by the background sweeper.
type LoginAttempt struct {
	ID            string
	Username      string
	IPAddress     string
	UserAgent     string
	AttemptedAt   time.Time
	Success       bool
	FailureReason *string
}

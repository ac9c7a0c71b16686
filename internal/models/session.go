package models

import "time"

// Session is one live authenticated client. TokenJTI is unique across all
// sessions; rotation on refresh is delete-then-create, never update.
type Session struct {
	ID           string
	UserID       string
	TokenJTI     string
	IPAddress    string
	UserAgent    string
	DeviceName   string
	IsActive     bool
	CreatedAt    time.Time
	LastActivity time.Time
}

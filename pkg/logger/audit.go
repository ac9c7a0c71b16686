package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent mirrors a security event into the process log. The durable
// record lives in the security_events table; this is the operational copy.
type AuditEvent struct {
	EventType   string
	UserID      string
	Username    string
	IPAddress   string
	UserAgent   string
	Severity    string
	Description string
}

// AuditLogger provides structured audit logging on top of slog.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogSecurityEvent emits one audit line. Severity high and critical are
// logged at Warn so they surface in alerting.
func (al *AuditLogger) LogSecurityEvent(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "security"),
		slog.String("event_type", event.EventType),
		slog.String("severity", event.Severity),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Username != "" {
		attrs = append(attrs, slog.String("username", event.Username))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}
	if event.Description != "" {
		attrs = append(attrs, slog.String("description", event.Description))
	}

	level := slog.LevelInfo
	if event.Severity == "high" || event.Severity == "critical" {
		level = slog.LevelWarn
	}

	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}

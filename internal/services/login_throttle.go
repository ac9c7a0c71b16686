package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusgate/internal/config"
	"campusgate/internal/models"
)

// LoginThrottle blocks password guessing by counting recent failed login
// attempts per source IP against a sliding window.
type LoginThrottle struct {
	attemptRepo LoginAttemptRepository
	maxAttempts int
	window      time.Duration
	bypass      bool
	logger      *slog.Logger
}

func NewLoginThrottle(attemptRepo LoginAttemptRepository, cfg config.AuthConfig, logger *slog.Logger) *LoginThrottle {
	return &LoginThrottle{
		attemptRepo: attemptRepo,
		maxAttempts: cfg.RateLimitMaxAttempts,
		window:      cfg.RateLimitWindow,
		bypass:      cfg.RateLimitBypass,
		logger:      logger,
	}
}

// IsRateLimited reports whether the IP has exhausted its failed-attempt
// budget. A storage error is returned as-is: the caller must not treat an
// unreadable attempt log as permission to proceed.
func (t *LoginThrottle) IsRateLimited(ctx context.Context, ipAddress string) (bool, error) {
	if t.bypass {
		return false, nil
	}

	since := time.Now().Add(-t.window)
	count, err := t.attemptRepo.CountRecentFailuresByIP(ctx, ipAddress, since)
	if err != nil {
		return false, fmt.Errorf("counting recent login failures: %w", err)
	}

	if count >= t.maxAttempts {
		t.logger.Warn("login rate limit reached",
			slog.String("ip_address", ipAddress),
			slog.Int("failed_attempts", count),
			slog.Duration("window", t.window))
		return true, nil
	}

	return false, nil
}

// Record persists one login attempt row, successful or not.
func (t *LoginThrottle) Record(ctx context.Context, username, ipAddress, userAgent string, success bool, failureReason string) error {
	attempt := &models.LoginAttempt{
		Username:  username,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Success:   success,
	}
	if !success && failureReason != "" {
		attempt.FailureReason = &failureReason
	}

	if err := t.attemptRepo.Record(ctx, attempt); err != nil {
		return fmt.Errorf("recording login attempt: %w", err)
	}
	return nil
}

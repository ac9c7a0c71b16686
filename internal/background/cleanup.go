package background

import (
	"context"
	"log/slog"
	"time"

	"campusgate/internal/config"
	"campusgate/internal/repositories"
)

// CleanupManager runs the periodic retention sweep: expired revocation
// rows, old login attempts, old security events and stale sessions.
type CleanupManager struct {
	revokeRepo  *repositories.TokenRevocationRepository
	attemptRepo *repositories.LoginAttemptRepository
	eventRepo   *repositories.SecurityEventRepository
	sessionRepo *repositories.SessionRepository

	interval               time.Duration
	loginAttemptRetention  time.Duration
	securityEventRetention time.Duration
	sessionMaxAge          time.Duration

	logger *slog.Logger
	stopCh chan struct{}
}

func NewCleanupManager(
	revokeRepo *repositories.TokenRevocationRepository,
	attemptRepo *repositories.LoginAttemptRepository,
	eventRepo *repositories.SecurityEventRepository,
	sessionRepo *repositories.SessionRepository,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *CleanupManager {
	return &CleanupManager{
		revokeRepo:             revokeRepo,
		attemptRepo:            attemptRepo,
		eventRepo:              eventRepo,
		sessionRepo:            sessionRepo,
		interval:               cfg.CleanupInterval,
		loginAttemptRetention:  cfg.LoginAttemptRetention,
		securityEventRetention: cfg.SecurityEventRetention,
		sessionMaxAge:          cfg.SessionMaxAge,
		logger:                 logger,
		stopCh:                 make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or the context ends. One
// sweep runs immediately on startup.
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	cm.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runSweep(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// Stop signals the sweep loop to exit.
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}

func (cm *CleanupManager) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := time.Now()

	cm.sweep(sweepCtx, "expired_revocations", func() (int64, error) {
		return cm.revokeRepo.DeleteExpired(sweepCtx)
	})
	cm.sweep(sweepCtx, "old_login_attempts", func() (int64, error) {
		return cm.attemptRepo.DeleteOlderThan(sweepCtx, now.Add(-cm.loginAttemptRetention))
	})
	cm.sweep(sweepCtx, "old_security_events", func() (int64, error) {
		return cm.eventRepo.DeleteOlderThan(sweepCtx, now.Add(-cm.securityEventRetention))
	})
	cm.sweep(sweepCtx, "stale_sessions", func() (int64, error) {
		return cm.sessionRepo.DeleteCreatedBefore(sweepCtx, now.Add(-cm.sessionMaxAge))
	})
}

// sweep runs one deletion pass and logs the outcome. A failing pass never
// blocks the others.
func (cm *CleanupManager) sweep(ctx context.Context, name string, fn func() (int64, error)) {
	if ctx.Err() != nil {
		return
	}

	rows, err := fn()
	if err != nil {
		cm.logger.Error("retention sweep failed",
			slog.String("sweep", name),
			slog.Any("error", err))
		return
	}

	if rows > 0 {
		cm.logger.Info("retention sweep completed",
			slog.String("sweep", name),
			slog.Int64("rows_deleted", rows))
	}
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"campusgate/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestThrottle(attemptRepo *MockLoginAttemptRepository, bypass bool) *LoginThrottle {
	return NewLoginThrottle(attemptRepo, config.AuthConfig{
		RateLimitMaxAttempts: 5,
		RateLimitWindow:      15 * time.Minute,
		RateLimitBypass:      bypass,
	}, slog.Default())
}

func TestLoginThrottle_UnderLimit(t *testing.T) {
	attemptRepo := &MockLoginAttemptRepository{
		CountRecentFailuresByIPFunc: func(ctx context.Context, ipAddress string, since time.Time) (int, error) {
			return 4, nil
		},
	}

	limited, err := newTestThrottle(attemptRepo, false).IsRateLimited(context.Background(), "203.0.113.7")

	require.NoError(t, err)
	assert.False(t, limited)
}

func TestLoginThrottle_AtLimit(t *testing.T) {
	attemptRepo := &MockLoginAttemptRepository{
		CountRecentFailuresByIPFunc: func(ctx context.Context, ipAddress string, since time.Time) (int, error) {
			return 5, nil
		},
	}

	limited, err := newTestThrottle(attemptRepo, false).IsRateLimited(context.Background(), "203.0.113.7")

	require.NoError(t, err)
	assert.True(t, limited)
}

func TestLoginThrottle_WindowBounds(t *testing.T) {
	var gotSince time.Time
	attemptRepo := &MockLoginAttemptRepository{
		CountRecentFailuresByIPFunc: func(ctx context.Context, ipAddress string, since time.Time) (int, error) {
			gotSince = since
			return 0, nil
		},
	}

	before := time.Now().Add(-15 * time.Minute)
	_, err := newTestThrottle(attemptRepo, false).IsRateLimited(context.Background(), "203.0.113.7")
	after := time.Now().Add(-15 * time.Minute)

	require.NoError(t, err)
	assert.False(t, gotSince.Before(before))
	assert.False(t, gotSince.After(after))
}

func TestLoginThrottle_Bypass(t *testing.T) {
	attemptRepo := &MockLoginAttemptRepository{
		CountRecentFailuresByIPFunc: func(ctx context.Context, ipAddress string, since time.Time) (int, error) {
			t.Fatal("bypassed throttle must not query the store")
			return 0, nil
		},
	}

	limited, err := newTestThrottle(attemptRepo, true).IsRateLimited(context.Background(), "203.0.113.7")

	require.NoError(t, err)
	assert.False(t, limited)
}

func TestLoginThrottle_StorageErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	attemptRepo := &MockLoginAttemptRepository{
		CountRecentFailuresByIPFunc: func(ctx context.Context, ipAddress string, since time.Time) (int, error) {
			return 0, storeErr
		},
	}

	limited, err := newTestThrottle(attemptRepo, false).IsRateLimited(context.Background(), "203.0.113.7")

	assert.ErrorIs(t, err, storeErr)
	assert.False(t, limited)
}

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig sets the transport-level request limit per client IP.
// This caps request volume in front of the store-backed login throttle,
// which counts only failed credential checks.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// DefaultAuthRateLimit limits unauthenticated auth endpoints to 30
// requests per minute per IP.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 30,
		Window:   time.Minute,
	}
}

// RateLimitByIP rate limits requests by client IP.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too_many_requests","message":"Rate limit exceeded"}`))
		}),
	)
}

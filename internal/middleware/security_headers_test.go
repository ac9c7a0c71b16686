package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runSecurityHeaders(t *testing.T, env string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	handler := SecurityHeaders(SecurityHeadersConfig{Env: env})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders_AlwaysSet(t *testing.T) {
	w := runSecurityHeaders(t, "development", nil)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "same-origin", w.Header().Get("Cross-Origin-Opener-Policy"))
}

func TestSecurityHeaders_NoHSTSInDevelopment(t *testing.T) {
	w := runSecurityHeaders(t, "development", func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
	})

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_NoHSTSOnPlaintext(t *testing.T) {
	w := runSecurityHeaders(t, "production", nil)

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTSInProductionOverTLS(t *testing.T) {
	w := runSecurityHeaders(t, "production", func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
	})

	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}

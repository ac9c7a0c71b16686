package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSetTokenCookies(t *testing.T) {
	w := httptest.NewRecorder()
	SetTokenCookies(w, "acc", "ref", 15*time.Minute, 7*24*time.Hour, true)
	res := w.Result()

	access := findCookie(t, res, AccessTokenCookie)
	assert.Equal(t, "acc", access.Value)
	assert.Equal(t, 900, access.MaxAge)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := findCookie(t, res, RefreshTokenCookie)
	assert.Equal(t, "ref", refresh.Value)
	assert.Equal(t, 604800, refresh.MaxAge)
}

func TestClearTokenCookies(t *testing.T) {
	w := httptest.NewRecorder()
	ClearTokenCookies(w, false)
	res := w.Result()

	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := findCookie(t, res, name)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestGetTokenCookies(t *testing.T) {
	req := httptest.NewRequest("POST", "/auth/token/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "ref-value"})
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "acc-value"})

	ref, err := GetRefreshTokenCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "ref-value", ref)

	acc, err := GetAccessTokenCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "acc-value", acc)
}

func TestGetRefreshTokenCookie_Missing(t *testing.T) {
	req := httptest.NewRequest("POST", "/auth/token/refresh", nil)
	_, err := GetRefreshTokenCookie(req)
	assert.Error(t, err)
}

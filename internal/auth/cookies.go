package auth

import (
	"net/http"
	"time"
)

// Cookie names for the token pair.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SetTokenCookies mirrors a freshly minted token pair into HttpOnly,
// SameSite=Strict cookies scoped to the whole path. secure should reflect
// the transport of the request being answered.
func SetTokenCookies(w http.ResponseWriter, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration, secure bool) {
	setTokenCookie(w, AccessTokenCookie, accessToken, int(accessTTL.Seconds()), secure)
	setTokenCookie(w, RefreshTokenCookie, refreshToken, int(refreshTTL.Seconds()), secure)
}

// ClearTokenCookies expires both token cookies.
func ClearTokenCookies(w http.ResponseWriter, secure bool) {
	setTokenCookie(w, AccessTokenCookie, "", -1, secure)
	setTokenCookie(w, RefreshTokenCookie, "", -1, secure)
}

func setTokenCookie(w http.ResponseWriter, name, value string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true, // never readable from script
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetAccessTokenCookie retrieves the access token from cookies.
func GetAccessTokenCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// GetRefreshTokenCookie retrieves the refresh token from cookies.
func GetRefreshTokenCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

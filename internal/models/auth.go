package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types embedded in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is one issued access/refresh pair. Both tokens carry the same
// jti so the session opened for the pair can be located from either token.
type TokenPair struct {
	JTI              string
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

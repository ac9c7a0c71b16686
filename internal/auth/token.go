package auth

import (
	"fmt"
	"time"

	"campusgate/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager signs and validates JWT token pairs.
type TokenManager struct {
	secret          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:          secret,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

// GeneratePair mints an access/refresh token pair for a user. Both tokens
// share one jti, which is the identifier the session registry is keyed by.
func (tm *TokenManager) GeneratePair(user *models.User) (*models.TokenPair, error) {
	jti := uuid.New().String()
	now := time.Now()

	accessExpiry := now.Add(tm.accessTokenTTL)
	refreshExpiry := now.Add(tm.refreshTokenTTL)

	access, err := tm.sign(models.TokenTypeAccess, user, jti, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := tm.sign(models.TokenTypeRefresh, user, jti, now, refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &models.TokenPair{
		JTI:              jti,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

func (tm *TokenManager) sign(tokenType string, user *models.User, jti string, issuedAt, expiresAt time.Time) (string, error) {
	claims := &models.TokenClaims{
		Type:     tokenType,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secret))
}

// ValidateToken verifies a token's signature and expiry and returns its
// claims. Revocation is a separate concern checked against the ledger.
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, models.ErrTokenInvalid
	}

	if claims.Type == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing type or jti", models.ErrTokenInvalid)
	}

	return claims, nil
}

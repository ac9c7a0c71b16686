package repositories

import (
	"context"
	"time"

	"campusgate/internal/auth"
	"campusgate/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRevocationRepository is the ledger of tokens that must no longer be
// honored. Entries are keyed by the SHA-256 digest of the exact token
// string; a unique index on the digest makes revocation insert-once.
type TokenRevocationRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRevocationRepository(db *database.DB) *TokenRevocationRepository {
	return &TokenRevocationRepository{pool: db.Pool}
}

// Revoke inserts a ledger entry expiring ttl from now. Revoking a token
// that is already revoked is not an error.
func (r *TokenRevocationRepository) Revoke(ctx context.Context, token string, ttl time.Duration, reason string) error {
	query := `
		INSERT INTO revoked_tokens (token_digest, expires_at, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_digest) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, auth.TokenDigest(token), time.Now().Add(ttl), reason)
	return database.MapPostgresError(err)
}

// RevokeOnce inserts a ledger entry and reports whether this call created
// it. A false return means the token was already in the ledger — the
// compare-and-swap the refresh path relies on to make a refresh token
// usable at most once under concurrent requests.
func (r *TokenRevocationRepository) RevokeOnce(ctx context.Context, token string, ttl time.Duration, reason string) (bool, error) {
	query := `
		INSERT INTO revoked_tokens (token_digest, expires_at, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_digest) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, auth.TokenDigest(token), time.Now().Add(ttl), reason)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return result.RowsAffected() == 1, nil
}

// IsRevoked checks a token against the ledger by exact string match.
func (r *TokenRevocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_digest = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, auth.TokenDigest(token)).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

// DeleteExpired removes ledger entries whose expiry has passed. Once a
// token is past its own expiry the signature check rejects it anyway.
func (r *TokenRevocationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < $1`

	result, err := r.pool.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

package repositories

import (
	"context"
	"time"

	"campusgate/internal/database"
	"campusgate/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginAttemptRepository is the persisted ledger of authentication tries.
// Rows are append-only; rate-limit decisions are point-in-time counts.
type LoginAttemptRepository struct {
	pool *pgxpool.Pool
}

func NewLoginAttemptRepository(db *database.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{pool: db.Pool}
}

// Record appends one login attempt.
func (r *LoginAttemptRepository) Record(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (username, ip_address, user_agent, success, failure_reason)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		attempt.Username,
		attempt.IPAddress,
		attempt.UserAgent,
		attempt.Success,
		attempt.FailureReason,
	)
	return database.MapPostgresError(err)
}

// CountRecentFailuresByIP returns the number of failed attempts from an
// address since the given time. Successes are not counted and never reset
// the window.
func (r *LoginAttemptRepository) CountRecentFailuresByIP(ctx context.Context, ipAddress string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE ip_address = $1 AND success = false AND attempted_at >= $2
	`

	var count int
	err := r.pool.QueryRow(ctx, query, ipAddress, since).Scan(&count)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

// DeleteOlderThan removes attempts past the retention window.
func (r *LoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM login_attempts WHERE attempted_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

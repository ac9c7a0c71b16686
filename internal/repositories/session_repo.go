package repositories

import (
	"context"
	"fmt"
	"time"

	"campusgate/internal/database"
	"campusgate/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository tracks live authenticated clients, one row per issued
// token pair keyed by the pair's jti.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{pool: db.Pool}
}

const sessionColumns = `id, user_id, token_jti, ip_address, user_agent, device_name, is_active, created_at, last_activity`

func scanSessionRow(scanner rowScanner) (*models.Session, error) {
	var s models.Session
	err := scanner.Scan(
		&s.ID, &s.UserID, &s.TokenJTI, &s.IPAddress, &s.UserAgent,
		&s.DeviceName, &s.IsActive, &s.CreatedAt, &s.LastActivity,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

func scanSessionRows(rows pgx.Rows) ([]*models.Session, error) {
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		s, err := scanSessionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	return sessions, nil
}

// Create opens a session. The unique index on token_jti guarantees two
// sessions never share a token identifier.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	query := `
		INSERT INTO sessions (user_id, token_jti, ip_address, user_agent, device_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + sessionColumns

	return scanSessionRow(r.pool.QueryRow(ctx, query,
		session.UserID, session.TokenJTI, session.IPAddress, session.UserAgent, session.DeviceName,
	))
}

// ListByUser returns a user's sessions, most recent activity first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = $1 ORDER BY last_activity DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	return scanSessionRows(rows)
}

// TouchActivity bumps last_activity for the session with the given jti.
func (r *SessionRepository) TouchActivity(ctx context.Context, jti string) error {
	query := `UPDATE sessions SET last_activity = NOW() WHERE token_jti = $1`

	_, err := r.pool.Exec(ctx, query, jti)
	return database.MapPostgresError(err)
}

// DeleteByJTI closes the session tied to a token identifier. Rotation is
// delete-then-create, so a missing row is not an error.
func (r *SessionRepository) DeleteByJTI(ctx context.Context, jti string) error {
	query := `DELETE FROM sessions WHERE token_jti = $1`

	_, err := r.pool.Exec(ctx, query, jti)
	return database.MapPostgresError(err)
}

// DeleteByUser closes every session for a user and returns how many were
// removed.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM sessions WHERE user_id = $1`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

// DeleteByIDAndUser closes one session only if it belongs to the given
// user. The ownership check and the delete are one statement, so a caller
// can never remove another user's session.
func (r *SessionRepository) DeleteByIDAndUser(ctx context.Context, sessionID, userID string) (bool, error) {
	query := `DELETE FROM sessions WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, sessionID, userID)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return result.RowsAffected() == 1, nil
}

// DeleteCreatedBefore removes sessions older than the cutoff regardless of
// activity; sessions cannot outlive their refresh token's lifetime.
func (r *SessionRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

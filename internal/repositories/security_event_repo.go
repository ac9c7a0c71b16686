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

// SecurityEventRepository is the append-only audit trail of
// security-relevant occurrences.
type SecurityEventRepository struct {
	pool *pgxpool.Pool
}

func NewSecurityEventRepository(db *database.DB) *SecurityEventRepository {
	return &SecurityEventRepository{pool: db.Pool}
}

const securityEventColumns = `id, user_id, event_type, ip_address, user_agent, description, severity, created_at`

func scanSecurityEventRow(scanner rowScanner) (*models.SecurityEvent, error) {
	var e models.SecurityEvent
	err := scanner.Scan(
		&e.ID, &e.UserID, &e.EventType, &e.IPAddress, &e.UserAgent,
		&e.Description, &e.Severity, &e.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &e, nil
}

func scanSecurityEventRows(rows pgx.Rows) ([]*models.SecurityEvent, error) {
	defer rows.Close()

	events := make([]*models.SecurityEvent, 0)
	for rows.Next() {
		e, err := scanSecurityEventRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security event rows: %w", err)
	}

	return events, nil
}

// Create appends one immutable event record.
func (r *SecurityEventRepository) Create(ctx context.Context, event *models.SecurityEvent) error {
	query := `
		INSERT INTO security_events (user_id, event_type, ip_address, user_agent, description, severity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		event.UserID, event.EventType, event.IPAddress, event.UserAgent,
		event.Description, event.Severity,
	)
	return database.MapPostgresError(err)
}

// ListRecent returns events newest first.
func (r *SecurityEventRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error) {
	query := `SELECT ` + securityEventColumns + ` FROM security_events ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query security events: %w", err)
	}

	return scanSecurityEventRows(rows)
}

// DeleteOlderThan removes events past the retention window.
func (r *SecurityEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM security_events WHERE created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logsift/logsift/internal/models"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool and verifies it with a ping.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// SaveLogs appends all records inside one transaction. A failure on any
// row rolls the whole batch back.
func (s *PostgresStore) SaveLogs(ctx context.Context, records []models.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin log batch: %w", err)
	}
	defer tx.Rollback(ctx)

	processedAt := time.Now()
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO logs (timestamp, ip, username, event_type, processed_at)
			VALUES ($1, $2, $3, $4, $5)
		`, r.Timestamp, r.IP, r.Username, r.EventType, processedAt)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert logs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit log batch: %w", err)
	}
	return nil
}

// SaveAlerts appends all alerts inside one transaction.
func (s *PostgresStore) SaveAlerts(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin alert batch: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, a := range alerts {
		batch.Queue(`
			INSERT INTO alerts (alert_type, description, severity, timestamp)
			VALUES ($1, $2, $3, $4)
		`, a.Type, a.Description, a.Severity, a.Timestamp)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert alerts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit alert batch: %w", err)
	}
	return nil
}

// ListLogs returns stored logs newest first.
func (s *PostgresStore) ListLogs(ctx context.Context, limit int) ([]models.StoredLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, timestamp, ip, username, event_type, processed_at
		FROM logs
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	logs := []models.StoredLog{}
	for rows.Next() {
		var l models.StoredLog
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.IP, &l.Username, &l.EventType, &l.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return logs, nil
}

// ListAlerts returns stored alerts newest first.
func (s *PostgresStore) ListAlerts(ctx context.Context, limit int) ([]models.StoredAlert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, alert_type, description, severity, timestamp
		FROM alerts
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.StoredAlert{}
	for rows.Next() {
		var a models.StoredAlert
		if err := rows.Scan(&a.ID, &a.Type, &a.Description, &a.Severity, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return alerts, nil
}

// CountLogs returns the total stored log count.
func (s *PostgresStore) CountLogs(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM logs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}

// CountDistinct counts distinct IPs or usernames. The field name selects a
// fixed query; it is never interpolated.
func (s *PostgresStore) CountDistinct(ctx context.Context, field string) (int, error) {
	var query string
	switch field {
	case FieldIP:
		query = `SELECT COUNT(DISTINCT ip) FROM logs`
	case FieldUsername:
		query = `SELECT COUNT(DISTINCT username) FROM logs`
	default:
		return 0, ErrBadField
	}

	var count int
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct %s: %w", field, err)
	}
	return count, nil
}

// CountAlertsBySeverity groups alert counts by severity.
func (s *PostgresStore) CountAlertsBySeverity(ctx context.Context) (map[models.Severity]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT severity, COUNT(*)
		FROM alerts
		GROUP BY severity
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count alerts by severity: %w", err)
	}
	defer rows.Close()

	counts := map[models.Severity]int{}
	for rows.Next() {
		var severity models.Severity
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan severity count: %w", err)
		}
		counts[severity] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return counts, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

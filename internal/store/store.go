// Package store provides append-only persistence for log records and
// alerts. Rows are never updated or deleted once written; the audit trail
// only grows.
package store

import (
	"context"
	"errors"

	"github.com/logsift/logsift/internal/models"
)

var (
	// ErrBadField is returned by CountDistinct for fields that are not
	// part of the distinct-count contract.
	ErrBadField = errors.New("unsupported distinct field")
)

// Distinct-countable log fields.
const (
	FieldIP       = "ip"
	FieldUsername = "username"
)

// Store defines append-only persistence plus the aggregate queries served
// by the read API. Batch writes are all-or-nothing: a failed append leaves
// no partial rows behind.
type Store interface {
	// SaveLogs appends records, stamping each with the current time as
	// its processed_at.
	SaveLogs(ctx context.Context, records []models.LogRecord) error

	// SaveAlerts appends alerts.
	SaveAlerts(ctx context.Context, alerts []models.Alert) error

	// ListLogs returns the most recently processed logs, newest first,
	// capped at limit.
	ListLogs(ctx context.Context, limit int) ([]models.StoredLog, error)

	// ListAlerts returns the most recent alerts, newest first, capped
	// at limit.
	ListAlerts(ctx context.Context, limit int) ([]models.StoredAlert, error)

	// CountLogs returns the total number of stored logs.
	CountLogs(ctx context.Context) (int, error)

	// CountDistinct counts distinct values of FieldIP or FieldUsername
	// across stored logs. Null IPs do not count as a value.
	CountDistinct(ctx context.Context, field string) (int, error)

	// CountAlertsBySeverity groups stored alert counts by severity.
	CountAlertsBySeverity(ctx context.Context) (map[models.Severity]int, error)

	// Close releases the underlying resources.
	Close()
}

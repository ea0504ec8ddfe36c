package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/internal/models"
)

func strptr(s string) *string { return &s }

func TestMemoryStoreSaveLogsStampsProcessedAt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	before := time.Now()
	err := s.SaveLogs(ctx, []models.LogRecord{
		{Timestamp: "2024-01-01T10:00:00", IP: strptr("10.0.0.1"), Username: "alice", EventType: "login"},
	})
	require.NoError(t, err)

	logs, err := s.ListLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	assert.False(t, logs[0].ProcessedAt.Before(before))
	assert.Equal(t, "alice", logs[0].Username)
	require.NotNil(t, logs[0].IP)
	assert.Equal(t, "10.0.0.1", *logs[0].IP)
}

func TestMemoryStoreListLogsNewestFirstCapped(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var records []models.LogRecord
	for i := 0; i < 5; i++ {
		records = append(records, models.LogRecord{
			Timestamp: "2024-01-01T10:00:00",
			Username:  string(rune('a' + i)),
			EventType: "login",
		})
	}
	require.NoError(t, s.SaveLogs(ctx, records))

	logs, err := s.ListLogs(ctx, 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "e", logs[0].Username)
	assert.Equal(t, "d", logs[1].Username)
	assert.Equal(t, "c", logs[2].Username)
}

func TestMemoryStoreListAlertsNewestFirstCapped(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	alerts := []models.Alert{
		{ID: "1", Type: models.AlertOffHoursActivity, Severity: models.SeverityLow, Timestamp: time.Now()},
		{ID: "2", Type: models.AlertExcessiveLogins, Severity: models.SeverityHigh, Timestamp: time.Now()},
		{ID: "3", Type: models.AlertAccountTargeting, Severity: models.SeverityMedium, Timestamp: time.Now()},
	}
	require.NoError(t, s.SaveAlerts(ctx, alerts))

	stored, err := s.ListAlerts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, models.AlertAccountTargeting, stored[0].Type)
	assert.Equal(t, models.AlertExcessiveLogins, stored[1].Type)
}

func TestMemoryStoreCountDistinct(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveLogs(ctx, []models.LogRecord{
		{Timestamp: "t", IP: strptr("10.0.0.1"), Username: "alice", EventType: "login"},
		{Timestamp: "t", IP: strptr("10.0.0.1"), Username: "bob", EventType: "login"},
		{Timestamp: "t", IP: strptr("10.0.0.2"), Username: "alice", EventType: "login"},
		{Timestamp: "t", IP: nil, Username: "carol", EventType: "login"},
	}))

	ips, err := s.CountDistinct(ctx, FieldIP)
	require.NoError(t, err)
	assert.Equal(t, 2, ips, "null IPs are not a distinct value")

	users, err := s.CountDistinct(ctx, FieldUsername)
	require.NoError(t, err)
	assert.Equal(t, 3, users)

	_, err = s.CountDistinct(ctx, "event_type")
	assert.ErrorIs(t, err, ErrBadField)
}

func TestMemoryStoreCountAlertsBySeverity(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveAlerts(ctx, []models.Alert{
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityLow},
	}))

	counts, err := s.CountAlertsBySeverity(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.Severity]int{
		models.SeverityHigh: 2,
		models.SeverityLow:  1,
	}, counts)

	total, err := s.CountLogs(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemoryStoreAppendOnlyGrowth(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveLogs(ctx, []models.LogRecord{{Timestamp: "t", Username: "a", EventType: "e"}}))
	require.NoError(t, s.SaveLogs(ctx, []models.LogRecord{{Timestamp: "t", Username: "b", EventType: "e"}}))

	count, err := s.CountLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	logs, err := s.ListLogs(ctx, 10)
	require.NoError(t, err)
	assert.Greater(t, logs[0].ID, logs[1].ID, "IDs keep increasing across batches")
}

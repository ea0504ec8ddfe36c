package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/internal/metrics"
	"github.com/logsift/logsift/internal/models"
	"github.com/logsift/logsift/internal/store"
)

func seededStore(t *testing.T, logCount, alertCount int) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()

	var records []models.LogRecord
	for i := 0; i < logCount; i++ {
		ip := fmt.Sprintf("10.0.0.%d", i%10)
		records = append(records, models.LogRecord{
			Timestamp: "2024-01-01T10:00:00",
			IP:        &ip,
			Username:  fmt.Sprintf("user%d", i%4),
			EventType: "login",
		})
	}
	require.NoError(t, s.SaveLogs(ctx, records))

	var alerts []models.Alert
	for i := 0; i < alertCount; i++ {
		severity := models.SeverityLow
		if i%3 == 0 {
			severity = models.SeverityHigh
		}
		alerts = append(alerts, models.Alert{
			ID:          fmt.Sprintf("a%d", i),
			Type:        models.AlertOffHoursActivity,
			Description: "test",
			Severity:    severity,
			Timestamp:   time.Now(),
		})
	}
	require.NoError(t, s.SaveAlerts(ctx, alerts))
	return s
}

func doGet(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListLogsCappedAt100(t *testing.T) {
	mux := Router(NewHandler(seededStore(t, 150, 0), logging.Default()), nil)

	rec := doGet(t, mux, "/api/v1/logs")
	require.Equal(t, http.StatusOK, rec.Code)

	var logs []models.StoredLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	assert.Len(t, logs, LogsLimit)

	// Most recent first.
	assert.Greater(t, logs[0].ID, logs[1].ID)
}

func TestListAlertsCappedAt50(t *testing.T) {
	mux := Router(NewHandler(seededStore(t, 0, 80), logging.Default()), nil)

	rec := doGet(t, mux, "/api/v1/alerts")
	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []models.StoredAlert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	assert.Len(t, alerts, AlertsLimit)
}

func TestStats(t *testing.T) {
	mux := Router(NewHandler(seededStore(t, 20, 6), logging.Default()), nil)

	rec := doGet(t, mux, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	assert.Equal(t, 20, stats.LogCount)
	assert.Equal(t, 10, stats.UniqueIPs)
	assert.Equal(t, 4, stats.UniqueUsers)
	assert.Equal(t, 2, stats.SeverityCounts[models.SeverityHigh])
	assert.Equal(t, 4, stats.SeverityCounts[models.SeverityLow])
}

func TestStatsPayloadKeys(t *testing.T) {
	mux := Router(NewHandler(seededStore(t, 1, 0), logging.Default()), nil)

	rec := doGet(t, mux, "/api/v1/stats")
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	for _, key := range []string{"log_count", "severity_counts", "unique_ips", "unique_users"} {
		assert.Contains(t, payload, key)
	}
}

func TestReadAPIRejectsWrites(t *testing.T) {
	mux := Router(NewHandler(seededStore(t, 0, 0), logging.Default()), nil)

	for _, path := range []string{"/api/v1/logs", "/api/v1/alerts", "/api/v1/stats"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestHealthCheck(t *testing.T) {
	mux := Router(NewHandler(store.NewMemoryStore(), logging.Default()), metrics.New())

	rec := doGet(t, mux, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = doGet(t, mux, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

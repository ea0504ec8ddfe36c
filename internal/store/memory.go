package store

import (
	"context"
	"sync"
	"time"

	"github.com/logsift/logsift/internal/models"
)

// MemoryStore implements Store on mutex-guarded slices. It backs tests and
// the --store memory development mode; semantics match PostgresStore.
type MemoryStore struct {
	mu     sync.RWMutex
	logs   []models.StoredLog
	alerts []models.StoredAlert
	nextID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) SaveLogs(ctx context.Context, records []models.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	processedAt := time.Now()
	for _, r := range records {
		s.logs = append(s.logs, models.StoredLog{
			ID:          s.nextID,
			Timestamp:   r.Timestamp,
			IP:          r.IP,
			Username:    r.Username,
			EventType:   r.EventType,
			ProcessedAt: processedAt,
		})
		s.nextID++
	}
	return nil
}

func (s *MemoryStore) SaveAlerts(ctx context.Context, alerts []models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range alerts {
		s.alerts = append(s.alerts, models.StoredAlert{
			ID:          s.nextID,
			Type:        a.Type,
			Description: a.Description,
			Severity:    a.Severity,
			Timestamp:   a.Timestamp,
		})
		s.nextID++
	}
	return nil
}

func (s *MemoryStore) ListLogs(ctx context.Context, limit int) ([]models.StoredLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := []models.StoredLog{}
	for i := len(s.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		logs = append(logs, s.logs[i])
	}
	return logs, nil
}

func (s *MemoryStore) ListAlerts(ctx context.Context, limit int) ([]models.StoredAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := []models.StoredAlert{}
	for i := len(s.alerts) - 1; i >= 0 && len(alerts) < limit; i-- {
		alerts = append(alerts, s.alerts[i])
	}
	return alerts, nil
}

func (s *MemoryStore) CountLogs(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs), nil
}

func (s *MemoryStore) CountDistinct(ctx context.Context, field string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	switch field {
	case FieldIP:
		for _, l := range s.logs {
			if l.IP != nil {
				seen[*l.IP] = struct{}{}
			}
		}
	case FieldUsername:
		for _, l := range s.logs {
			seen[l.Username] = struct{}{}
		}
	default:
		return 0, ErrBadField
	}
	return len(seen), nil
}

func (s *MemoryStore) CountAlertsBySeverity(ctx context.Context) (map[models.Severity]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[models.Severity]int{}
	for _, a := range s.alerts {
		counts[a.Severity]++
	}
	return counts, nil
}

func (s *MemoryStore) Close() {}

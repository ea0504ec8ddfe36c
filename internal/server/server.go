// Package server exposes the read-only dashboard API over stored logs and
// alerts. It carries no business logic and never writes to the store.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/internal/metrics"
	"github.com/logsift/logsift/internal/store"
)

// Caps on list endpoints, matching the dashboard contract.
const (
	LogsLimit   = 100
	AlertsLimit = 50
)

// Handler serves the read API.
type Handler struct {
	store  store.Store
	logger *logging.Logger
}

// NewHandler creates a read API handler over the store.
func NewHandler(s store.Store, logger *logging.Logger) *Handler {
	return &Handler{store: s, logger: logger}
}

// Router builds the HTTP mux for the read API.
func Router(h *Handler, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.HealthCheck)
	mux.HandleFunc("/api/v1/logs", h.ListLogs)
	mux.HandleFunc("/api/v1/alerts", h.ListAlerts)
	mux.HandleFunc("/api/v1/stats", h.Stats)
	if m != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}

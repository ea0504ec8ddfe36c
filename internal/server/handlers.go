package server

import (
	"net/http"

	"github.com/logsift/logsift/internal/httputil"
	"github.com/logsift/logsift/internal/models"
	"github.com/logsift/logsift/internal/store"
)

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListLogs handles GET /api/v1/logs: most recent logs first, capped at 100.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	logs, err := h.store.ListLogs(r.Context(), LogsLimit)
	if err != nil {
		h.logger.Error("failed to list logs", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, logs)
}

// ListAlerts handles GET /api/v1/alerts: most recent alerts first, capped
// at 50.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	alerts, err := h.store.ListAlerts(r.Context(), AlertsLimit)
	if err != nil {
		h.logger.Error("failed to list alerts", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alerts)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()

	logCount, err := h.store.CountLogs(ctx)
	if err != nil {
		h.logger.Error("failed to count logs", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	severityCounts, err := h.store.CountAlertsBySeverity(ctx)
	if err != nil {
		h.logger.Error("failed to count alerts", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	uniqueIPs, err := h.store.CountDistinct(ctx, store.FieldIP)
	if err != nil {
		h.logger.Error("failed to count distinct IPs", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	uniqueUsers, err := h.store.CountDistinct(ctx, store.FieldUsername)
	if err != nil {
		h.logger.Error("failed to count distinct usernames", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.StatsResponse{
		LogCount:       logCount,
		SeverityCounts: severityCounts,
		UniqueIPs:      uniqueIPs,
		UniqueUsers:    uniqueUsers,
	})
}

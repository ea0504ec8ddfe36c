package notify

import (
	"context"
	"time"

	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/internal/metrics"
	"github.com/logsift/logsift/internal/models"
)

// DefaultDispatchTimeout bounds each alert's delivery so a slow external
// service cannot stall the run.
const DefaultDispatchTimeout = 10 * time.Second

// Router dispatches alerts to sinks by severity: HIGH goes to email and
// webhook, MEDIUM to webhook only, LOW is recorded locally.
type Router struct {
	email   Sink
	webhook Sink
	local   Sink
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewRouter creates a severity router. Nil email or webhook sinks are
// skipped at dispatch time (unconfigured channels, not failures). local
// must not be nil.
func NewRouter(email, webhook, local Sink, timeout time.Duration, logger *logging.Logger, m *metrics.Metrics) *Router {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &Router{
		email:   email,
		webhook: webhook,
		local:   local,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

// Dispatch routes every alert. Sink failures are logged and counted, never
// returned: notification is best-effort and must not fail the run.
func (r *Router) Dispatch(ctx context.Context, alerts []models.Alert) {
	for _, alert := range alerts {
		r.dispatchOne(ctx, alert)
	}
}

func (r *Router) dispatchOne(ctx context.Context, alert models.Alert) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch alert.Severity {
	case models.SeverityHigh:
		r.send(ctx, r.email, alert)
		r.send(ctx, r.webhook, alert)
	case models.SeverityMedium:
		r.send(ctx, r.webhook, alert)
	default:
		r.send(ctx, r.local, alert)
	}
}

func (r *Router) send(ctx context.Context, sink Sink, alert models.Alert) {
	if sink == nil {
		return
	}
	if err := sink.Send(ctx, alert); err != nil {
		r.logger.Warn("notification failed",
			"sink", sink.Type(),
			"alert_type", alert.Type,
			"error", err)
		if r.metrics != nil {
			r.metrics.NotificationsFailed.WithLabelValues(sink.Type()).Inc()
		}
		return
	}
	if r.metrics != nil {
		r.metrics.NotificationsSent.WithLabelValues(sink.Type()).Inc()
	}
}

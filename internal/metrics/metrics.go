// Package metrics exposes Prometheus counters for pipeline runs and
// notification delivery.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline counters and the registry they live on.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsProcessed    prometheus.Counter
	AlertsGenerated     *prometheus.CounterVec
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	RunsFailed          prometheus.Counter
}

// New creates and registers the pipeline metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logsift_records_processed_total",
			Help: "Normalized log records persisted.",
		}),
		AlertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logsift_alerts_generated_total",
			Help: "Alerts produced by detectors.",
		}, []string{"alert_type"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logsift_notifications_sent_total",
			Help: "Alert notifications delivered, by sink.",
		}, []string{"sink"}),
		NotificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logsift_notifications_failed_total",
			Help: "Alert notifications that failed to deliver, by sink.",
		}, []string{"sink"}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logsift_runs_failed_total",
			Help: "Pipeline runs aborted by a persistence failure.",
		}),
	}

	registry.MustRegister(
		m.RecordsProcessed,
		m.AlertsGenerated,
		m.NotificationsSent,
		m.NotificationsFailed,
		m.RunsFailed,
	)
	return m
}

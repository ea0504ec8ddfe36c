// Package detect runs rule-based detectors over a batch of normalized log
// records and produces alerts.
package detect

import (
	"time"

	"github.com/google/uuid"

	"github.com/logsift/logsift/internal/models"
)

// Detector maps a batch of records to zero or more alerts. Implementations
// read the batch but never mutate it, and keep no state between calls, so
// registration order does not affect the result set.
type Detector interface {
	Name() string
	Detect(records []models.LogRecord) []models.Alert
}

// Engine holds the registered detectors and runs each one over the same
// batch, concatenating their alerts.
type Engine struct {
	detectors []Detector
}

// NewEngine creates an engine with the provided detectors.
func NewEngine(detectors ...Detector) *Engine {
	return &Engine{detectors: detectors}
}

// Register appends a detector to the engine.
func (e *Engine) Register(d Detector) {
	e.detectors = append(e.detectors, d)
}

// Run evaluates every registered detector against records.
func (e *Engine) Run(records []models.LogRecord) []models.Alert {
	var alerts []models.Alert
	for _, d := range e.detectors {
		alerts = append(alerts, d.Detect(records)...)
	}
	return alerts
}

// newAlert stamps a fresh alert with an ID and the generation time.
func newAlert(alertType models.AlertType, severity models.Severity, description string) models.Alert {
	id, _ := uuid.NewV7()
	return models.Alert{
		ID:          id.String(),
		Type:        alertType,
		Description: description,
		Severity:    severity,
		Timestamp:   time.Now(),
	}
}

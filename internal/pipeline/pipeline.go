// Package pipeline drives one batch through normalization, persistence,
// detection and notification, in that fixed order.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/logsift/logsift/internal/detect"
	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/internal/metrics"
	"github.com/logsift/logsift/internal/models"
	"github.com/logsift/logsift/internal/normalize"
	"github.com/logsift/logsift/internal/notify"
	"github.com/logsift/logsift/internal/store"
)

// Dispatcher routes persisted alerts to notification sinks.
type Dispatcher interface {
	Dispatch(ctx context.Context, alerts []models.Alert)
}

// Summary reports what one run processed.
type Summary struct {
	Records int
	Alerts  int
}

// Pipeline orchestrates a single synchronous batch run. A mutex serializes
// overlapping Run calls so the store only ever sees one writer.
type Pipeline struct {
	mu      sync.Mutex
	store   store.Store
	engine  *detect.Engine
	router  Dispatcher
	logger  *logging.Logger
	metrics *metrics.Metrics

	// DumpPath, when set, receives the normalized batch as a JSON array
	// before persistence.
	DumpPath string
}

// New assembles a pipeline.
func New(s store.Store, engine *detect.Engine, router Dispatcher, logger *logging.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		store:   s,
		engine:  engine,
		router:  router,
		logger:  logger,
		metrics: m,
	}
}

// Run processes the batch file at inputPath start to finish. Only an
// unreadable input file or a persistence failure makes Run return an
// error; malformed batches and notification failures are recovered and
// logged.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("read input file: %w", err)
	}

	records, err := normalize.Batch(data)
	if err != nil {
		if errors.Is(err, normalize.ErrUnsupportedFormat) {
			// Nothing to persist or detect; the run still completes.
			p.logger.Warn("unsupported batch format, yielding empty batch", "input", inputPath)
			return Summary{}, nil
		}
		p.logger.Warn("malformed batch document, yielding empty batch", "input", inputPath, "error", err)
		return Summary{}, nil
	}

	p.logger.Info("normalized batch", "input", inputPath, "records", len(records))

	if p.DumpPath != "" {
		if err := p.dumpNormalized(records); err != nil {
			p.logger.Warn("failed to write normalized artifact", "path", p.DumpPath, "error", err)
		}
	}

	if err := p.store.SaveLogs(ctx, records); err != nil {
		p.metrics.RunsFailed.Inc()
		return Summary{}, fmt.Errorf("persist logs: %w", err)
	}
	p.metrics.RecordsProcessed.Add(float64(len(records)))

	alerts := p.engine.Run(records)
	for _, a := range alerts {
		p.metrics.AlertsGenerated.WithLabelValues(string(a.Type)).Inc()
	}
	p.logger.Info("detection complete", "alerts", len(alerts))

	if err := p.store.SaveAlerts(ctx, alerts); err != nil {
		p.metrics.RunsFailed.Inc()
		return Summary{}, fmt.Errorf("persist alerts: %w", err)
	}

	p.router.Dispatch(ctx, alerts)

	return Summary{Records: len(records), Alerts: len(alerts)}, nil
}

func (p *Pipeline) dumpNormalized(records []models.LogRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.DumpPath, data, 0o644)
}

var _ Dispatcher = (*notify.Router)(nil)

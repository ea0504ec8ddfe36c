package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logsift/logsift/internal/detect"
	"github.com/logsift/logsift/internal/metrics"
	"github.com/logsift/logsift/internal/notify"
	"github.com/logsift/logsift/internal/pipeline"
)

var dumpNormalized string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the analysis pipeline over one batch file",
	Long: `Reads a raw JSON batch, normalizes every entry, persists the records,
runs the anomaly detectors and dispatches the resulting alerts.

Exits non-zero only when persistence fails; malformed input and
notification failures are recovered and logged.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&dumpNormalized, "dump-normalized", "",
		"write the normalized batch to this path as a JSON array")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	m := metrics.New()

	engine := detect.NewEngine(
		&detect.LoginDetector{
			Threshold: cfg.Detect.LoginThreshold,
			Window:    cfg.Detect.LoginWindow,
		},
		&detect.OffHoursDetector{
			Start:  cfg.Detect.BusinessStart,
			End:    cfg.Detect.BusinessEnd,
			Logger: logger,
		},
	)

	router := notify.NewRouter(
		emailSink(), webhookSink(), notify.NewLogSink(logger),
		cfg.Notify.DispatchTimeout, logger, m,
	)

	p := pipeline.New(st, engine, router, logger, m)
	p.DumpPath = dumpNormalized

	summary, err := p.Run(ctx, args[0])
	if err != nil {
		return err
	}

	logger.Info("run complete", "records", summary.Records, "alerts", summary.Alerts)
	fmt.Printf("Processed %d records, generated %d alerts.\n", summary.Records, summary.Alerts)
	return nil
}

// emailSink returns nil when no SMTP host is configured.
func emailSink() notify.Sink {
	if cfg.Notify.Email.Host == "" {
		return nil
	}
	return &notify.EmailSink{
		Host:     cfg.Notify.Email.Host,
		Port:     cfg.Notify.Email.Port,
		Username: cfg.Notify.Email.Username,
		Password: cfg.Notify.Email.Password,
		From:     cfg.Notify.Email.From,
		To:       cfg.Notify.Email.To,
	}
}

// webhookSink returns nil when no webhook URL is configured.
func webhookSink() notify.Sink {
	if cfg.Notify.Webhook.URL == "" {
		return nil
	}
	return notify.NewWebhookSink(cfg.Notify.Webhook.URL, cfg.Notify.DispatchTimeout)
}

package main

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/internal/store"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "logsift",
	Short: "Security log analysis pipeline",
	Long: `logsift normalizes heterogeneous security audit logs, persists them,
runs rule-based anomaly detectors and routes the resulting alerts to
notification channels by severity.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && logger != nil {
		logger.Error("command failed", "error", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
}

const migrationsSource = "file://migrations"

// openStore builds the configured store, running schema migrations first
// for the postgres backend. Migrations are idempotent: applying them to an
// existing schema is a no-op.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Database.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "postgres":
		connString := cfg.Database.Postgres.ConnString()

		m, err := migrate.New(migrationsSource, connString)
		if err != nil {
			return nil, fmt.Errorf("initialize migrations: %w", err)
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		return store.NewPostgresStore(ctx, connString)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Database.Backend)
	}
}

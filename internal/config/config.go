// Package config loads logsift configuration from an optional file and
// LOGSIFT_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the analyzer and read API.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Detect   DetectConfig   `mapstructure:"detect"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration for the read API.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds store configuration.
type DatabaseConfig struct {
	// Backend selects "postgres" or "memory".
	Backend  string         `mapstructure:"backend"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds the PostgreSQL connection string.
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

// DetectConfig tunes the detection rules.
type DetectConfig struct {
	LoginThreshold int           `mapstructure:"login_threshold"`
	LoginWindow    time.Duration `mapstructure:"login_window"`
	BusinessStart  int           `mapstructure:"business_start"`
	BusinessEnd    int           `mapstructure:"business_end"`
}

// NotifyConfig holds notification sink settings. Empty email host or
// webhook URL leaves that sink unconfigured.
type NotifyConfig struct {
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
	Email           EmailConfig   `mapstructure:"email"`
	Webhook         WebhookConfig `mapstructure:"webhook"`
}

// EmailConfig holds SMTP settings for the email sink.
type EmailConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// WebhookConfig holds the chat webhook settings.
type WebhookConfig struct {
	URL string `mapstructure:"url"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("database.backend", "postgres")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "logsift")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.database", "logsift")
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("detect.login_threshold", 3)
	v.SetDefault("detect.login_window", "0s")
	v.SetDefault("detect.business_start", 9)
	v.SetDefault("detect.business_end", 17)

	v.SetDefault("notify.dispatch_timeout", "10s")
	v.SetDefault("notify.email.port", 587)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read from config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override file config
	v.SetEnvPrefix("LOGSIFT")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

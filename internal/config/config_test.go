package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)

	assert.Equal(t, "postgres", cfg.Database.Backend)
	assert.Equal(t, "localhost", cfg.Database.Postgres.Host)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)

	assert.Equal(t, 3, cfg.Detect.LoginThreshold)
	assert.Equal(t, time.Duration(0), cfg.Detect.LoginWindow)
	assert.Equal(t, 9, cfg.Detect.BusinessStart)
	assert.Equal(t, 17, cfg.Detect.BusinessEnd)

	assert.Equal(t, 10*time.Second, cfg.Notify.DispatchTimeout)
	assert.Equal(t, 587, cfg.Notify.Email.Port)
	assert.Empty(t, cfg.Notify.Email.Host)
	assert.Empty(t, cfg.Notify.Webhook.URL)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090

database:
  backend: memory
  postgres:
    host: testhost
    port: 5433

detect:
  login_threshold: 5
  login_window: 1h

notify:
  dispatch_timeout: 3s
  webhook:
    url: https://hooks.example.com/T000/B000
  email:
    host: smtp.example.com
    from: alerts@example.com
    to:
      - secops@example.com

logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Backend)
	assert.Equal(t, "testhost", cfg.Database.Postgres.Host)
	assert.Equal(t, 5433, cfg.Database.Postgres.Port)

	assert.Equal(t, 5, cfg.Detect.LoginThreshold)
	assert.Equal(t, time.Hour, cfg.Detect.LoginWindow)

	assert.Equal(t, 3*time.Second, cfg.Notify.DispatchTimeout)
	assert.Equal(t, "https://hooks.example.com/T000/B000", cfg.Notify.Webhook.URL)
	assert.Equal(t, "smtp.example.com", cfg.Notify.Email.Host)
	assert.Equal(t, []string{"secops@example.com"}, cfg.Notify.Email.To)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConnString(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "logsift", Password: "s3cret",
		Database: "logsift", SSLMode: "disable",
	}
	assert.Equal(t,
		"postgres://logsift:s3cret@db:5432/logsift?sslmode=disable",
		p.ConnString())
}

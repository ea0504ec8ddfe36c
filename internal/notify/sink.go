// Package notify routes alerts to notification sinks by severity.
// Delivery is best-effort: a sink failure is logged and counted but never
// fails the pipeline run that produced the alert.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/internal/models"
)

// Sink is an abstract notification destination.
type Sink interface {
	Send(ctx context.Context, alert models.Alert) error
	Type() string
}

// WebhookSink delivers alerts via HTTP POST to a chat webhook.
type WebhookSink struct {
	URL     string
	Timeout time.Duration
	client  *http.Client
}

// NewWebhookSink creates a webhook sink.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		URL:     url,
		Timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (w *WebhookSink) Type() string {
	return "webhook"
}

func (w *WebhookSink) Send(ctx context.Context, alert models.Alert) error {
	payload := map[string]any{
		"text": fmt.Sprintf("*SECURITY ALERT*\nType: %s\nDescription: %s\nSeverity: %s",
			alert.Type, alert.Description, alert.Severity),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "logsift/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// EmailSink delivers alerts over SMTP.
type EmailSink struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

func (e *EmailSink) Type() string {
	return "email"
}

func (e *EmailSink) Send(ctx context.Context, alert models.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", e.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(e.To, ", "))
	fmt.Fprintf(&msg, "Subject: Security Alert: %s\r\n", alert.Type)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "Alert: %s\nSeverity: %s\n", alert.Description, alert.Severity)

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	var auth smtp.Auth
	if e.Username != "" {
		auth = smtp.PlainAuth("", e.Username, e.Password, e.Host)
	}

	if err := smtp.SendMail(addr, auth, e.From, e.To, msg.Bytes()); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}

// LogSink records the alert through the logger only; no external call.
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(logger *logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) Type() string {
	return "log"
}

func (l *LogSink) Send(ctx context.Context, alert models.Alert) error {
	l.logger.Info("alert recorded",
		"alert_type", alert.Type,
		"severity", alert.Severity,
		"description", alert.Description)
	return nil
}

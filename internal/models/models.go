package models

import "time"

// Severity classifies an alert for notification routing.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// AlertType tags the detector rule that produced an alert.
type AlertType string

const (
	AlertExcessiveLogins  AlertType = "EXCESSIVE_LOGIN_ATTEMPTS"
	AlertAccountTargeting AlertType = "ACCOUNT_TARGETING"
	AlertOffHoursActivity AlertType = "OFF_HOURS_ACTIVITY"
)

// TimestampUnknown is the sentinel stored when a raw entry's timestamp
// cannot be parsed. Records carrying it are persisted but never evaluated
// by time-based detectors.
const TimestampUnknown = "Unknown"

// FieldUnknown is the default for identity and event-type fields that are
// absent from the raw entry. Entries are always filled, never dropped.
const FieldUnknown = "Unknown"

// LogRecord is the canonical form of one raw audit entry. Values are
// immutable once built; stages pass them by value.
type LogRecord struct {
	Timestamp   string     `json:"timestamp"`
	IP          *string    `json:"ip"`
	Username    string     `json:"username"`
	EventType   string     `json:"event_type"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Alert is a detector finding. Timestamp is the generation time, not the
// time of any underlying record.
type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"alert_type"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// StoredLog is a persisted log row as served by the read API.
type StoredLog struct {
	ID          int64     `json:"id"`
	Timestamp   string    `json:"timestamp"`
	IP          *string   `json:"ip"`
	Username    string    `json:"username"`
	EventType   string    `json:"event_type"`
	ProcessedAt time.Time `json:"processed_at"`
}

// StoredAlert is a persisted alert row as served by the read API.
type StoredAlert struct {
	ID          int64     `json:"id"`
	Type        AlertType `json:"alert_type"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatsResponse aggregates store counts for the dashboard. Key names match
// the historical stats payload consumed by the frontend.
type StatsResponse struct {
	LogCount       int              `json:"log_count"`
	SeverityCounts map[Severity]int `json:"severity_counts"`
	UniqueIPs      int              `json:"unique_ips"`
	UniqueUsers    int              `json:"unique_users"`
}

// Package normalize converts raw, schema-less audit entries into canonical
// LogRecords. Normalization is total: an entry that matches nothing still
// yields a record with "Unknown" fields, so no input is ever dropped.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/logsift/logsift/internal/models"
)

// ErrUnsupportedFormat is returned when the batch document is neither a
// top-level array nor an object with a "records" key.
var ErrUnsupportedFormat = errors.New("unsupported batch format")

// ipPattern matches the first dotted-quad-shaped token in an entry's JSON
// serialization. Octets are deliberately not range-checked: stored data was
// produced under this lenient match and tightening it would change which
// records existing rules tally.
var ipPattern = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

// Candidate keys probed in order; the first present key wins and later
// keys are never merged in.
var (
	identityKeys = []string{"user", "username", "userName", "account", "caller"}
	eventKeys    = []string{"eventType", "action", "event_name", "activity"}
)

// Timestamp layouts tried in order, each paired with the canonical output
// layout it re-serializes to. Zone-less inputs stay zone-less so that
// canonicalization never invents an offset the source did not carry.
var timestampLayouts = []struct {
	in  string
	out string
}{
	{time.RFC3339Nano, "2006-01-02T15:04:05.999999999Z07:00"},
	{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05.999999999"},
	{"2006-01-02 15:04:05", "2006-01-02T15:04:05"},
}

// Normalize builds a LogRecord from one raw entry. It never fails.
func Normalize(entry map[string]any) models.LogRecord {
	ts, ok := entry["time"]
	if !ok {
		ts = entry["timestamp"]
	}

	return models.LogRecord{
		Timestamp: NormalizeTimestamp(stringify(ts)),
		IP:        ExtractIP(entry),
		Username:  firstString(entry, identityKeys),
		EventType: firstString(entry, eventKeys),
	}
}

// ExtractIP scans the entry's JSON serialization for the first
// IPv4-shaped token. Returns nil when none is present.
func ExtractIP(entry map[string]any) *string {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil
	}
	match := ipPattern.Find(raw)
	if match == nil {
		return nil
	}
	ip := string(match)
	return &ip
}

// NormalizeTimestamp canonicalizes ts to ISO-8601, or returns the Unknown
// sentinel when no layout parses.
func NormalizeTimestamp(ts string) string {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout.in, ts)
		if err != nil {
			continue
		}
		return t.Format(layout.out)
	}
	return models.TimestampUnknown
}

// ParseTimestamp parses a canonical record timestamp back into a time
// value. The Unknown sentinel, like any other unparseable string, is an
// error.
func ParseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout.in, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", ts)
}

// ParseBatch decodes a raw batch document into its entries. The document
// may be a top-level array of objects or an object whose "records" key
// holds such an array.
func ParseBatch(data []byte) ([]map[string]any, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	switch v := root.(type) {
	case []any:
		return toEntries(v), nil
	case map[string]any:
		records, ok := v["records"].([]any)
		if !ok {
			return nil, ErrUnsupportedFormat
		}
		return toEntries(records), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Batch normalizes every entry of a raw batch document in order.
func Batch(data []byte) ([]models.LogRecord, error) {
	entries, err := ParseBatch(data)
	if err != nil {
		return nil, err
	}

	records := make([]models.LogRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, Normalize(entry))
	}
	return records, nil
}

func toEntries(items []any) []map[string]any {
	entries := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, m)
		} else {
			// Non-object entries still occupy a slot so every input
			// yields exactly one record.
			entries = append(entries, map[string]any{})
		}
	}
	return entries
}

func firstString(entry map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := entry[key]; ok {
			return stringify(v)
		}
	}
	return models.FieldUnknown
}

// stringify renders scalar field values the way they appeared in the
// source document. Nested structures fall back to Unknown rather than a
// Go-syntax dump.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return trimFloat(s)
	case bool:
		return fmt.Sprintf("%t", s)
	case nil:
		return models.FieldUnknown
	default:
		return models.FieldUnknown
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

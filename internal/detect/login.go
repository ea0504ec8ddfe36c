package detect

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/logsift/logsift/internal/models"
	"github.com/logsift/logsift/internal/normalize"
)

// DefaultLoginThreshold is the attempt count at which a source becomes
// alertable.
const DefaultLoginThreshold = 3

// LoginDetector flags sources and accounts with repeated login or auth
// activity. It tallies per IP and, separately, per username; each tally
// reaching the threshold produces its own alert, with no merging across
// qualifying values.
//
// Window == 0 tallies the entire batch. A positive Window anchors at the
// newest parseable timestamp in the batch and tallies only records inside
// [anchor-Window, anchor]; records whose timestamps did not parse carry no
// position in time and are left out of a windowed tally.
type LoginDetector struct {
	Threshold int
	Window    time.Duration
}

// NewLoginDetector creates a LoginDetector with the default threshold and
// no window.
func NewLoginDetector() *LoginDetector {
	return &LoginDetector{Threshold: DefaultLoginThreshold}
}

func (d *LoginDetector) Name() string {
	return "excessive_logins"
}

func (d *LoginDetector) Detect(records []models.LogRecord) []models.Alert {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultLoginThreshold
	}

	login := filterLoginEvents(records)
	if d.Window > 0 {
		login = windowRecords(login, d.Window)
	}

	ipCounts := map[string]int{}
	userCounts := map[string]int{}
	for _, r := range login {
		if r.IP != nil {
			ipCounts[*r.IP]++
		}
		userCounts[r.Username]++
	}

	var alerts []models.Alert
	for _, ip := range sortedKeys(ipCounts) {
		if count := ipCounts[ip]; count >= threshold {
			alerts = append(alerts, newAlert(
				models.AlertExcessiveLogins,
				models.SeverityHigh,
				fmt.Sprintf("Multiple login attempts (%d) from IP: %s", count, ip),
			))
		}
	}
	for _, username := range sortedKeys(userCounts) {
		if count := userCounts[username]; count >= threshold {
			alerts = append(alerts, newAlert(
				models.AlertAccountTargeting,
				models.SeverityMedium,
				fmt.Sprintf("Multiple login attempts (%d) for user: %s", count, username),
			))
		}
	}
	return alerts
}

func filterLoginEvents(records []models.LogRecord) []models.LogRecord {
	var login []models.LogRecord
	for _, r := range records {
		event := strings.ToLower(r.EventType)
		if strings.Contains(event, "login") || strings.Contains(event, "auth") {
			login = append(login, r)
		}
	}
	return login
}

// windowRecords keeps records whose timestamps fall within window of the
// newest parseable timestamp in the batch.
func windowRecords(records []models.LogRecord, window time.Duration) []models.LogRecord {
	type timed struct {
		record models.LogRecord
		at     time.Time
	}

	var parsed []timed
	var anchor time.Time
	for _, r := range records {
		at, err := normalize.ParseTimestamp(r.Timestamp)
		if err != nil {
			continue
		}
		parsed = append(parsed, timed{record: r, at: at})
		if at.After(anchor) {
			anchor = at
		}
	}

	cutoff := anchor.Add(-window)
	var kept []models.LogRecord
	for _, t := range parsed {
		if !t.at.Before(cutoff) {
			kept = append(kept, t.record)
		}
	}
	return kept
}

// sortedKeys makes alert ordering deterministic for a given batch.
func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

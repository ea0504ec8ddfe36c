package detect

import (
	"fmt"

	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/internal/models"
	"github.com/logsift/logsift/internal/normalize"
)

// Business hours bounds, local hour of day.
const (
	DefaultBusinessStart = 9
	DefaultBusinessEnd   = 17
)

// OffHoursDetector flags every record whose own timestamp falls outside
// business hours, one alert per record. The boundary check is asymmetric
// on purpose: hour 9 counts as business hours while hour 17 is already
// off-hours, and stored data depends on that exact split.
type OffHoursDetector struct {
	Start  int
	End    int
	Logger *logging.Logger
}

// NewOffHoursDetector creates an OffHoursDetector with the default
// business-hours interval.
func NewOffHoursDetector(logger *logging.Logger) *OffHoursDetector {
	return &OffHoursDetector{
		Start:  DefaultBusinessStart,
		End:    DefaultBusinessEnd,
		Logger: logger,
	}
}

func (d *OffHoursDetector) Name() string {
	return "off_hours_activity"
}

func (d *OffHoursDetector) Detect(records []models.LogRecord) []models.Alert {
	var alerts []models.Alert
	for _, r := range records {
		t, err := normalize.ParseTimestamp(r.Timestamp)
		if err != nil {
			// Unknown timestamps never trigger this detector.
			if d.Logger != nil {
				d.Logger.Debug("skipping record with unparseable timestamp",
					"timestamp", r.Timestamp, "username", r.Username)
			}
			continue
		}

		hour := t.Hour()
		if hour < d.Start || hour >= d.End {
			alerts = append(alerts, newAlert(
				models.AlertOffHoursActivity,
				models.SeverityLow,
				fmt.Sprintf("Activity detected outside business hours from %s at %s", r.Username, r.Timestamp),
			))
		}
	}
	return alerts
}

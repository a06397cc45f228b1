package market_hours

import (
	"fmt"
	"time"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// FormatDuration renders a countdown: "45m", "1h 30m", "2h", "1d 1h".
func FormatDuration(minutes int) (string, error) {
	if minutes < 0 {
		return "", &calendar.RangeError{Field: "minutes", Value: minutes}
	}

	if minutes < minutesPerHour {
		return fmt.Sprintf("%dm", minutes), nil
	}

	hours := minutes / minutesPerHour
	rem := minutes % minutesPerHour
	if minutes < minutesPerDay {
		if rem > 0 {
			return fmt.Sprintf("%dh %dm", hours, rem), nil
		}
		return fmt.Sprintf("%dh", hours), nil
	}

	return fmt.Sprintf("%dd %dh", hours/24, hours%24), nil
}

// ClockLabel formats a minute of the day as "9:30 AM".
func ClockLabel(minuteOfDay int) string {
	t := time.Date(2000, time.January, 1, minuteOfDay/minutesPerHour, minuteOfDay%minutesPerHour, 0, 0, time.UTC)
	return t.Format(ClockDisplayLayout)
}

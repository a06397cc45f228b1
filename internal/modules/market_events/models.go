// Package market_events projects the static calendar onto a point in time and
// returns the upcoming market events with their distance in days.
package market_events

import (
	"time"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

// CalendarEvent is one projected occurrence. ID is derived from the category and the
// occurrence, so it is identical across evaluations.
type CalendarEvent struct {
	ID          string            `json:"id"`
	Title       string            `json:"event"`
	Category    calendar.Category `json:"category"`
	Date        calendar.Date     `json:"date"`
	Time        string            `json:"time"`
	At          time.Time         `json:"at"`
	Impact      calendar.Impact   `json:"impact"`
	Description string            `json:"description"`
	DaysUntil   int               `json:"days_until"`
}

// Untimed marks events without a single release time, such as earnings seasons.
const Untimed = "Various"

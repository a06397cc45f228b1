// Package market_hours implements the session clock: which trading session is
// active, when the next one starts and how long until it does.
package market_hours

import (
	"time"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

// Display layouts used by the dashboard.
const (
	DateDisplayLayout  = "Jan 02, 2006"
	TimeDisplayLayout  = "3:04:05 PM"
	ClockDisplayLayout = "3:04 PM"
)

// SessionStatus is the session clock's answer for one instant. It is built fresh on
// every evaluation.
type SessionStatus struct {
	Current          calendar.Session `json:"current"`
	IsOpen           bool             `json:"is_market_open"`
	Next             calendar.Session `json:"next_session"`
	MinutesUntilNext int              `json:"minutes_until_next"`
	TimeUntilNext    string           `json:"time_until_next"`
	NextTransition   time.Time        `json:"next_transition"`
	NextEventTime    string           `json:"next_event_time"`
	Timezone         string           `json:"timezone"`
	TimezoneAbbrev   string           `json:"timezone_abbrev"`
	CurrentDate      string           `json:"current_date"`
	CurrentTime      string           `json:"current_time"`
	AsOf             time.Time        `json:"as_of"`
}

// BoardState is the state of one session on the session board.
type BoardState string

const (
	BoardActive   BoardState = "active"
	BoardUpcoming BoardState = "upcoming"
	BoardClosed   BoardState = "closed"
)

// SessionInfo is one row of the session board.
type SessionInfo struct {
	Session     calendar.Session `json:"session"`
	Title       string           `json:"title"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	Status      BoardState       `json:"status"`
	NextEvent   string           `json:"next_event"`
	NextTime    string           `json:"next_time"`
	Description string           `json:"description"`
}

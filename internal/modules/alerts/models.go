// Package alerts turns session state and projected events into alert records.
package alerts

// Status tells whether an alert condition is already in effect or still ahead.
type Status string

const (
	StatusPending   Status = "pending"
	StatusTriggered Status = "triggered"
)

// Kind is the alert type shown to the user.
type Kind string

const (
	KindSessionActive    Kind = "Session Active"
	KindMarketOpen       Kind = "Market Open"
	KindAfterHoursActive Kind = "After-Hours Active"
	KindUpcomingSession  Kind = "Upcoming Session"
	KindEventToday       Kind = "Event Today"
	KindEventTomorrow    Kind = "Event Tomorrow"
	KindHighImpact       Kind = "High Impact Event"
)

// CategorySession is the category of session-derived alerts.
const CategorySession = "Session"

// Record is one synthesized alert. Records are rebuilt on every evaluation.
type Record struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"type"`
	Message   string `json:"message"`
	Status    Status `json:"status"`
	Time      string `json:"time"`
	Timestamp string `json:"timestamp"`
	Category  string `json:"category"`
}

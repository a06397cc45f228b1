// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/tradedesk/internal/database"
	"github.com/aristath/tradedesk/internal/events"
	"github.com/aristath/tradedesk/internal/metrics"
	"github.com/aristath/tradedesk/internal/modules/calendar"
	"github.com/aristath/tradedesk/internal/modules/timing"
	"github.com/aristath/tradedesk/internal/scheduler"
)

// Container holds all dependencies for the application. It is created by Wire()
// and handed to the server and the entry point.
type Container struct {
	// Databases
	CalendarDB *database.DB

	// Repositories
	CalendarRepo *calendar.Repository

	// Calendar tables served for the process lifetime
	Calendar *calendar.Calendar

	// Services
	TimingService *timing.Service
	Metrics       *metrics.Recorder
	EventBus      *events.Bus
	EventManager  *events.Manager

	// Scheduler
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered jobs for manual triggering via API
type JobInstances struct {
	TimingPoll    *scheduler.TimingPollJob
	CheckCalendar *scheduler.CheckCalendarDatabaseJob
}

// All returns the jobs as a list.
func (j *JobInstances) All() []scheduler.Job {
	return []scheduler.Job{j.TimingPoll, j.CheckCalendar}
}

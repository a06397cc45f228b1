package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/config"
	"github.com/aristath/tradedesk/internal/scheduler"
)

// calendarCheckSchedule runs the calendar.db integrity check at minute 0 of every hour.
const calendarCheckSchedule = "0 0 * * * *"

// RegisterJobs creates the background jobs and registers them with the scheduler.
// Returns JobInstances for manual triggering via API
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.Scheduler == nil {
		return nil, fmt.Errorf("scheduler not initialized")
	}

	instances := &JobInstances{
		TimingPoll: scheduler.NewTimingPollJob(scheduler.TimingPollConfig{
			Source:   container.TimingService,
			Events:   container.EventManager,
			Recorder: container.Metrics,
			Log:      log,
		}),
		CheckCalendar: scheduler.NewCheckCalendarDatabaseJob(container.CalendarDB, log),
	}

	if err := container.Scheduler.AddJob(cfg.PollSchedule(), instances.TimingPoll); err != nil {
		return nil, fmt.Errorf("failed to register timing poll job: %w", err)
	}
	if err := container.Scheduler.AddJob(calendarCheckSchedule, instances.CheckCalendar); err != nil {
		return nil, fmt.Errorf("failed to register calendar check job: %w", err)
	}

	return instances, nil
}

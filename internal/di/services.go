package di

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/config"
	"github.com/aristath/tradedesk/internal/events"
	"github.com/aristath/tradedesk/internal/metrics"
	"github.com/aristath/tradedesk/internal/modules/calendar"
	"github.com/aristath/tradedesk/internal/modules/timing"
	"github.com/aristath/tradedesk/internal/scheduler"
)

// InitializeServices loads the calendar and builds the timing service, metrics,
// event bus and scheduler
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return &calendar.ConfigurationError{Timezone: cfg.Timezone, Err: err}
	}

	var overlay *calendar.Overlay
	if cfg.CalendarFile != "" {
		overlay, err = calendar.LoadOverlay(cfg.CalendarFile)
		if err != nil {
			return err
		}
		log.Info().Str("file", cfg.CalendarFile).Msg("Calendar overlay loaded")
	}

	cal, err := calendar.Load(ctx, loc, container.CalendarRepo, overlay)
	if err != nil {
		return fmt.Errorf("failed to load calendar: %w", err)
	}
	container.Calendar = cal

	container.Metrics = metrics.New()
	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)

	svc, err := timing.NewService(cal, timing.Settings{
		Timezone:       cfg.Timezone,
		HorizonDays:    cfg.HorizonDays,
		EconomicMonths: cfg.EconomicMonths,
	}, log, timing.WithRecorder(container.Metrics))
	if err != nil {
		return fmt.Errorf("failed to create timing service: %w", err)
	}
	container.TimingService = svc

	container.Scheduler = scheduler.New(log)

	log.Info().
		Str("timezone", cfg.Timezone).
		Int("fomc_meetings", len(cal.FOMCMeetings)).
		Int("economic_releases", len(cal.EconomicReleases)).
		Msg("Timing services initialized")
	return nil
}

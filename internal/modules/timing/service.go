// Package timing is the query surface of the timing engine. It resolves timezones,
// reads the wall clock and composes the session clock, the event projector and the
// alert synthesizer.
package timing

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/modules/alerts"
	"github.com/aristath/tradedesk/internal/modules/calendar"
	"github.com/aristath/tradedesk/internal/modules/market_events"
	"github.com/aristath/tradedesk/internal/modules/market_hours"
)

// Settings are the user-level defaults, passed explicitly to the service.
type Settings struct {
	Timezone       string
	HorizonDays    int
	EconomicMonths int
}

// Recorder observes query evaluations.
type Recorder interface {
	ObserveEvaluation(operation string, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveEvaluation(string, time.Duration, error) {}

// Snapshot is the result of one full evaluation.
type Snapshot struct {
	Status      market_hours.SessionStatus    `json:"status"`
	Sessions    []market_hours.SessionInfo    `json:"sessions"`
	Events      []market_events.CalendarEvent `json:"events"`
	Alerts      []alerts.Record               `json:"alerts"`
	GeneratedAt time.Time                     `json:"generated_at"`
}

// Service answers session, event and alert queries.
type Service struct {
	cal         *calendar.Calendar
	clock       *market_hours.Clock
	projector   *market_events.Projector
	synthesizer *alerts.Synthesizer
	settings    Settings
	defaultLoc  *time.Location
	now         func() time.Time
	recorder    Recorder
	log         zerolog.Logger

	locations sync.Map // timezone name -> *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecorder installs an evaluation recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService creates the timing service. The default timezone must load.
func NewService(cal *calendar.Calendar, settings Settings, log zerolog.Logger, opts ...Option) (*Service, error) {
	if settings.Timezone == "" {
		settings.Timezone = calendar.DefaultTimezone
	}
	if settings.HorizonDays == 0 {
		settings.HorizonDays = market_events.DefaultHorizonDays
	}
	if settings.HorizonDays < 0 {
		return nil, &calendar.RangeError{Field: "horizon_days", Value: settings.HorizonDays}
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, &calendar.ConfigurationError{Timezone: settings.Timezone, Err: err}
	}

	s := &Service{
		cal:         cal,
		clock:       market_hours.NewClock(cal),
		projector:   market_events.NewProjector(cal, settings.EconomicMonths, log),
		synthesizer: alerts.NewSynthesizer(cal),
		settings:    settings,
		defaultLoc:  loc,
		now:         time.Now,
		recorder:    nopRecorder{},
		log:         log.With().Str("service", "timing").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Settings returns the defaults the service was built with.
func (s *Service) Settings() Settings {
	return s.settings
}

// Calendar returns the tables behind the service.
func (s *Service) Calendar() *calendar.Calendar {
	return s.cal
}

// ResolveLocation maps a timezone identifier to a location. The empty identifier
// selects the configured default; an unknown one is a ConfigurationError.
func (s *Service) ResolveLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return s.defaultLoc, nil
	}
	if loc, ok := s.locations.Load(tz); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &calendar.ConfigurationError{Timezone: tz, Err: err}
	}
	s.locations.Store(tz, loc)
	return loc, nil
}

// GetSessionStatus returns the session clock state in tz.
func (s *Service) GetSessionStatus(tz string) (status market_hours.SessionStatus, err error) {
	defer s.observe("status", time.Now(), &err)

	loc, err := s.ResolveLocation(tz)
	if err != nil {
		return market_hours.SessionStatus{}, err
	}
	return s.clock.Status(s.now(), loc)
}

// GetSessions returns the session board in tz.
func (s *Service) GetSessions(tz string) (board []market_hours.SessionInfo, err error) {
	defer s.observe("sessions", time.Now(), &err)

	loc, err := s.ResolveLocation(tz)
	if err != nil {
		return nil, err
	}
	status, err := s.clock.Status(s.now(), loc)
	if err != nil {
		return nil, err
	}
	return s.clock.Board(status), nil
}

// GetUpcomingEvents returns the events within horizonDays.
func (s *Service) GetUpcomingEvents(horizonDays int) (events []market_events.CalendarEvent, err error) {
	defer s.observe("events", time.Now(), &err)

	return s.projector.Upcoming(s.now(), horizonDays)
}

// GetAlerts returns the session and event alerts in tz.
func (s *Service) GetAlerts(tz string) (records []alerts.Record, err error) {
	defer s.observe("alerts", time.Now(), &err)

	loc, err := s.ResolveLocation(tz)
	if err != nil {
		return nil, err
	}
	now := s.now()
	status, err := s.clock.Status(now, loc)
	if err != nil {
		return nil, err
	}
	events, err := s.projector.Upcoming(now, s.settings.HorizonDays)
	if err != nil {
		return nil, err
	}
	return s.synthesizer.Synthesize(status, events), nil
}

// Snapshot evaluates everything at a single instant.
func (s *Service) Snapshot(tz string) (snap Snapshot, err error) {
	defer s.observe("snapshot", time.Now(), &err)

	loc, err := s.ResolveLocation(tz)
	if err != nil {
		return Snapshot{}, err
	}
	now := s.now()
	status, err := s.clock.Status(now, loc)
	if err != nil {
		return Snapshot{}, err
	}
	events, err := s.projector.Upcoming(now, s.settings.HorizonDays)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Status:      status,
		Sessions:    s.clock.Board(status),
		Events:      events,
		Alerts:      s.synthesizer.Synthesize(status, events),
		GeneratedAt: now,
	}, nil
}

// Holidays returns the listed holidays of a year.
func (s *Service) Holidays(year int) []calendar.Holiday {
	return s.cal.Holidays(year)
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	s.recorder.ObserveEvaluation(operation, time.Since(start), *err)
	if *err != nil {
		s.log.Debug().Err(*err).Str("operation", operation).Msg("Evaluation failed")
	}
}

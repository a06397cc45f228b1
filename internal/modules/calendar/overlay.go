package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Overlay is the operator-maintained calendar file. It extends the built-in tables
// with additional holiday years, FOMC meetings and economic releases.
type Overlay struct {
	Holidays         []OverlayHoliday  `yaml:"holidays" validate:"dive"`
	FOMCMeetings     []OverlayMeeting  `yaml:"fomc_meetings" validate:"dive"`
	EconomicReleases []OverlayTemplate `yaml:"economic_releases" validate:"dive"`
}

// OverlayHoliday is one full-day closure.
type OverlayHoliday struct {
	Date string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Name string `yaml:"name" validate:"required"`
}

// OverlayMeeting is one FOMC decision day.
type OverlayMeeting struct {
	Date string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Time string `yaml:"time" default:"14:00" validate:"datetime=15:04"`
}

// OverlayTemplate is a monthly economic release.
type OverlayTemplate struct {
	Key         string `yaml:"key" validate:"required"`
	Name        string `yaml:"name" validate:"required"`
	DayOfMonth  int    `yaml:"day_of_month" validate:"omitempty,min=1,max=31"`
	Weekday     string `yaml:"weekday" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	WeekOfMonth int    `yaml:"week_of_month" validate:"omitempty,min=1,max=5"`
	Time        string `yaml:"time" default:"08:30" validate:"datetime=15:04"`
	Impact      string `yaml:"impact" default:"Medium" validate:"oneof=High Medium Low"`
	Description string `yaml:"description"`
}

// LoadOverlay reads and validates a YAML calendar overlay.
func LoadOverlay(path string) (*Overlay, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}
	return ParseOverlay(content)
}

// ParseOverlay decodes and validates overlay YAML.
func ParseOverlay(content []byte) (*Overlay, error) {
	var o Overlay
	if err := yaml.Unmarshal(content, &o); err != nil {
		return nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}

	for i := range o.FOMCMeetings {
		if err := defaults.Set(&o.FOMCMeetings[i]); err != nil {
			return nil, fmt.Errorf("failed to apply meeting defaults: %w", err)
		}
	}
	for i := range o.EconomicReleases {
		if err := defaults.Set(&o.EconomicReleases[i]); err != nil {
			return nil, fmt.Errorf("failed to apply release defaults: %w", err)
		}
	}

	if err := validate.Struct(&o); err != nil {
		return nil, fmt.Errorf("invalid calendar file: %w", err)
	}
	return &o, nil
}

// HolidayList converts the overlay holidays.
func (o *Overlay) HolidayList() ([]Holiday, error) {
	out := make([]Holiday, 0, len(o.Holidays))
	for _, h := range o.Holidays {
		d, err := ParseDate(h.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, Holiday{Date: d, Name: h.Name})
	}
	return out, nil
}

// MeetingList converts the overlay FOMC meetings.
func (o *Overlay) MeetingList() ([]FOMCMeeting, error) {
	out := make([]FOMCMeeting, 0, len(o.FOMCMeetings))
	for _, m := range o.FOMCMeetings {
		d, err := ParseDate(m.Date)
		if err != nil {
			return nil, err
		}
		clock, err := parseClock(m.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, FOMCMeeting{Date: d, Time: clock})
	}
	return out, nil
}

// TemplateList converts the overlay economic releases.
func (o *Overlay) TemplateList() ([]EconomicTemplate, error) {
	out := make([]EconomicTemplate, 0, len(o.EconomicReleases))
	for _, t := range o.EconomicReleases {
		clock, err := parseClock(t.Time)
		if err != nil {
			return nil, err
		}
		tmpl := EconomicTemplate{
			Key:         t.Key,
			Name:        t.Name,
			DayOfMonth:  t.DayOfMonth,
			WeekOfMonth: t.WeekOfMonth,
			Time:        clock,
			Impact:      Impact(t.Impact),
			Description: t.Description,
		}
		if t.Weekday != "" {
			tmpl.Weekday = weekdays[t.Weekday]
		}
		out = append(out, tmpl)
	}
	return out, nil
}

// Apply merges the overlay into c. Meetings and releases with the same date or key
// replace the built-in entry.
func (o *Overlay) Apply(c *Calendar) error {
	holidays, err := o.HolidayList()
	if err != nil {
		return err
	}
	c.addHolidays(holidays)

	meetings, err := o.MeetingList()
	if err != nil {
		return err
	}
	c.FOMCMeetings = MergeMeetings(c.FOMCMeetings, meetings)

	return o.applyTemplates(c)
}

func (o *Overlay) applyTemplates(c *Calendar) error {
	templates, err := o.TemplateList()
	if err != nil {
		return err
	}
	for _, t := range templates {
		replaced := false
		for i := range c.EconomicReleases {
			if c.EconomicReleases[i].Key == t.Key {
				c.EconomicReleases[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			c.EconomicReleases = append(c.EconomicReleases, t)
		}
	}
	return nil
}

// MergeMeetings returns base plus extra, keyed by date, in date order.
func MergeMeetings(base, extra []FOMCMeeting) []FOMCMeeting {
	byDate := make(map[Date]FOMCMeeting, len(base)+len(extra))
	for _, m := range base {
		byDate[m.Date] = m
	}
	for _, m := range extra {
		byDate[m.Date] = m
	}
	out := make([]FOMCMeeting, 0, len(byDate))
	for _, m := range byDate {
		out = append(out, m)
	}
	sortMeetings(out)
	return out
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the clock time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

package calendar

import (
	"context"
	"fmt"
	"time"
)

// Load assembles the calendar served for the process lifetime. Without a repository
// it is the built-in tables plus the overlay. With one, calendar.db is reset to the
// built-ins, the current overlay rows are imported and the stored tables win.
func Load(ctx context.Context, loc *time.Location, repo *Repository, overlay *Overlay) (*Calendar, error) {
	if repo == nil {
		c, err := Default(loc)
		if err != nil {
			return nil, err
		}
		if overlay != nil {
			if err := overlay.Apply(c); err != nil {
				return nil, fmt.Errorf("failed to apply calendar overlay: %w", err)
			}
		}
		return c, nil
	}

	if _, err := repo.Seed(ctx, DefaultHolidays(), DefaultFOMCMeetings()); err != nil {
		return nil, err
	}
	if overlay != nil {
		if err := repo.Import(ctx, overlay); err != nil {
			return nil, err
		}
	}

	holidays, err := repo.Holidays(ctx)
	if err != nil {
		return nil, err
	}
	meetings, err := repo.Meetings(ctx)
	if err != nil {
		return nil, err
	}

	c, err := New(loc, DefaultWindows(), holidays)
	if err != nil {
		return nil, err
	}
	c.FOMCMeetings = meetings
	c.EconomicReleases = DefaultEconomicReleases()
	c.EarningsWindows = DefaultEarningsWindows()

	if overlay != nil {
		if err := overlay.applyTemplates(c); err != nil {
			return nil, fmt.Errorf("failed to apply calendar overlay: %w", err)
		}
	}
	return c, nil
}

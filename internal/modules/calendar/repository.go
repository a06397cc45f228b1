package calendar

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/database"
)

// Row sources recorded in calendar.db.
const (
	SourceBuiltin = "builtin"
	SourceOverlay = "overlay"
)

// Repository stores the holiday table and FOMC schedule in calendar.db.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a calendar repository
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "calendar").Logger(),
	}
}

// Seed resets both tables to the given built-in rows. Earlier built-in and overlay
// rows are removed first, so corrected built-ins take effect and overlay rows live
// only until the next seed. Returns the number of rows written.
func (r *Repository) Seed(ctx context.Context, holidays []Holiday, meetings []FOMCMeeting) (int, error) {
	inserted := 0
	err := database.WithTransaction(r.db.Conn(), func(tx *sql.Tx) error {
		for _, table := range []string{"market_holidays", "fomc_meetings"} {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM `+table+` WHERE source IN (?, ?)`,
				SourceBuiltin, SourceOverlay); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		for _, h := range holidays {
			res, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO market_holidays (date, name, source) VALUES (?, ?, ?)`,
				h.Date.String(), h.Name, SourceBuiltin)
			if err != nil {
				return fmt.Errorf("failed to seed holiday %s: %w", h.Date, err)
			}
			n, _ := res.RowsAffected()
			inserted += int(n)
		}
		for _, m := range meetings {
			res, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO fomc_meetings (date, time, source) VALUES (?, ?, ?)`,
				m.Date.String(), m.Time.String(), SourceBuiltin)
			if err != nil {
				return fmt.Errorf("failed to seed FOMC meeting %s: %w", m.Date, err)
			}
			n, _ := res.RowsAffected()
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Debug().Int("rows", inserted).Msg("Calendar seeded")
	return inserted, nil
}

// Import writes overlay holidays and meetings on top of the seeded rows, replacing
// rows with the same date.
func (r *Repository) Import(ctx context.Context, o *Overlay) error {
	holidays, err := o.HolidayList()
	if err != nil {
		return err
	}
	meetings, err := o.MeetingList()
	if err != nil {
		return err
	}

	return database.WithTransaction(r.db.Conn(), func(tx *sql.Tx) error {
		for _, h := range holidays {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO market_holidays (date, name, source) VALUES (?, ?, ?)`,
				h.Date.String(), h.Name, SourceOverlay); err != nil {
				return fmt.Errorf("failed to import holiday %s: %w", h.Date, err)
			}
		}
		for _, m := range meetings {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO fomc_meetings (date, time, source) VALUES (?, ?, ?)`,
				m.Date.String(), m.Time.String(), SourceOverlay); err != nil {
				return fmt.Errorf("failed to import FOMC meeting %s: %w", m.Date, err)
			}
		}
		return nil
	})
}

// Holidays returns every stored holiday in date order.
func (r *Repository) Holidays(ctx context.Context) ([]Holiday, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `SELECT date, name FROM market_holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var dateStr, name string
		if err := rows.Scan(&dateStr, &name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		d, err := ParseDate(dateStr)
		if err != nil {
			r.log.Warn().Err(err).Str("date", dateStr).Msg("Skipping malformed holiday row")
			continue
		}
		out = append(out, Holiday{Date: d, Name: name})
	}
	return out, rows.Err()
}

// Meetings returns every stored FOMC meeting in date order.
func (r *Repository) Meetings(ctx context.Context) ([]FOMCMeeting, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `SELECT date, time FROM fomc_meetings ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query FOMC meetings: %w", err)
	}
	defer rows.Close()

	var out []FOMCMeeting
	for rows.Next() {
		var dateStr, timeStr string
		if err := rows.Scan(&dateStr, &timeStr); err != nil {
			return nil, fmt.Errorf("failed to scan FOMC meeting: %w", err)
		}
		d, err := ParseDate(dateStr)
		if err != nil {
			r.log.Warn().Err(err).Str("date", dateStr).Msg("Skipping malformed meeting row")
			continue
		}
		clock, err := parseClock(timeStr)
		if err != nil {
			r.log.Warn().Err(err).Str("date", dateStr).Msg("Skipping meeting with malformed time")
			continue
		}
		out = append(out, FOMCMeeting{Date: d, Time: clock})
	}
	return out, rows.Err()
}

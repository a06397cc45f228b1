package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/database"
)

// walWarnFrames is the WAL size above which a checkpoint is reported as overdue.
const walWarnFrames = 1000

// CheckCalendarDatabaseJob verifies calendar.db is reachable and reports its WAL
// checkpoint status.
type CheckCalendarDatabaseJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCheckCalendarDatabaseJob creates a new CheckCalendarDatabaseJob
func NewCheckCalendarDatabaseJob(db *database.DB, log zerolog.Logger) *CheckCalendarDatabaseJob {
	return &CheckCalendarDatabaseJob{
		db:  db,
		log: log.With().Str("job", "check_calendar_database").Logger(),
	}
}

// Name returns the job name
func (j *CheckCalendarDatabaseJob) Name() string {
	return "check_calendar_database"
}

// Run executes the check
func (j *CheckCalendarDatabaseJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := j.db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("calendar database unreachable: %w", err)
	}

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, walFrames, checkpointed int
	err := j.db.Conn().QueryRowContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &walFrames, &checkpointed)
	if err != nil {
		return fmt.Errorf("failed to check WAL checkpoint: %w", err)
	}

	if walFrames > walWarnFrames {
		j.log.Warn().
			Str("database", j.db.Name()).
			Int("wal_frames", walFrames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, checkpoint may be needed")
	} else {
		j.log.Debug().
			Str("database", j.db.Name()).
			Int("wal_frames", walFrames).
			Msg("WAL checkpoint status OK")
	}
	return nil
}

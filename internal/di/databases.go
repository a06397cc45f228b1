package di

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/config"
	"github.com/aristath/tradedesk/internal/database"
)

// InitializeDatabases opens calendar.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// calendar.db - holidays and FOMC schedule, rebuildable from the built-in tables
	calendarDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "calendar.db"),
		Profile: database.ProfileStandard,
		Name:    "calendar",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calendar database: %w", err)
	}

	if err := calendarDB.Migrate(); err != nil {
		calendarDB.Close()
		return nil, fmt.Errorf("failed to migrate calendar database: %w", err)
	}
	container.CalendarDB = calendarDB

	log.Info().Str("path", calendarDB.Path()).Msg("Calendar database initialized")
	return container, nil
}

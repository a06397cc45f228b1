package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

// InitializeRepositories creates the repositories over the open databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil || container.CalendarDB == nil {
		return fmt.Errorf("calendar database not initialized")
	}
	container.CalendarRepo = calendar.NewRepository(container.CalendarDB, log)
	return nil
}

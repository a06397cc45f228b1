// Package testing provides testing utilities and helpers for the tradedesk project.
package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aristath/tradedesk/internal/database"
)

// NewTestDB creates a file-backed SQLite database in the test's temp directory and
// applies the embedded schema named after it ("calendar" applies calendar_schema.sql,
// unknown names fail the test). The database is closed on test cleanup.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), fmt.Sprintf("test_%s.db", name)),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		// Closing twice is harmless; tests may close early to simulate failures.
		_ = db.Close()
	})
	return db
}

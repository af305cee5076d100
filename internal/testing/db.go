// Package testing provides testing utilities and helpers for the wealthtrack project.
package testing

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "modernc.org/sqlite" // In-memory driver for repository tests

	"github.com/codingisforpros/wealthtrack/internal/database"
)

// NewTestDB creates a file-backed SQLite database for testing with automatic
// schema migration through the production wrapper. Returns the database
// instance and a cleanup function that closes the connection.
//
// Supported schema names:
//   - "wealth" - users, assets, milestones
//   - "history" - net worth snapshots
//   - "cache" - gold price cache
//   - Unknown names - creates empty database (no schema applied)
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	// Temporary file per test keeps databases isolated
	tmpFile, err := os.CreateTemp("", fmt.Sprintf("test_%s_*.db", name))
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path:    tmpPath,
		Profile: database.ProfileCore,
		Name:    name,
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db, func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
		if err := os.Remove(tmpPath); err != nil {
			t.Logf("Warning: Failed to remove temporary database file %s: %v", tmpPath, err)
		}
	}
}

// NewMemoryDB creates an in-memory SQLite database (mattn driver) with the
// named schema applied. Faster than file-backed databases for repository
// tests; the connection is limited to one so the memory database survives
// for the whole test.
func NewMemoryDB(t *testing.T, name string) (*sql.DB, func()) {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if schema := database.Schema(name); schema != "" {
		if _, err := conn.Exec(schema); err != nil {
			_ = conn.Close()
			t.Fatalf("Failed to apply %s schema: %v", name, err)
		}
	}

	return conn, func() {
		if err := conn.Close(); err != nil {
			t.Logf("Warning: Failed to close in-memory database: %v", err)
		}
	}
}

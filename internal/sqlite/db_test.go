package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"projects",
		"events",
		"work_times",
		"change_log",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsIdempotent verifies migrations can run on an existing schema
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestEventsTableConstraints verifies the time order and kind checks
func TestEventsTableConstraints(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO events (id, employee_number, title, start_ms, end_ms) VALUES (?, ?, ?, ?, ?)`,
		"e1", "E1001", "ok", 1000, 2000)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO events (id, employee_number, title, start_ms, end_ms) VALUES (?, ?, ?, ?, ?)`,
		"e2", "E1001", "reversed", 2000, 1000)
	require.Error(t, err, "should fail with end before start")

	_, err = db.ExecContext(ctx,
		`INSERT INTO projects (code, name, kind) VALUES (?, ?, ?)`,
		"A-1", "x", "other")
	require.Error(t, err, "should fail with invalid kind")
}

package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// :memory: databases are per connection
	if dataSourceName == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Every statement is idempotent so it is
// safe to run at each startup.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects and indirect pseudo-projects
CREATE TABLE IF NOT EXISTS projects (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL CHECK(kind IN ('project', 'indirect')),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Time blocks; start_ms/end_ms are unix milliseconds so ranges compare numerically
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    employee_number TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    project_code TEXT NOT NULL DEFAULT '',
    start_ms INTEGER NOT NULL,
    end_ms INTEGER NOT NULL,
    activity_code TEXT NOT NULL DEFAULT '',
    top REAL NOT NULL DEFAULT 0,
    height REAL NOT NULL DEFAULT 0,
    color TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    selection TEXT NOT NULL DEFAULT '{}',
    sub_types TEXT NOT NULL DEFAULT '{}',
    equipment_number TEXT NOT NULL DEFAULT '',
    equipment_name TEXT NOT NULL DEFAULT '',
    item_name TEXT NOT NULL DEFAULT '',
    purpose_project TEXT NOT NULL DEFAULT '',
    department_code TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP,
    CHECK(end_ms > start_ms)
);
CREATE INDEX IF NOT EXISTS idx_events_employee_start ON events(employee_number, start_ms);
CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_code);

-- Daily attendance windows
CREATE TABLE IF NOT EXISTS work_times (
    employee_number TEXT NOT NULL,
    date TEXT NOT NULL,
    start_time TEXT NOT NULL DEFAULT '',
    end_time TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (employee_number, date)
);

-- Change log
CREATE TABLE IF NOT EXISTS change_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    employee_number TEXT NOT NULL,
    event_id TEXT,
    type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_change_log_employee ON change_log(employee_number, created_at);
CREATE INDEX IF NOT EXISTS idx_change_log_event ON change_log(event_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

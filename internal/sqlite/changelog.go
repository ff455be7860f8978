package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/zisseki/internal/domain/changelog"
)

// ChangeLogRepository implements changelog.Repository for SQLite
type ChangeLogRepository struct {
	db *DB
}

// NewChangeLogRepository creates a new ChangeLogRepository
func NewChangeLogRepository(db *DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

// Log inserts a new change log entry
func (r *ChangeLogRepository) Log(ctx context.Context, employee string, entry *changelog.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO change_log (employee_number, event_id, type, summary, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		employee,
		entry.EventID,
		entry.Type,
		entry.Summary,
		entry.Details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log change: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.EmployeeNumber = employee
	entry.CreatedAt = createdAt

	return nil
}

// List returns change log entries matching the given filters, newest first
func (r *ChangeLogRepository) List(ctx context.Context, employee string, opts changelog.ListOptions) ([]changelog.Entry, error) {
	query := `
		SELECT id, employee_number, event_id, type, summary, details, created_at
		FROM change_log
		WHERE employee_number = ?
	`

	args := []any{employee}
	conditions := []string{}

	if opts.EventID != nil {
		conditions = append(conditions, "event_id = ?")
		args = append(args, *opts.EventID)
	}
	if opts.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *opts.Type)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list changes: %w", err)
	}
	defer rows.Close()

	var entries []changelog.Entry
	for rows.Next() {
		var entry changelog.Entry
		var eventID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.EmployeeNumber,
			&eventID,
			&entry.Type,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan change entry: %w", err)
		}
		if eventID.Valid {
			entry.EventID = &eventID.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating change rows: %w", err)
	}

	return entries, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/repository"
)

const eventColumns = `
	id, employee_number, title, description, project_code,
	start_ms, end_ms, activity_code, top, height, color, status, category,
	selection, sub_types,
	equipment_number, equipment_name, item_name, purpose_project, department_code,
	created_at, updated_at, deleted_at`

// EventRepository implements event.Repository for SQLite
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, ev *event.Event) error {
	if err := insertEvent(ctx, r.db, ev); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func insertEvent(ctx context.Context, db execer, ev *event.Event) error {
	selection, err := json.Marshal(ev.Selection)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	subTypes, err := json.Marshal(ev.SubTypes)
	if err != nil {
		return fmt.Errorf("failed to encode sub types: %w", err)
	}

	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.ExecContext(ctx, query,
		ev.ID,
		ev.EmployeeNumber,
		ev.Title,
		ev.Description,
		ev.ProjectCode,
		ev.Start.UnixMilli(),
		ev.End.UnixMilli(),
		ev.ActivityCode,
		ev.Top,
		ev.Height,
		ev.Color,
		ev.Status,
		ev.Category,
		string(selection),
		string(subTypes),
		ev.EquipmentNumber,
		ev.EquipmentName,
		ev.ItemName,
		ev.PurposeProject,
		ev.DepartmentCode,
		ev.CreatedAt,
		ev.UpdatedAt,
		ev.DeletedAt,
	)
	return err
}

// Get retrieves an event by ID, including soft-deleted ones
func (r *EventRepository) Get(ctx context.Context, employee, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ? AND employee_number = ?`

	ev, err := scanEvent(r.db.QueryRowContext(ctx, query, id, employee))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return ev, nil
}

// Update overwrites every mutable column of a live event
func (r *EventRepository) Update(ctx context.Context, ev *event.Event) error {
	selection, err := json.Marshal(ev.Selection)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	subTypes, err := json.Marshal(ev.SubTypes)
	if err != nil {
		return fmt.Errorf("failed to encode sub types: %w", err)
	}

	query := `
		UPDATE events SET
			title = ?, description = ?, project_code = ?,
			start_ms = ?, end_ms = ?, activity_code = ?,
			top = ?, height = ?, color = ?, status = ?, category = ?,
			selection = ?, sub_types = ?,
			equipment_number = ?, equipment_name = ?, item_name = ?,
			purpose_project = ?, department_code = ?,
			updated_at = ?
		WHERE id = ? AND employee_number = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		ev.Title,
		ev.Description,
		ev.ProjectCode,
		ev.Start.UnixMilli(),
		ev.End.UnixMilli(),
		ev.ActivityCode,
		ev.Top,
		ev.Height,
		ev.Color,
		ev.Status,
		ev.Category,
		string(selection),
		string(subTypes),
		ev.EquipmentNumber,
		ev.EquipmentName,
		ev.ItemName,
		ev.PurposeProject,
		ev.DepartmentCode,
		ev.UpdatedAt,
		ev.ID,
		ev.EmployeeNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SoftDelete stamps deleted_at on a live event
func (r *EventRepository) SoftDelete(ctx context.Context, employee, id string, at time.Time) error {
	query := `UPDATE events SET deleted_at = ?, updated_at = ? WHERE id = ? AND employee_number = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, at, at, id, employee)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns events ordered by start
func (r *EventRepository) List(ctx context.Context, employee string, opts event.ListOptions) ([]event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE employee_number = ?`
	args := []any{employee}
	conditions := []string{}

	if !opts.From.IsZero() {
		conditions = append(conditions, "start_ms >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		conditions = append(conditions, "start_ms < ?")
		args = append(args, opts.To.UnixMilli())
	}
	if opts.ProjectCode != "" {
		conditions = append(conditions, "project_code = ?")
		args = append(args, opts.ProjectCode)
	}
	if !opts.IncludeDeleted {
		conditions = append(conditions, "deleted_at IS NULL")
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY start_ms ASC, id ASC"

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
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

// ReplaceRange deletes every event starting in [from, to), plus any stored
// copy of the incoming IDs, and inserts events in one transaction.
func (r *EventRepository) ReplaceRange(ctx context.Context, employee string, from, to time.Time, events []event.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE employee_number = ? AND start_ms >= ? AND start_ms < ?`,
		employee, from.UnixMilli(), to.UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to clear range: %w", err)
	}

	for i := range events {
		ev := &events[i]
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM events WHERE id = ? AND employee_number = ?`, ev.ID, employee,
		); err != nil {
			return fmt.Errorf("failed to clear event %s: %w", ev.ID, err)
		}
		if err := insertEvent(ctx, tx, ev); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrConflict
			}
			return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit range: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*event.Event, error) {
	var ev event.Event
	var startMs, endMs int64
	var selection, subTypes string
	var deletedAt sql.NullTime

	if err := row.Scan(
		&ev.ID,
		&ev.EmployeeNumber,
		&ev.Title,
		&ev.Description,
		&ev.ProjectCode,
		&startMs,
		&endMs,
		&ev.ActivityCode,
		&ev.Top,
		&ev.Height,
		&ev.Color,
		&ev.Status,
		&ev.Category,
		&selection,
		&subTypes,
		&ev.EquipmentNumber,
		&ev.EquipmentName,
		&ev.ItemName,
		&ev.PurposeProject,
		&ev.DepartmentCode,
		&ev.CreatedAt,
		&ev.UpdatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}

	ev.Start = time.UnixMilli(startMs).UTC()
	ev.End = time.UnixMilli(endMs).UTC()
	if selection != "" {
		if err := json.Unmarshal([]byte(selection), &ev.Selection); err != nil {
			return nil, fmt.Errorf("failed to decode selection: %w", err)
		}
	}
	if subTypes != "" {
		if err := json.Unmarshal([]byte(subTypes), &ev.SubTypes); err != nil {
			return nil, fmt.Errorf("failed to decode sub types: %w", err)
		}
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		ev.DeletedAt = &t
	}
	return &ev, nil
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/zisseki/internal/domain/event"
)

// WorkTimeRepository implements event.WorkTimeRepository for SQLite
type WorkTimeRepository struct {
	db *DB
}

// NewWorkTimeRepository creates a new WorkTimeRepository
func NewWorkTimeRepository(db *DB) *WorkTimeRepository {
	return &WorkTimeRepository{db: db}
}

// ListWorkTimes returns the work windows dated fromDate..toDate inclusive
func (r *WorkTimeRepository) ListWorkTimes(ctx context.Context, employee, fromDate, toDate string) ([]event.WorkTime, error) {
	query := `
		SELECT employee_number, date, start_time, end_time
		FROM work_times
		WHERE employee_number = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, employee, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list work times: %w", err)
	}
	defer rows.Close()

	var wts []event.WorkTime
	for rows.Next() {
		var wt event.WorkTime
		if err := rows.Scan(&wt.EmployeeNumber, &wt.Date, &wt.StartTime, &wt.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan work time: %w", err)
		}
		wts = append(wts, wt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work time rows: %w", err)
	}
	return wts, nil
}

// ReplaceWorkTimes swaps the stored windows of a date range for wts
func (r *WorkTimeRepository) ReplaceWorkTimes(ctx context.Context, employee, fromDate, toDate string, wts []event.WorkTime) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM work_times WHERE employee_number = ? AND date >= ? AND date <= ?`,
		employee, fromDate, toDate,
	); err != nil {
		return fmt.Errorf("failed to clear work times: %w", err)
	}

	for _, wt := range wts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO work_times (employee_number, date, start_time, end_time) VALUES (?, ?, ?, ?)`,
			employee, wt.Date, wt.StartTime, wt.EndTime,
		); err != nil {
			return fmt.Errorf("failed to insert work time %s: %w", wt.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit work times: %w", err)
	}
	return nil
}

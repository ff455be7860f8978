package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (code, name, description, kind, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.Code,
		proj.Name,
		proj.Description,
		proj.Kind,
		proj.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by code
func (r *ProjectRepository) Get(ctx context.Context, code string) (*project.Project, error) {
	query := `
		SELECT code, name, description, kind, created_at
		FROM projects
		WHERE code = ?
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&proj.Code,
		&proj.Name,
		&proj.Description,
		&proj.Kind,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// List returns projects ordered by code; an empty kind lists every kind
func (r *ProjectRepository) List(ctx context.Context, kind project.Kind) ([]project.Project, error) {
	query := `SELECT code, name, description, kind, created_at FROM projects`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY code ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var proj project.Project
		if err := rows.Scan(
			&proj.Code,
			&proj.Name,
			&proj.Description,
			&proj.Kind,
			&proj.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

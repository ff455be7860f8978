package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, code string) (*Project, error)
	List(ctx context.Context, kind Kind) ([]Project, error)
}

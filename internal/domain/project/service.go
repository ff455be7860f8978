package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/repository"
	"go.uber.org/zap"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Code        string
	Name        string
	Description string
	Kind        Kind
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	kind := req.Kind
	switch kind {
	case "":
		kind = KindProject
	case KindProject, KindIndirect:
	default:
		return nil, ErrInvalidInput
	}

	proj := &Project{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		Kind:        kind,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateProject
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Debug("project created", zap.String("code", proj.Code))
	return proj, nil
}

// Get fetches a project by code.
func (s *Service) Get(ctx context.Context, code string) (*Project, error) {
	proj, err := s.repo.Get(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns projects of a kind, or all projects when kind is empty.
func (s *Service) List(ctx context.Context, kind Kind) ([]Project, error) {
	return s.repo.List(ctx, kind)
}

// EnsureDefaults creates the indirect pseudo-projects when missing.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, sub := range activitycode.SubTabs(activitycode.DomainIndirect) {
		_, err := s.repo.Get(ctx, string(sub))
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("checking default project: %w", err)
		}
		_, err = s.Create(ctx, CreateRequest{
			Code: string(sub),
			Name: string(sub),
			Kind: KindIndirect,
		})
		if err != nil && !errors.Is(err, ErrDuplicateProject) {
			return err
		}
	}
	return nil
}

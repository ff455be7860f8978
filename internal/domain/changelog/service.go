package changelog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultListLimit = 50

// Service handles change log operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new change log service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Record logs an entry with the current timestamp if missing.
func (s *Service) Record(ctx context.Context, employee string, entry *Entry) error {
	if entry == nil || strings.TrimSpace(employee) == "" {
		return ErrInvalidInput
	}
	entry.EmployeeNumber = employee
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, employee, entry); err != nil {
		return fmt.Errorf("logging change: %w", err)
	}
	return nil
}

// Recent lists entries, newest first.
func (s *Service) Recent(ctx context.Context, employee string, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	return s.repo.List(ctx, employee, opts)
}

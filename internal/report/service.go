package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/metrics"
	"go.uber.org/zap"
)

// EventSource lists a month of live events.
type EventSource interface {
	ListMonth(ctx context.Context, employee string, year, month int) ([]event.Event, error)
}

// ProjectSource lists known projects for labels.
type ProjectSource interface {
	List(ctx context.Context, kind project.Kind) ([]project.Project, error)
}

// SummaryCache stores computed month summaries.
type SummaryCache interface {
	GetSummary(ctx context.Context, employee string, year, month int) (*Summary, bool, error)
	SetSummary(ctx context.Context, employee string, year, month int, s *Summary) error
}

// TableQuery narrows and orders the month table.
type TableQuery struct {
	Filters   map[string]string
	SortBy    string
	Direction Direction
}

// Service builds views over an employee's events.
type Service struct {
	events   EventSource
	projects ProjectSource
	cache    SummaryCache
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a report service. projects and cache may be nil.
func NewService(events EventSource, projects ProjectSource, cache SummaryCache, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		events:   events,
		projects: projects,
		cache:    cache,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// Table returns the filtered, sorted month table.
func (s *Service) Table(ctx context.Context, employee string, year, month int, q TableQuery) ([]Row, error) {
	events, err := s.events.ListMonth(ctx, employee, year, month)
	if err != nil {
		return nil, err
	}
	rows := Rows(events, s.loc)
	if q.SortBy != "" {
		rows = Sort(rows, q.SortBy, q.Direction)
	}
	return Filter(rows, q.Filters), nil
}

// ExportCSV writes the month table as CSV and returns the download name.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, employee string, year, month int, q TableQuery) (string, error) {
	rows, err := s.Table(ctx, employee, year, month, q)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(w, rows); err != nil {
		return "", fmt.Errorf("exporting csv: %w", err)
	}
	return FileName(year, month, s.now().In(s.loc)), nil
}

// Summary returns the month aggregates, from cache when available.
func (s *Service) Summary(ctx context.Context, employee string, year, month int) (*Summary, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetSummary(ctx, employee, year, month)
		if err != nil {
			s.logger.Warn("summary cache read failed", zap.String("employee", employee), zap.Error(err))
		}
		metrics.RecordCacheLookup(ok)
		if ok {
			return cached, nil
		}
	}

	events, err := s.events.ListMonth(ctx, employee, year, month)
	if err != nil {
		return nil, err
	}
	summary := Summarize(events, s.loc, s.projectNames(ctx))
	summary.Year = year
	summary.Month = month
	summary.GeneratedAt = s.now()

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, employee, year, month, &summary); err != nil {
			s.logger.Warn("summary cache write failed", zap.String("employee", employee), zap.Error(err))
		}
	}
	return &summary, nil
}

func (s *Service) projectNames(ctx context.Context) map[string]string {
	if s.projects == nil {
		return nil
	}
	list, err := s.projects.List(ctx, "")
	if err != nil {
		s.logger.Warn("listing projects for labels failed", zap.Error(err))
		return nil
	}
	names := make(map[string]string, len(list))
	for _, p := range list {
		names[p.Code] = p.Name
	}
	return names
}

package mocks

import (
	"context"
	"time"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// EventRepository is a mock for event.Repository.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Create(ctx context.Context, ev *event.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *EventRepository) Get(ctx context.Context, employee, id string) (*event.Event, error) {
	args := m.Called(ctx, employee, id)
	if ev, ok := args.Get(0).(*event.Event); ok {
		return ev, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventRepository) Update(ctx context.Context, ev *event.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *EventRepository) SoftDelete(ctx context.Context, employee, id string, at time.Time) error {
	args := m.Called(ctx, employee, id, at)
	return args.Error(0)
}

func (m *EventRepository) List(ctx context.Context, employee string, opts event.ListOptions) ([]event.Event, error) {
	args := m.Called(ctx, employee, opts)
	if list, ok := args.Get(0).([]event.Event); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventRepository) ReplaceRange(ctx context.Context, employee string, from, to time.Time, events []event.Event) error {
	args := m.Called(ctx, employee, from, to, events)
	return args.Error(0)
}

// WorkTimeRepository is a mock for event.WorkTimeRepository.
type WorkTimeRepository struct {
	mock.Mock
}

func (m *WorkTimeRepository) ListWorkTimes(ctx context.Context, employee, fromDate, toDate string) ([]event.WorkTime, error) {
	args := m.Called(ctx, employee, fromDate, toDate)
	if list, ok := args.Get(0).([]event.WorkTime); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkTimeRepository) ReplaceWorkTimes(ctx context.Context, employee, fromDate, toDate string, wts []event.WorkTime) error {
	args := m.Called(ctx, employee, fromDate, toDate, wts)
	return args.Error(0)
}

// Notifier is a mock for event.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) EventsChanged(ctx context.Context, employee string, times ...time.Time) {
	m.Called(ctx, employee, times)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, code string) (*project.Project, error) {
	args := m.Called(ctx, code)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, kind project.Kind) ([]project.Project, error) {
	args := m.Called(ctx, kind)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ChangeLogRepository is a mock for changelog.Repository.
type ChangeLogRepository struct {
	mock.Mock
}

func (m *ChangeLogRepository) Log(ctx context.Context, employee string, entry *changelog.Entry) error {
	args := m.Called(ctx, employee, entry)
	return args.Error(0)
}

func (m *ChangeLogRepository) List(ctx context.Context, employee string, opts changelog.ListOptions) ([]changelog.Entry, error) {
	args := m.Called(ctx, employee, opts)
	if list, ok := args.Get(0).([]changelog.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

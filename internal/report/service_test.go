package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubEvents struct {
	mock.Mock
}

func (m *stubEvents) ListMonth(ctx context.Context, employee string, year, month int) ([]event.Event, error) {
	args := m.Called(ctx, employee, year, month)
	return args.Get(0).([]event.Event), args.Error(1)
}

type stubCache struct {
	mock.Mock
}

func (m *stubCache) GetSummary(ctx context.Context, employee string, year, month int) (*Summary, bool, error) {
	args := m.Called(ctx, employee, year, month)
	s, _ := args.Get(0).(*Summary)
	return s, args.Bool(1), args.Error(2)
}

func (m *stubCache) SetSummary(ctx context.Context, employee string, year, month int, s *Summary) error {
	return m.Called(ctx, employee, year, month, s).Error(0)
}

type stubProjects []project.Project

func (p stubProjects) List(context.Context, project.Kind) ([]project.Project, error) {
	return p, nil
}

func monthEvents() []event.Event {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return []event.Event{
		{ID: "b", Title: "検図", ProjectCode: "A-100", Start: start.Add(24 * time.Hour), End: start.Add(25 * time.Hour), ActivityCode: "DS07"},
		{ID: "a", Title: "作図", ProjectCode: "A-100", Start: start, End: start.Add(2 * time.Hour), ActivityCode: "PP02"},
	}
}

func TestService_SummaryUsesCache(t *testing.T) {
	ctx := context.Background()

	events := &stubEvents{}
	events.On("ListMonth", ctx, "E1", 2025, 3).Return(monthEvents(), nil).Once()
	cache := &stubCache{}
	cache.On("GetSummary", ctx, "E1", 2025, 3).Return(nil, false, nil).Once()
	cache.On("SetSummary", ctx, "E1", 2025, 3, mock.AnythingOfType("*report.Summary")).Return(nil).Once()

	svc := NewService(events, stubProjects{{Code: "A-100", Name: "高炉改修"}}, cache, time.UTC, nil)
	s, err := svc.Summary(ctx, "E1", 2025, 3)
	require.NoError(t, err)
	require.Equal(t, 2025, s.Year)
	require.Equal(t, 3, s.Month)
	require.InDelta(t, 3.0, s.TotalHours, 1e-9)
	require.Equal(t, "高炉改修", s.ByProject[0].Label)

	cache.On("GetSummary", ctx, "E1", 2025, 3).Return(s, true, nil).Once()
	again, err := svc.Summary(ctx, "E1", 2025, 3)
	require.NoError(t, err)
	require.Same(t, s, again)

	events.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_TableAndExport(t *testing.T) {
	ctx := context.Background()

	events := &stubEvents{}
	events.On("ListMonth", ctx, "E1", 2025, 3).Return(monthEvents(), nil)

	svc := NewService(events, nil, nil, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) }

	rows, err := svc.Table(ctx, "E1", 2025, 3, TableQuery{SortBy: "start", Direction: Asc})
	require.NoError(t, err)
	require.Equal(t, "a", rows[0].Get("id"))

	rows, err = svc.Table(ctx, "E1", 2025, 3, TableQuery{Filters: map[string]string{"activity_code": "ds"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var buf bytes.Buffer
	name, err := svc.ExportCSV(ctx, &buf, "E1", 2025, 3, TableQuery{})
	require.NoError(t, err)
	require.Equal(t, "zisseki_data_2025_3_2025-04-01.csv", name)
	require.Contains(t, buf.String(), "検図")
}

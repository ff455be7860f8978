package memstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_EventRepository(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := ev("a", "E1", monday.Add(13*time.Hour))
	b := ev("b", "E1", monday.Add(9*time.Hour))
	require.NoError(t, s.Create(ctx, &a))
	require.NoError(t, s.Create(ctx, &b))
	require.ErrorIs(t, s.Create(ctx, &a), repository.ErrConflict)

	got, err := s.Get(ctx, "E1", "a")
	require.NoError(t, err)
	require.Equal(t, "a", got.Title)
	_, err = s.Get(ctx, "E2", "a")
	require.ErrorIs(t, err, repository.ErrNotFound)

	got.Title = "changed"
	require.NoError(t, s.Update(ctx, got))

	list, err := s.List(ctx, "E1", event.ListOptions{From: monday, To: monday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b", list[0].ID)
	require.Equal(t, "changed", list[1].Title)

	require.NoError(t, s.SoftDelete(ctx, "E1", "b", monday))
	list, err = s.List(ctx, "E1", event.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = s.List(ctx, "E1", event.ListOptions{IncludeDeleted: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "a", list[0].ID)
}

func TestStore_ServiceWeekRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	svc := event.NewService(s, s, s.Changes(), event.WithLocation(time.UTC))

	n, err := svc.SaveWeek(ctx, "E1", 2025, 10, event.SaveWeekRequest{
		Events: []event.Event{
			{Title: "作図", Start: monday.Add(9 * time.Hour), End: monday.Add(12 * time.Hour), ActivityCode: "PP02"},
		},
		WorkTimes: []event.WorkTime{{Date: "2025-03-03", StartTime: "08:30", EndTime: "17:30"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	week, err := svc.GetWeek(ctx, "E1", 2025, 10)
	require.NoError(t, err)
	require.Len(t, week.Events, 1)
	require.Equal(t, "PP02", week.Events[0].ActivityCode)
	require.Len(t, week.WorkTimes, 1)

	changes, err := s.Changes().List(ctx, "E1", changelog.ListOptions{})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, changelog.TypeWeekSaved, changes[0].Type)
}

func TestStore_SaveWeekCannotTakeOverAnotherEmployeesEvent(t *testing.T) {
	ctx := context.Background()
	s := New()
	svc := event.NewService(s, s, s.Changes(), event.WithLocation(time.UTC))

	owned, err := svc.Create(ctx, "E1", event.CreateRequest{
		Title: "作図", Start: monday.Add(9 * time.Hour), End: monday.Add(10 * time.Hour), ActivityCode: "PP02",
	})
	require.NoError(t, err)

	_, err = svc.SaveWeek(ctx, "E2", 2025, 10, event.SaveWeekRequest{
		Events: []event.Event{
			{ID: owned.ID, Title: "乗っ取り", Start: monday.Add(11 * time.Hour), End: monday.Add(12 * time.Hour)},
		},
	})
	require.ErrorIs(t, err, event.ErrEventConflict)
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := svc.Get(ctx, "E1", owned.ID)
	require.NoError(t, err)
	require.Equal(t, "作図", got.Title)

	week, err := svc.GetWeek(ctx, "E2", 2025, 10)
	require.NoError(t, err)
	require.Empty(t, week.Events)
}

func TestStore_Projects(t *testing.T) {
	ctx := context.Background()
	repo := New().Projects()

	require.NoError(t, repo.Create(ctx, &project.Project{Code: "B", Kind: project.KindProject}))
	require.NoError(t, repo.Create(ctx, &project.Project{Code: "A", Kind: project.KindIndirect}))
	require.ErrorIs(t, repo.Create(ctx, &project.Project{Code: "A"}), repository.ErrConflict)

	list, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "A", list[0].Code)

	list, err = repo.List(ctx, project.KindProject)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "demo.json")

	s, err := Open(Options{Path: path, Autosave: true})
	require.NoError(t, err)
	a := ev("a", "E1", monday.Add(9*time.Hour))
	require.NoError(t, s.Create(ctx, &a))
	require.NoError(t, s.ReplaceWorkTimes(ctx, "E1", "2025-03-03", "2025-03-09", []event.WorkTime{{Date: "2025-03-03", StartTime: "09:00"}}))
	require.NoError(t, s.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"zisseki_demo_events"`)
	require.Contains(t, string(raw), `"zisseki_demo_work_times"`)
	require.Contains(t, string(raw), `"zisseki_demo_last_updated"`)

	reopened, err := Open(Options{Path: path})
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "E1", "a")
	require.NoError(t, err)
	require.True(t, got.Start.Equal(a.Start))
	wts, err := reopened.ListWorkTimes(ctx, "E1", "2025-03-03", "2025-03-09")
	require.NoError(t, err)
	require.Len(t, wts, 1)
	require.NoError(t, reopened.Close())
}

func TestStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Open(Options{Path: path})
	require.NoError(t, err)
	require.Empty(t, s.State().Events)
	require.NoError(t, s.Close())
}

func TestStore_BackgroundFlush(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "demo.json")

	s, err := Open(Options{Path: path, FlushInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	a := ev("a", "E1", monday.Add(9*time.Hour))
	require.NoError(t, s.Create(ctx, &a))

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, s.Close())
}

func TestStore_SelectEvent(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := ev("a", "E1", monday)
	require.NoError(t, s.Create(ctx, &a))

	require.NoError(t, s.Dispatch(SelectEvent{ID: "a"}))
	selected, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, "a", selected.ID)

	require.NoError(t, s.SoftDelete(ctx, "E1", "a", monday))
	_, ok = s.Selected()
	require.False(t, ok)
}

package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/stretchr/testify/require"
)

func block(project, code string, start time.Time, minutes int) event.Event {
	return event.Event{ProjectCode: project, ActivityCode: code, Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func TestSummarize(t *testing.T) {
	mon := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)
	events := []event.Event{
		block("A-100", "PP02", mon, 90),
		block("A-100", "DS07", tue, 60),
		block("", "ZKZZ", tue.Add(3*time.Hour), 30),
		block("B-200", "", mon.Add(5*time.Hour), 120),
	}

	got := Summarize(events, time.UTC, map[string]string{"A-100": "高炉改修"})

	want := Summary{
		TotalEvents: 4,
		TotalHours:  5,
		ByProject: []Entry{
			{Key: "A-100", Label: "高炉改修", Count: 2, Hours: 2.5},
			{Key: "B-200", Label: "B-200", Count: 1, Hours: 2},
			{Key: Unclassified, Label: Unclassified, Count: 1, Hours: 0.5},
		},
		ByActivityCode: []Entry{
			{Key: "DS07", Label: "設計 / 詳細図 / 検図", Count: 1, Hours: 1},
			{Key: "PP02", Label: "計画 / 計画図 / 作図及び作図準備", Count: 1, Hours: 1.5},
			{Key: "ZKZZ", Label: "控除時間（休憩／外出）", Count: 1, Hours: 0.5},
			{Key: Unclassified, Label: Unclassified, Count: 1, Hours: 2},
		},
		ByDay: []Entry{
			{Key: "2025-03-03", Label: "3/3(月)", Count: 2, Hours: 3.5},
			{Key: "2025-03-04", Label: "3/4(火)", Count: 2, Hours: 1.5},
		},
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout(t *testing.T) {
	mon := time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)
	events := []event.Event{
		{ID: "a", Start: mon, End: mon.Add(5 * time.Minute)},
		{ID: "b", Start: mon.AddDate(0, 0, 6), End: mon.AddDate(0, 0, 6).Add(time.Hour)},
		{ID: "outside", Start: mon.AddDate(0, 0, 7), End: mon.AddDate(0, 0, 7).Add(time.Hour)},
	}

	grid, err := Layout(events, 2025, 10, time.UTC)
	require.NoError(t, err)
	require.Len(t, grid.Days, 7)
	require.Len(t, grid.Blocks, 2)
	require.Equal(t, 0, grid.Blocks[0].Day)
	require.InDelta(t, 9.5*event.HourHeight, grid.Blocks[0].Top, 1e-9)
	require.InDelta(t, event.HourHeight/6, grid.Blocks[0].Height, 1e-9)
	require.Equal(t, 6, grid.Blocks[1].Day)

	_, err = Layout(events, 2031, 1, time.UTC)
	require.Error(t, err)
}

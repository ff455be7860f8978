package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/mcp"
	"github.com/rpggio/zisseki/internal/memstore"
	"github.com/rpggio/zisseki/internal/report"
	"github.com/stretchr/testify/require"
)

const testEmployee = "123456"

func newSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	store := memstore.New()
	projects := project.NewService(store.Projects(), nil)
	require.NoError(t, projects.EnsureDefaults(context.Background()))
	events := event.NewService(store, store, store.Changes(), event.WithLocation(loc))
	reports := report.NewService(events, projects, nil, loc, nil)

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Events:   events,
			Reports:  reports,
			Projects: projects,
		},
		DefaultEmployee: testEmployee,
		TransportMode:   "stdio",
		Version:         "test",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

func call(t *testing.T, s *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := s.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s", name)
	require.NotEmpty(t, res.Content, "tool %s returned no content", name)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "tool %s returned non-text content", name)
	return text.Text, res.IsError
}

func callJSON(t *testing.T, s *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	text, isErr := call(t, s, name, args)
	require.False(t, isErr, "tool %s failed: %s", name, text)
	require.NoError(t, json.Unmarshal([]byte(text), out))
}

func TestServer_ListsToolsAndDocs(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	init := s.InitializeResult()
	require.Equal(t, "zisseki", init.ServerInfo.Name)
	require.Equal(t, "test", init.ServerInfo.Version)

	tools, err := s.ListTools(ctx, nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
		require.NotEmpty(t, tool.Description, tool.Name)
	}
	for _, want := range []string{
		"list_activity_codes", "generate_activity_code", "parse_activity_code",
		"get_week", "save_week", "create_event", "update_event", "delete_event",
		"classify_event", "monthly_summary", "list_projects",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}

	read, err := s.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "zisseki://docs/activity-codes"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	require.Equal(t, "text/markdown", read.Contents[0].MIMEType)
	require.Contains(t, read.Contents[0].Text, "購入品")
}

func TestServer_ActivityCodeTools(t *testing.T) {
	s := newSession(t)

	var generated struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Known       bool   `json:"known"`
	}
	callJSON(t, s, "generate_activity_code", map[string]any{
		"sub_tab": "計画", "detail_tab": "計画図", "item_code": "07",
	}, &generated)
	require.Equal(t, "PP07", generated.Code)
	require.True(t, generated.Known)

	callJSON(t, s, "generate_activity_code", map[string]any{"sub_tab": "存在しない"}, &generated)
	require.Equal(t, "P000", generated.Code)

	var parsed struct {
		Code   string `json:"code"`
		Known  bool   `json:"known"`
		Parsed struct {
			SubTab    string `json:"sub_tab"`
			DetailTab string `json:"detail_tab"`
		} `json:"parsed"`
	}
	callJSON(t, s, "parse_activity_code", map[string]any{"code": "zkzz"}, &parsed)
	require.Equal(t, "ZKZZ", parsed.Code)
	require.True(t, parsed.Known)
	require.Equal(t, "休憩／外出", parsed.Parsed.DetailTab)

	text, isErr := call(t, s, "parse_activity_code", map[string]any{"code": "P-1"})
	require.True(t, isErr)
	require.Contains(t, text, "INVALID_ACTIVITY_CODE")

	var tree []struct {
		Domain string `json:"domain"`
	}
	callJSON(t, s, "list_activity_codes", map[string]any{"domain": "indirect"}, &tree)
	require.Len(t, tree, 3)
}

func TestServer_EventLifecycle(t *testing.T) {
	s := newSession(t)

	var created struct {
		ID           string `json:"id"`
		ActivityCode string `json:"activity_code"`
		Employee     string `json:"employee_number"`
	}
	callJSON(t, s, "create_event", map[string]any{
		"title":     "計画図作成",
		"start":     "2025-01-14T09:00",
		"end":       "2025-01-14T11:30",
		"selection": map[string]any{"sub_tab": "計画", "detail_tab": "計画図", "item_code": "02"},
	}, &created)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "PP02", created.ActivityCode)
	require.Equal(t, testEmployee, created.Employee)

	var updated struct {
		Title string `json:"title"`
	}
	callJSON(t, s, "update_event", map[string]any{"id": created.ID, "title": "見直し"}, &updated)
	require.Equal(t, "見直し", updated.Title)

	var classified struct {
		ActivityCode string `json:"activity_code"`
	}
	callJSON(t, s, "classify_event", map[string]any{
		"id":        created.ID,
		"selection": map[string]any{"sub_tab": "控除時間", "detail_tab": "休憩／外出"},
	}, &classified)
	require.Equal(t, "ZKZZ", classified.ActivityCode)

	var week struct {
		Events []struct {
			ID string `json:"id"`
		} `json:"events"`
	}
	callJSON(t, s, "get_week", map[string]any{"year": 2025, "week": 3}, &week)
	require.Len(t, week.Events, 1)
	require.Equal(t, created.ID, week.Events[0].ID)

	var summary struct {
		TotalEvents int     `json:"total_events"`
		TotalHours  float64 `json:"total_hours"`
	}
	callJSON(t, s, "monthly_summary", map[string]any{"year": 2025, "month": 1}, &summary)
	require.Equal(t, 1, summary.TotalEvents)
	require.InDelta(t, 2.5, summary.TotalHours, 0.001)

	var deleted struct {
		Deleted string `json:"deleted"`
	}
	callJSON(t, s, "delete_event", map[string]any{"id": created.ID}, &deleted)
	require.Equal(t, created.ID, deleted.Deleted)

	text, isErr := call(t, s, "delete_event", map[string]any{"id": created.ID})
	require.True(t, isErr)
	require.Contains(t, text, "EVENT_NOT_FOUND")
}

func TestServer_SaveWeek(t *testing.T) {
	s := newSession(t)

	var saved struct {
		Saved int `json:"saved"`
	}
	callJSON(t, s, "save_week", map[string]any{
		"year": 2025,
		"week": 3,
		"events": []map[string]any{
			{
				"title":     "日報",
				"start":     "2025-01-13T17:00:00+09:00",
				"end":       "2025-01-13T17:30:00+09:00",
				"selection": map[string]any{"sub_tab": "純間接", "detail_tab": "日報入力"},
			},
			{
				"title":         "定例",
				"start":         "2025-01-15T10:00",
				"end":           "2025-01-15T11:00",
				"activity_code": "mg11",
			},
		},
		"work_times": []map[string]any{
			{"date": "2025-01-13", "start_time": "08:30", "end_time": "17:30"},
		},
	}, &saved)
	require.Equal(t, 2, saved.Saved)

	var week struct {
		Events []struct {
			Title        string `json:"title"`
			ActivityCode string `json:"activity_code"`
		} `json:"events"`
		WorkTimes []struct {
			Date string `json:"date"`
		} `json:"work_times"`
	}
	callJSON(t, s, "get_week", map[string]any{"year": 2025, "week": 3}, &week)
	require.Len(t, week.Events, 2)
	codes := map[string]string{}
	for _, ev := range week.Events {
		codes[ev.Title] = ev.ActivityCode
	}
	require.Equal(t, "ZJD0", codes["日報"])
	require.Equal(t, "MG11", codes["定例"])
	require.Len(t, week.WorkTimes, 1)

	text, isErr := call(t, s, "save_week", map[string]any{
		"year": 2025,
		"week": 3,
		"events": []map[string]any{
			{"title": "翌週", "start": "2025-01-20T09:00", "end": "2025-01-20T10:00"},
		},
	})
	require.True(t, isErr)
	require.Contains(t, text, "OUTSIDE_WEEK")

	text, isErr = call(t, s, "save_week", map[string]any{
		"year": 2025, "week": 3,
		"events": []map[string]any{{"title": "x", "start": "yesterday", "end": "2025-01-13T10:00"}},
	})
	require.True(t, isErr)
	require.Contains(t, text, "INVALID_INPUT")
}

func TestServer_ListProjects(t *testing.T) {
	s := newSession(t)

	var out struct {
		Projects []struct {
			Code string `json:"code"`
			Kind string `json:"kind"`
		} `json:"projects"`
	}
	callJSON(t, s, "list_projects", map[string]any{"kind": "indirect"}, &out)
	require.Len(t, out.Projects, 3)
	for _, p := range out.Projects {
		require.Equal(t, "indirect", p.Kind)
	}
}

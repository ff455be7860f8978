package functional_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zisseki/internal/testserver"
	"github.com/stretchr/testify/require"
)

// headerTransport stamps the employee header on every MCP request.
type headerTransport struct {
	employee string
	base     http.RoundTripper
}

func (h *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Employee-Number", h.employee)
	return h.base.RoundTrip(req)
}

func connectHTTP(t *testing.T, ts *testserver.TestServer, employee string) *sdkmcp.ClientSession {
	t.Helper()

	httpClient := &http.Client{Transport: http.DefaultTransport}
	if employee != "" {
		httpClient.Transport = &headerTransport{employee: employee, base: http.DefaultTransport}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.URL("/mcp"),
		HTTPClient: httpClient,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "Tool %s returned no text content", name)
	require.False(t, result.IsError, "Tool %s returned error: %s", name, text.Text)
	return json.RawMessage(text.Text)
}

func TestFunctional_HeaderSelectsEmployee(t *testing.T) {
	ts := testserver.New(t, "000000")
	alice := connectHTTP(t, ts, "100001")
	bob := connectHTTP(t, ts, "100002")

	resp := callTool(t, alice, "create_event", map[string]any{
		"title":         "設計検討",
		"start":         "2025-03-04T09:00",
		"end":           "2025-03-04T10:30",
		"activity_code": "DS07",
	})
	var created struct {
		ID       string `json:"id"`
		Employee string `json:"employee_number"`
	}
	require.NoError(t, json.Unmarshal(resp, &created))
	require.Equal(t, "100001", created.Employee)

	var week struct {
		Events []json.RawMessage `json:"events"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, alice, "get_week", map[string]any{"year": 2025, "week": 10}), &week))
	require.Len(t, week.Events, 1)

	require.NoError(t, json.Unmarshal(callTool(t, bob, "get_week", map[string]any{"year": 2025, "week": 10}), &week))
	require.Empty(t, week.Events)
}

func TestFunctional_DefaultEmployeeWithoutHeader(t *testing.T) {
	ts := testserver.New(t, "999999")
	session := connectHTTP(t, ts, "")

	resp := callTool(t, session, "create_event", map[string]any{
		"title": "日報",
		"start": "2025-03-04T17:00:00+09:00",
		"end":   "2025-03-04T17:15:00+09:00",
		"selection": map[string]any{
			"sub_tab":    "純間接",
			"detail_tab": "日報入力",
		},
	})
	var created struct {
		Employee     string `json:"employee_number"`
		ActivityCode string `json:"activity_code"`
	}
	require.NoError(t, json.Unmarshal(resp, &created))
	require.Equal(t, "999999", created.Employee)
	require.Equal(t, "ZJD0", created.ActivityCode)
}

func TestFunctional_MCPAndRESTShareStore(t *testing.T) {
	ts := testserver.New(t, "000000")
	session := connectHTTP(t, ts, "100001")

	_ = callTool(t, session, "save_week", map[string]any{
		"year": 2025,
		"week": 10,
		"events": []map[string]any{
			{"title": "外部定例", "start": "2025-03-05T13:00", "end": "2025-03-05T15:00", "activity_code": "MG11"},
		},
	})

	req, err := http.NewRequest(http.MethodGet, ts.URL("/api/reports/2025/3/summary"), nil)
	require.NoError(t, err)
	req.Header.Set("X-Employee-Number", "100001")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		TotalHours     float64 `json:"total_hours"`
		ByActivityCode []struct {
			Key string `json:"key"`
		} `json:"by_activity_code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	require.InDelta(t, 2.0, summary.TotalHours, 0.001)
	require.Len(t, summary.ByActivityCode, 1)

	var mcpSummary struct {
		TotalHours float64 `json:"total_hours"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, session, "monthly_summary", map[string]any{"year": 2025, "month": 3}), &mcpSummary))
	require.InDelta(t, summary.TotalHours, mcpSummary.TotalHours, 0.001)
}

func TestFunctional_ToolErrorsAreReported(t *testing.T) {
	ts := testserver.New(t, "000000")
	session := connectHTTP(t, ts, "100001")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_week",
		Arguments: map[string]any{"year": 2025, "week": 60},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].(*sdkmcp.TextContent).Text, "INVALID_WEEK")
}

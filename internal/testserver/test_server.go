// Package testserver runs the full HTTP stack on an in-memory SQLite
// database for functional tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/mcp"
	"github.com/rpggio/zisseki/internal/report"
	"github.com/rpggio/zisseki/internal/sqlite"
	"github.com/rpggio/zisseki/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is a running API backed by a throwaway database.
type TestServer struct {
	Server         *httptest.Server
	DB             *sqlite.DB
	EmployeeNumber string
	Location       *time.Location
}

// New starts a server whose MCP calls default to employee.
func New(t *testing.T, employee string) *TestServer {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	eventRepo := sqlite.NewEventRepository(db)
	workTimeRepo := sqlite.NewWorkTimeRepository(db)
	changeRepo := sqlite.NewChangeLogRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)

	projectSvc := project.NewService(projectRepo, nil)
	require.NoError(t, projectSvc.EnsureDefaults(context.Background()))
	changeSvc := changelog.NewService(changeRepo, nil)
	eventSvc := event.NewService(eventRepo, workTimeRepo, changeRepo, event.WithLocation(loc))
	reportSvc := report.NewService(eventSvc, projectSvc, nil, loc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Events:   eventSvc,
			Reports:  reportSvc,
			Projects: projectSvc,
		},
		DefaultEmployee: employee,
		TransportMode:   "http",
		Version:         "test",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	router := transport.NewServer(transport.Services{
		Events:   eventSvc,
		Reports:  reportSvc,
		Projects: projectSvc,
		Changes:  changeSvc,
	}, transport.Options{MCP: mcpHandler})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:         server,
		DB:             db,
		EmployeeNumber: employee,
		Location:       loc,
	}
}

// URL joins path onto the server address.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/report"
	"go.uber.org/zap"
)

// EventService defines event operations needed by MCP.
type EventService interface {
	Create(ctx context.Context, employee string, req event.CreateRequest) (*event.Event, error)
	Update(ctx context.Context, employee string, req event.UpdateRequest) (*event.Event, error)
	Delete(ctx context.Context, employee, id string) error
	Classify(ctx context.Context, employee, id string, sel activitycode.Selection) (*event.Event, error)
	GetWeek(ctx context.Context, employee string, year, week int) (*event.WeekData, error)
	SaveWeek(ctx context.Context, employee string, year, week int, req event.SaveWeekRequest) (int, error)
	Location() *time.Location
}

// ReportService defines the month views needed by MCP.
type ReportService interface {
	Summary(ctx context.Context, employee string, year, month int) (*report.Summary, error)
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, kind project.Kind) ([]project.Project, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Events   EventService
	Reports  ReportService
	Projects ProjectService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// DefaultEmployee is used when a call carries no employee number.
	DefaultEmployee string
	TransportMode   string // "stdio" or "http"
	Version         string
	Logger          *zap.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "zisseki",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(employeeMiddleware(cfg.DefaultEmployee))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}

// Package transport exposes the time-record services over a chi REST API.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/metrics"
	"github.com/rpggio/zisseki/internal/report"
	"go.uber.org/zap"
)

// EventService defines event operations needed by the API.
type EventService interface {
	Create(ctx context.Context, employee string, req event.CreateRequest) (*event.Event, error)
	Get(ctx context.Context, employee, id string) (*event.Event, error)
	Update(ctx context.Context, employee string, req event.UpdateRequest) (*event.Event, error)
	Delete(ctx context.Context, employee, id string) error
	Classify(ctx context.Context, employee, id string, sel activitycode.Selection) (*event.Event, error)
	SetActivityCode(ctx context.Context, employee, id, code string) (*event.Event, error)
	GetWeek(ctx context.Context, employee string, year, week int) (*event.WeekData, error)
	SaveWeek(ctx context.Context, employee string, year, week int, req event.SaveWeekRequest) (int, error)
	Location() *time.Location
}

// ReportService defines the month views needed by the API.
type ReportService interface {
	Table(ctx context.Context, employee string, year, month int, q report.TableQuery) ([]report.Row, error)
	ExportCSV(ctx context.Context, w io.Writer, employee string, year, month int, q report.TableQuery) (string, error)
	Summary(ctx context.Context, employee string, year, month int) (*report.Summary, error)
}

// ProjectService defines project operations needed by the API.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context, kind project.Kind) ([]project.Project, error)
}

// ChangeService defines change log reads needed by the API.
type ChangeService interface {
	Recent(ctx context.Context, employee string, opts changelog.ListOptions) ([]changelog.Entry, error)
}

// Services contains all domain services needed by the API.
type Services struct {
	Events   EventService
	Reports  ReportService
	Projects ProjectService
	Changes  ChangeService
}

// Options tunes the router.
type Options struct {
	// MCP, when set, is mounted at /mcp.
	MCP     http.Handler
	Metrics bool
	Logger  *zap.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *zap.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svc Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if opts.Metrics {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Get("/health", srv.handleHealth)
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(EmployeeMiddleware)

		r.Route("/weeks/{year}/{week}", func(r chi.Router) {
			r.Get("/", srv.handleGetWeek)
			r.Put("/", srv.handleSaveWeek)
			r.Get("/grid", srv.handleGrid)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", srv.handleCreateEvent)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", srv.handleGetEvent)
				r.Patch("/", srv.handleUpdateEvent)
				r.Delete("/", srv.handleDeleteEvent)
				r.Post("/classification", srv.handleClassify)
				r.Put("/activity-code", srv.handleSetActivityCode)
			})
		})

		r.Route("/codes", func(r chi.Router) {
			r.Get("/tree", srv.handleCodeTree)
			r.Post("/generate", srv.handleGenerateCode)
			r.Get("/{code}", srv.handleParseCode)
		})

		r.Route("/reports/{year}/{month}", func(r chi.Router) {
			r.Get("/table", srv.handleTable)
			r.Get("/export.csv", srv.handleExportCSV)
			r.Get("/summary", srv.handleSummary)
		})

		r.Get("/projects", srv.handleListProjects)
		r.Post("/projects", srv.handleCreateProject)
		r.Get("/changes", srv.handleChanges)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// writeError maps err to a status, logging server-side failures.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeAPIError(w, status, &APIError{Code: code, Message: "internal error"})
		return
	}
	writeAPIError(w, status, &APIError{Code: code, Message: err.Error()})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func employee(r *http.Request) string {
	e, _ := EmployeeFromContext(r.Context())
	return e
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zisseki/internal/cache"
	"github.com/rpggio/zisseki/internal/config"
	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/logging"
	"github.com/rpggio/zisseki/internal/mcp"
	"github.com/rpggio/zisseki/internal/memstore"
	"github.com/rpggio/zisseki/internal/report"
	"github.com/rpggio/zisseki/internal/sqlite"
	"github.com/rpggio/zisseki/internal/transport"
	"go.uber.org/zap"
)

var version = "0.1.0"

// repositories is the storage backend selected by configuration.
type repositories struct {
	events    event.Repository
	workTimes event.WorkTimeRepository
	changes   changelog.Repository
	projects  project.Repository
	close     func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := logging.OpenFile(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger, err := logging.New(cfg.Log, logWriter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	repos, err := openRepositories(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	projectSvc := project.NewService(repos.projects, logger)
	if err := projectSvc.EnsureDefaults(context.Background()); err != nil {
		return fmt.Errorf("seeding indirect projects: %w", err)
	}
	changeSvc := changelog.NewService(repos.changes, logger)

	eventOpts := []event.Option{event.WithLocation(loc), event.WithLogger(logger)}
	var summaries report.SummaryCache
	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		summaryCache := cache.NewSummaryCache(rdb, cfg.Cache.TTL, loc, logger)
		if err := summaryCache.Ping(context.Background()); err != nil {
			logger.Warn("redis unavailable, summaries are not cached", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			summaries = summaryCache
			eventOpts = append(eventOpts, event.WithNotifier(summaryCache))
			logger.Info("summary cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Cache.TTL))
		}
	}

	eventSvc := event.NewService(repos.events, repos.workTimes, repos.changes, eventOpts...)
	reportSvc := report.NewService(eventSvc, projectSvc, summaries, loc, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Events:   eventSvc,
			Reports:  reportSvc,
			Projects: projectSvc,
		},
		DefaultEmployee: cfg.Transport.DefaultEmployee,
		TransportMode:   cfg.Transport.Mode,
		Version:         version,
		Logger:          logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(logger, mcpServer)
	}

	services := transport.Services{
		Events:   eventSvc,
		Reports:  reportSvc,
		Projects: projectSvc,
		Changes:  changeSvc,
	}
	return runHTTPMode(logger, cfg, services, mcpServer)
}

func openRepositories(cfg config.Config, logger *zap.Logger) (*repositories, error) {
	if cfg.Store.Driver == "memory" {
		if err := ensureDir(cfg.Store.SnapshotPath); err != nil {
			return nil, fmt.Errorf("preparing snapshot path: %w", err)
		}
		store, err := memstore.Open(memstore.Options{
			Path:          cfg.Store.SnapshotPath,
			Autosave:      cfg.Store.Autosave,
			FlushInterval: cfg.Store.FlushInterval,
			Logger:        logger,
		})
		if err != nil {
			return nil, fmt.Errorf("opening memory store: %w", err)
		}
		logger.Info("using memory store", zap.String("snapshot", cfg.Store.SnapshotPath))
		return &repositories{
			events:    store,
			workTimes: store,
			changes:   store.Changes(),
			projects:  store.Projects(),
			close:     store.Close,
		}, nil
	}

	if err := ensureDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("using sqlite store", zap.String("path", cfg.DB.Path))
	return &repositories{
		events:    sqlite.NewEventRepository(db),
		workTimes: sqlite.NewWorkTimeRepository(db),
		changes:   sqlite.NewChangeLogRepository(db),
		projects:  sqlite.NewProjectRepository(db),
		close:     db.Close,
	}, nil
}

func runStdioMode(logger *zap.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(logger *zap.Logger, cfg config.Config, services transport.Services, mcpServer *sdkmcp.Server) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := transport.NewServer(services, transport.Options{
		MCP:     mcpHandler,
		Metrics: cfg.Metrics.Enabled,
		Logger:  logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(logger, httpServer, errCh)
}

func waitForShutdown(logger *zap.Logger, server *http.Server, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/memopad/internal/api"
	"github.com/starford/memopad/internal/fonts"
	"github.com/starford/memopad/internal/mcpserver"
	"github.com/starford/memopad/internal/notes"
	"github.com/starford/memopad/internal/sse"
	"github.com/starford/memopad/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// Run starts the HTTP command server with the given options and blocks until
// ctx is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("notes_folder", cfg.Notes.Folder),
		slog.Bool("dialogs", cfg.Dialog.Enabled),
		slog.Int("font_max_size_mb", cfg.Fonts.MaxSizeMB),
		slog.String("log_level", cfg.App.LogLevel.String()))

	picker := app.dialogPicker()
	noteSvc := notes.NewService(picker)
	fontSvc := fonts.NewService(cfg.Fonts.ResolveDataDir,
		fonts.WithPicker(picker),
		fonts.WithMaxSize(cfg.Fonts.MaxSizeBytes()),
	)

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	g, gCtx := errgroup.WithContext(ctx)

	manager := watch.NewManager(gCtx, logger, broker.PublishMemoEvent)
	defer manager.Close()
	watcher := announcingWatcher{watcher: manager, broker: broker}
	if cfg.Notes.Folder != "" {
		if err := watcher.Set(cfg.Notes.Folder); err != nil {
			logger.Warn("initial watch failed",
				slog.String("folder", cfg.Notes.Folder),
				slog.String("error", err.Error()))
		}
	}

	handler := api.NewHandler(noteSvc, fontSvc, watcher)
	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRouter(cfg, handler, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...", slog.Int("sse_clients", broker.ClientCount()))

		// Close the broker first so open event streams return and Shutdown
		// does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// announcingWatcher publishes folder.changed after each successful switch.
type announcingWatcher struct {
	watcher api.FolderWatcher
	broker  *sse.Broker
}

func (a announcingWatcher) Set(folder string) error {
	if err := a.watcher.Set(folder); err != nil {
		return err
	}
	a.broker.Publish(sse.Event{Type: sse.FolderChanged, Data: map[string]string{"path": folder}})
	return nil
}

type eventStream interface {
	http.Handler
	ClientCount() int
}

// newRouter builds the root mux: unauthenticated health checks plus the
// command API and event stream under /api. Readiness reports connected
// stream clients.
func newRouter(cfg *Config, h *api.Handler, events eventStream) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	health := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
	r.Get("/health/live", health)
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		clients := 0
		if events != nil {
			clients = events.ClientCount()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","sse_clients":%d}`, clients)
	})

	r.Mount("/api", api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, events))
	return r
}

// RunMCP serves the note tools for the configured notes folder over stdio.
// Logs go to stderr because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := app.logger(os.Stderr)
	slog.SetDefault(logger)

	if cfg.Notes.Folder == "" {
		return fmt.Errorf("notes.folder is required for the MCP server")
	}
	info, err := os.Stat(cfg.Notes.Folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("notes.folder %q is not a directory", cfg.Notes.Folder)
	}

	// MCP clients have no user present to answer a picker.
	srv := mcpserver.New(cfg.Notes.Folder, notes.NewService(nil), app.version)
	logger.Info("MCP server starting", slog.String("folder", cfg.Notes.Folder))
	return srv.ServeStdio()
}

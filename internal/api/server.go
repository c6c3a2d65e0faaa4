// Package api exposes the client's current item states and the result
// journal over HTTP, so the test station can scrape results instead of
// reading the display.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/benchworks/jig-client/internal/client"
	"github.com/benchworks/jig-client/internal/journal"
)

// SnapshotSource is what the server needs from the dispatch loop.
type SnapshotSource interface {
	Snapshot() client.Snapshot
}

// Config holds API server configuration.
type Config struct {
	Listen string
}

// Server is the status HTTP server.
type Server struct {
	cfg       Config
	source    SnapshotSource
	journal   *journal.Journal
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
}

// New creates a status server. journal may be nil when journaling is off.
func New(cfg Config, source SnapshotSource, j *journal.Journal, logger *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		source:    source,
		journal:   j,
		logger:    logger.With("component", "api"),
		startedAt: time.Now(),
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status API listening", "addr", s.cfg.Listen)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRunResults)
	})
	return r
}

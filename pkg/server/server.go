// Package server provides the HTTP API for serve mode.
//
// The server exposes the pipeline over REST: computing layouts, rendering
// grids, and publishing immutable snapshots. Routes:
//
//	GET  /healthz                 - liveness probe
//	GET  /v1/feeds                - configured feeds (IDs and names only)
//	POST /v1/layout               - compute a layout, return geometry JSON
//	POST /v1/render               - render a grid, return the artifact
//	GET  /v1/grid/{date}          - render a grid for a date (query: source, view, format, style)
//	POST /v1/snapshots            - publish a snapshot of the current layout
//	GET  /v1/snapshots            - list snapshots (query: date)
//	GET  /v1/snapshots/{id}       - fetch one snapshot, optionally rendered
//	DELETE /v1/snapshots/{id}     - remove a snapshot
//
// Snapshot routes return 404 unless a store is configured.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/daygrid/daygrid/pkg/config"
	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/source"
	"github.com/daygrid/daygrid/pkg/source/ics"
	"github.com/daygrid/daygrid/pkg/store"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves the daygrid HTTP API.
type Server struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	store   store.Store
	fetcher *ics.Fetcher
	logger  *log.Logger
	cron    *cron.Cron
}

// New creates a server. store may be nil (snapshot routes disabled).
func New(cfg *config.Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:     cfg,
		runner:  runner,
		store:   st,
		fetcher: ics.NewFetcher(runner.Cache, logger),
		logger:  logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/feeds", s.handleFeeds)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Get("/grid/{date}", s.handleGrid)

		r.Post("/snapshots", s.handlePublishSnapshot)
		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/{id}", s.handleGetSnapshot)
		r.Delete("/snapshots/{id}", s.handleDeleteSnapshot)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully. The refresh worker runs alongside when configured.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	if err := s.startRefreshWorker(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.stopRefreshWorker()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		s.stopRefreshWorker()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startRefreshWorker schedules periodic cache-warming loads for every
// configured feed.
func (s *Server) startRefreshWorker(ctx context.Context) error {
	if s.cfg.RefreshCron == "" || len(s.cfg.Feeds) == 0 {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(s.cfg.RefreshCron, func() { s.refreshFeeds(ctx) })
	if err != nil {
		return fmt.Errorf("invalid refresh cron %q: %w", s.cfg.RefreshCron, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("refresh worker started", "cron", s.cfg.RefreshCron, "feeds", len(s.cfg.Feeds))
	return nil
}

func (s *Server) stopRefreshWorker() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// refreshFeeds re-loads today's schedule for every feed with the cache
// bypassed, so interactive requests afterwards hit warm entries.
func (s *Server) refreshFeeds(ctx context.Context) {
	today := time.Now().Format("2006-01-02")
	for _, feed := range s.cfg.Feeds {
		opts := pipeline.Options{
			Source:   s.feedSource(feed),
			Date:     today,
			Timezone: s.cfg.Timezone,
			Refresh:  true,
			Logger:   s.logger,
		}
		if _, err := s.runner.Load(ctx, opts); err != nil {
			s.logger.Warn("feed refresh failed", "feed", feed.ID, "error", err)
		}
	}
}

func (s *Server) feedSource(feed ics.Feed) source.Source {
	return ics.NewFeedSource(feed, s.fetcher)
}

// sourceFor resolves a configured feed ID to a source.
func (s *Server) sourceFor(id string) (source.Source, error) {
	feed, ok := s.cfg.Feed(id)
	if !ok {
		return nil, fmt.Errorf("unknown source: %q", id)
	}
	return s.feedSource(feed), nil
}

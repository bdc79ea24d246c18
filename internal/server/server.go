// Package server provides the HTTP API for the Crime 360 engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/crime360/internal/app"
	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/metrics"
)

// ReloadFunc builds a fresh runtime from the seed source.
type ReloadFunc func(ctx context.Context) (*app.Runtime, error)

// Server is the HTTP server for the Crime 360 API. It serves whichever runtime was
// swapped in last; requests already running keep the runtime they started with.
type Server struct {
	runtime  atomic.Pointer[app.Runtime]
	reload   ReloadFunc
	reloadMu sync.Mutex
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithReloader enables POST /api/v1/admin/reload and Server.Reload.
func WithReloader(fn ReloadFunc) Option {
	return func(s *Server) { s.reload = fn }
}

// NewServer creates a server over rt.
func NewServer(rt *app.Runtime, cfg *config.ServerConfig, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{config: cfg, logger: logger}
	s.runtime.Store(rt)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Runtime returns the runtime currently being served.
func (s *Server) Runtime() *app.Runtime {
	return s.runtime.Load()
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/incidents/search", s.handleSearch)
		r.Post("/incidents/export", s.handleExport)
		r.Get("/incidents/aggregations/{field}", s.handleAggregate)
		r.Post("/faces/search", s.handleFaceSearch)
		r.Post("/faces/match", s.handleFaceMatch)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/heatmap", s.handleHeatmap)
		r.Get("/status", s.handleStatus)
		r.Post("/admin/reload", s.handleReload)
	})
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.config.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeoutSec) * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server and releases the current runtime.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	if rt := s.runtime.Load(); rt != nil {
		_ = rt.Close()
	}
	return err
}

// Reload builds a new runtime and swaps it in. The previous runtime is closed once requests
// that may still hold it have had time to finish.
func (s *Server) Reload(ctx context.Context) (*app.Runtime, error) {
	if s.reload == nil {
		return nil, errReloadDisabled
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	rt, err := s.reload(ctx)
	if err != nil {
		s.logger.Error("reload failed, keeping current snapshot", zap.Error(err))
		return nil, err
	}
	old := s.runtime.Swap(rt)
	if old != nil {
		time.AfterFunc(s.drainPeriod(), func() {
			if err := old.Close(); err != nil {
				s.logger.Warn("closing previous runtime", zap.Error(err))
			}
		})
	}
	s.logger.Info("snapshot reloaded", zap.String("source", rt.Source.Describe()))
	return rt, nil
}

func (s *Server) drainPeriod() time.Duration {
	if s.config != nil && s.config.WriteTimeoutSec > 0 {
		return time.Duration(s.config.WriteTimeoutSec) * time.Second
	}
	return 30 * time.Second
}

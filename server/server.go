package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/builder.go -pkg mocks -skip-ensure -fmt goimports . AlertBuilder

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	builder AlertBuilder
	version string
	debug   bool

	htmlPolicy *bluemonday.Policy // safe html of alert summaries
	textPolicy *bluemonday.Policy // plain text of alert summaries

	metrics MetricsProvider

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// MetricsProvider exposes the scrape handler and response counting middleware
type MetricsProvider interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
}

// Option configures optional server features
type Option func(s *Server)

// WithMetrics serves GET /metrics and counts responses
func WithMetrics(m MetricsProvider) Option {
	return func(s *Server) { s.metrics = m }
}

// AlertBuilder builds the alert set for a request
type AlertBuilder interface {
	Build(ctx context.Context, req alerts.Request) *domain.AlertSet
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetDefaultLimit() int
}

// New initializes a new server instance
func New(cfg ConfigProvider, builder AlertBuilder, version string, debug bool, opts ...Option) *Server {
	s := &Server{
		config:     cfg,
		builder:    builder,
		version:    version,
		debug:      debug,
		htmlPolicy: bluemonday.UGCPolicy(),
		textPolicy: bluemonday.StrictPolicy(),
		router:     routegroup.New(http.NewServeMux()),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	srv := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// ServeHTTP makes the server usable as a handler, mostly for tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("nwsalerts", "umputun", s.version))
	s.router.Use(rest.Ping)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // requests carry query parameters only
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /alerts", s.alertsHandler)
		r.HandleFunc("GET /alerts/map", s.alertsMapHandler)
	})
}

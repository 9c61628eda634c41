package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mvickery/hearth-core/internal/household"
	"github.com/mvickery/hearth-core/internal/infrastructure/config"
	"github.com/mvickery/hearth-core/internal/infrastructure/logging"
	"github.com/mvickery/hearth-core/internal/scheduler"
)

// gracefulShutdownTimeout is how long Close waits for in-flight
// requests to drain before forcing the listener shut.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds everything the server needs to run. Service is mandatory;
// Scheduler and Hub may be nil, which disables the force-tick endpoint
// and the websocket endpoint respectively.
type Deps struct {
	Config    config.APIConfig
	WSConfig  config.WebSocketConfig
	Logger    *logging.Logger
	Service   *household.Service
	Scheduler *scheduler.Scheduler
	Hub       *Hub
	Version   string
}

// Server is the HTTP surface of the automation core.
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	logger    *logging.Logger
	service   *household.Service
	scheduler *scheduler.Scheduler
	hub       *Hub
	version   string

	httpServer *http.Server
}

// New creates a server from its dependencies.
//
// Parameters:
//   - deps: Dependency bundle; Service must be non-nil
//
// Returns:
//   - *Server: Configured server, not yet listening
//   - error: If a mandatory dependency is missing
func New(deps Deps) (*Server, error) {
	if deps.Service == nil {
		return nil, errors.New("api: household service is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WSConfig,
		logger:    logger,
		service:   deps.Service,
		scheduler: deps.Scheduler,
		hub:       deps.Hub,
		version:   deps.Version,
	}, nil
}

// Start begins listening in a background goroutine and returns
// immediately. Listener failures after startup are logged, not raised.
func (s *Server) Start(_ context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("http server starting", "addr", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	return nil
}

// Close drains in-flight requests and shuts the listener down.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// HealthCheck reports whether the server is accepting requests.
func (s *Server) HealthCheck(_ context.Context) error {
	if s.httpServer == nil {
		return errors.New("api: server not started")
	}
	return nil
}

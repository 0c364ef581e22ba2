// Package api provides the HTTP REST API and WebSocket server for FarmCore.
//
// It exposes irrigation zone operations, system management, and analytics
// endpoints to user interfaces (field dashboards, mobile apps), plus a
// WebSocket stream of live zone state changes.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tillerlabs/farmcore/internal/analytics"
	"github.com/tillerlabs/farmcore/internal/audit"
	"github.com/tillerlabs/farmcore/internal/control"
	"github.com/tillerlabs/farmcore/internal/infrastructure/config"
	"github.com/tillerlabs/farmcore/internal/infrastructure/logging"
	"github.com/tillerlabs/farmcore/internal/system"
	"github.com/tillerlabs/farmcore/internal/zone"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Security    config.SecurityConfig
	DefaultFarm string // farm scope applied in dev mode when no token is present
	Logger      *logging.Logger
	Zones       *zone.Registry
	Controller  *control.Controller
	Orch        *control.Orchestrator
	System      *system.Manager
	Analytics   *analytics.Service
	Weather     analytics.WeatherProvider
	Audit       audit.Repository
	ExternalHub *Hub // If set, the server uses this hub instead of creating its own
	Version     string
}

// Server is the HTTP API server for FarmCore.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	secCfg      config.SecurityConfig
	defaultFarm string
	logger      *logging.Logger
	zones       *zone.Registry
	controller  *control.Controller
	orch        *control.Orchestrator
	system      *system.Manager
	analytics   *analytics.Service
	weather     analytics.WeatherProvider
	audit       audit.Repository
	version     string
	server      *http.Server
	hub         *Hub
	externalHub bool               // true if hub was injected externally
	cancel      context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Zones == nil {
		return nil, fmt.Errorf("zone registry is required")
	}
	if deps.Controller == nil {
		return nil, fmt.Errorf("zone controller is required")
	}
	if deps.Orch == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if deps.System == nil {
		return nil, fmt.Errorf("system manager is required")
	}
	if deps.Weather == nil {
		deps.Weather = analytics.NewMockWeather()
	}

	s := &Server{
		cfg:         deps.Config,
		wsCfg:       deps.WS,
		secCfg:      deps.Security,
		defaultFarm: deps.DefaultFarm,
		logger:      deps.Logger,
		zones:       deps.Zones,
		controller:  deps.Controller,
		orch:        deps.Orch,
		system:      deps.System,
		analytics:   deps.Analytics,
		weather:     deps.Weather,
		audit:       deps.Audit,
		version:     deps.Version,
	}

	// Use externally-provided hub if available (needed when the event
	// fan-out also requires the hub for WebSocket broadcasting).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Hub returns the server's WebSocket hub, creating it if necessary.
// Used by main to wire the event fan-out before Start().
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

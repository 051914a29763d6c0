// Package server wires the HTTP surface together: routes, middleware
// chain, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"metaweb/console/pkg/admin"
	"metaweb/console/pkg/config"
	"metaweb/console/pkg/httpapi/handlers"
	"metaweb/console/pkg/httpapi/middleware"
	"metaweb/console/pkg/modelconfig"
	"metaweb/console/pkg/telemetry/metrics"
	"metaweb/console/pkg/upstream"
)

// Server is the HTTP server for the configuration console and chat
// proxy.
type Server struct {
	config     *config.Config
	service    *modelconfig.Service
	store      modelconfig.Store
	gateway    upstream.Gateway
	authorizer *admin.Authorizer
	collector  *metrics.Collector

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new server from its wired dependencies.
func NewServer(
	cfg *config.Config,
	service *modelconfig.Service,
	store modelconfig.Store,
	gateway upstream.Gateway,
	authorizer *admin.Authorizer,
	collector *metrics.Collector,
) *Server {
	return &Server{
		config:       cfg,
		service:      service,
		store:        store,
		gateway:      gateway,
		authorizer:   authorizer,
		collector:    collector,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.config.Server.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain. Admin
// authorization wraps only the mutating configuration routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	configHandler := handlers.NewConfigHandler(s.service, s.collector)
	chatHandler := handlers.NewChatHandler(s.service, s.gateway, s.collector)
	modelsHandler := handlers.NewModelsHandler()
	healthHandler := handlers.NewHealthHandler(s.store)

	adminOnly := middleware.AdminAuthMiddleware(s.authorizer)

	mux.HandleFunc("GET /config/active", configHandler.Active)
	mux.HandleFunc("GET /config/history", configHandler.History)
	mux.Handle("POST /config", adminOnly(http.HandlerFunc(configHandler.Create)))
	mux.Handle("POST /config/{id}/publish", adminOnly(http.HandlerFunc(configHandler.Publish)))

	mux.HandleFunc("POST /chat", chatHandler.Chat)
	mux.HandleFunc("POST /evaluate", chatHandler.Evaluate)
	mux.HandleFunc("GET /models", modelsHandler.List)

	mux.HandleFunc("GET /health", healthHandler.Live)
	mux.HandleFunc("GET /healthz", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)

	if s.config.Telemetry.Metrics.Enabled && s.collector != nil {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	var handler http.Handler = mux

	if s.config.Server.CORSEnabled {
		handler = middleware.CORSMiddleware(middleware.DefaultCORSConfig())(handler)
	}
	if s.collector != nil {
		handler = middleware.MetricsMiddleware(s.collector)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)
	// Request IDs are assigned outermost so recovery and logging lines
	// carry them.
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. Used by tests to exercise
// the full route and middleware stack without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

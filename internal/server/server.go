package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moritani/accountd/internal/auth"
	"github.com/moritani/accountd/internal/config"
	"github.com/moritani/accountd/internal/server/middleware"
	"github.com/moritani/accountd/internal/storage"
)

// HandlerSet contains all HTTP handlers
type HandlerSet struct {
	Signup     http.HandlerFunc
	GetUser    http.HandlerFunc
	UpdateUser http.HandlerFunc
	Close      http.HandlerFunc
	Health     http.HandlerFunc
	NotFound   http.HandlerFunc
}

// Server represents the HTTP server
type Server struct {
	config        *config.Config
	logger        *slog.Logger
	store         storage.Store
	authenticator auth.Authenticator
	httpServer    *http.Server
	handlers      HandlerSet
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *slog.Logger, store storage.Store, authenticator auth.Authenticator) *Server {
	return &Server{
		config:        cfg,
		logger:        logger,
		store:         store,
		authenticator: authenticator,
	}
}

// SetHandlers sets all handlers (called from the CLI wiring)
func (s *Server) SetHandlers(handlers HandlerSet) {
	s.handlers = handlers
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server",
		"host", s.config.Server.Host,
		"port", s.config.Server.Port,
		"storage_uri", s.config.Storage.URI)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("Shutdown signal received", "signal", sig.String())
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.logger.Info("Initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server shutdown failed", "error", err)
		return err
	}

	// Close storage
	if err := s.store.Close(); err != nil {
		s.logger.Error("Storage close failed", "error", err)
		return err
	}

	s.logger.Info("Server stopped gracefully")
	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware (applied to all routes)
	router.Use(middleware.Logging(s.logger))
	router.Use(middleware.NewRateLimiter(100)) // 100 req/min per IP
	router.Use(middleware.CORS())

	// Account creation (no auth required)
	if s.handlers.Signup != nil {
		router.Post("/signup", s.handlers.Signup)
	}

	// Profile operations (handlers authenticate themselves; the update
	// endpoint checks ownership before validating the body, which a
	// route-level auth middleware could not order correctly)
	if s.handlers.GetUser != nil {
		router.Get("/users/{user_id}", s.handlers.GetUser)
	}
	if s.handlers.UpdateUser != nil {
		router.Patch("/users/{user_id}", s.handlers.UpdateUser)
	}

	// Account closure (auth required, own record only)
	if s.handlers.Close != nil {
		router.Post("/close", s.handlers.Close)
	}

	// Health endpoint (no auth required)
	if s.handlers.Health != nil {
		router.Get("/health", s.handlers.Health)
	}

	// There is no root resource; every unrouted path gets the JSON 404
	if s.handlers.NotFound != nil {
		router.NotFound(s.handlers.NotFound)
	}

	return router
}

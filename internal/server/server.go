package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/skylane/internal/app"
)

// Server manages the HTTP server and routes
type Server struct {
	app     *app.App
	router  *http.ServeMux
	limiter *RateLimiter
	server  *http.Server
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	s := &Server{
		app: application,
	}

	rl := application.Config.RateLimit
	if rl.Enabled {
		s.limiter = NewRateLimiter(rl.RequestsPerMinute, rl.Burst, application.TrustedProxies, application.Logger)
	}

	// Setup routes
	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.withMiddleware(s.router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second, // LLM calls with retries
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.server.Addr

	s.app.Logger.Info().
		Str("address", addr).
		Msg("HTTP server starting")

	s.app.Logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", s.app.Config.Server.Host, s.app.Config.Server.Port)).
		Str("wechat", fmt.Sprintf("http://%s:%d/wechat", s.app.Config.Server.Host, s.app.Config.Server.Port)).
		Msg("Site available")

	if s.limiter != nil {
		s.limiter.StartCleanup(5 * time.Minute)
	}

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server...")

	if s.limiter != nil {
		s.limiter.Stop()
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}

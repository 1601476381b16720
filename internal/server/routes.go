package server

import (
	"net/http"

	"github.com/ternarybob/skylane/internal/handlers"
	"github.com/ternarybob/skylane/pages"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI Page routes (HTML templates)
	mux.HandleFunc("/", s.app.PageHandler.Index)
	mux.HandleFunc("/wechat", s.app.PageHandler.WeChat)
	mux.HandleFunc("/dashboard", s.app.PageHandler.Dashboard)

	// Static files (JS, CSS)
	mux.Handle("/static/", handlers.StaticHandler(pages.Static()))

	// Contact form (rate limited)
	mux.Handle("/contact", s.rateLimited(s.app.ContactHandler.Submit))

	// API routes - AI proxies (rate limited)
	mux.Handle("/api/smart-rfq", s.rateLimited(s.app.RFQHandler.SmartRFQ))
	mux.Handle("/api/ai-chat", s.rateLimited(s.app.ChatHandler.AIChat))

	// API routes - Content
	mux.HandleFunc("/api/content", s.app.ContentHandler.Content)
	mux.HandleFunc("/api/dashboard", s.app.ContentHandler.Dashboard)

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	// Metrics
	mux.Handle("/metrics", s.app.Metrics.Handler())

	return mux
}

// rateLimited wraps handler with the per-client limiter when enabled
func (s *Server) rateLimited(handler http.HandlerFunc) http.Handler {
	if s.limiter == nil {
		return handler
	}
	return s.limiter.Handler(handler)
}

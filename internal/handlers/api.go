package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
)

type APIHandler struct {
	logger arbor.ILogger
	ready  func() error
}

// NewAPIHandler creates the health/version handler. ready reports whether
// the hosted model provider is configured and may be nil.
func NewAPIHandler(logger arbor.ILogger, ready func() error) *APIHandler {
	return &APIHandler{
		logger: logger,
		ready:  ready,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns health check status. The site stays healthy when
// no model provider is configured; only the AI endpoints are affected.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	llm := "ready"
	if h.ready != nil {
		if err := h.ready(); err != nil {
			llm = err.Error()
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"llm":    llm,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}

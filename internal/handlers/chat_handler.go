package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/services/assistant"
)

// ChatHandler handles chat widget requests
type ChatHandler struct {
	assistant ChatResponder
	logger    arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(responder ChatResponder, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		assistant: responder,
		logger:    logger,
	}
}

// AIChat handles POST /api/ai-chat
func (h *ChatHandler) AIChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	req := DecodeJSONLenient[assistant.Request](w, r)

	reply, err := h.assistant.Reply(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrFeatureDisabled):
			WriteError(w, http.StatusForbidden, "AI chat is disabled")
		case errors.Is(err, interfaces.ErrProviderNotConfigured):
			h.logger.Warn().Err(err).Msg("AI chat requested without a configured provider")
			WriteError(w, http.StatusInternalServerError, err.Error())
		case errors.Is(err, assistant.ErrNoMessages):
			WriteError(w, http.StatusBadRequest, "No messages provided")
		default:
			h.logger.Error().Err(err).Msg("AI chat request failed")
			WriteErrorDetail(w, http.StatusInternalServerError, "AI chat request failed", upstreamDetail(err))
		}
		return
	}

	WriteJSON(w, http.StatusOK, reply)
}

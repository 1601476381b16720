package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/services/rfq"
)

// RFQHandler serves the Smart RFQ expander
type RFQHandler struct {
	rfq    RFQExpander
	logger arbor.ILogger
}

// NewRFQHandler creates a new Smart RFQ handler
func NewRFQHandler(expander RFQExpander, logger arbor.ILogger) *RFQHandler {
	return &RFQHandler{
		rfq:    expander,
		logger: logger,
	}
}

// SmartRFQ handles POST /api/smart-rfq
func (h *RFQHandler) SmartRFQ(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	req := DecodeJSONLenient[rfq.Request](w, r)

	result, err := h.rfq.Expand(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrFeatureDisabled):
			WriteError(w, http.StatusForbidden, "Smart RFQ is disabled")
		case errors.Is(err, interfaces.ErrProviderNotConfigured):
			h.logger.Warn().Err(err).Msg("Smart RFQ requested without a configured provider")
			WriteError(w, http.StatusInternalServerError, err.Error())
		case errors.Is(err, common.ErrInvalidRequest):
			WriteErrorDetail(w, http.StatusBadRequest, "Invalid request", err.Error())
		default:
			h.logger.Error().Err(err).Msg("Smart RFQ generation failed")
			WriteErrorDetail(w, http.StatusInternalServerError, "Smart RFQ generation failed", upstreamDetail(err))
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

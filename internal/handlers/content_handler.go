package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/catalog"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/models"
)

// ContentHandler exposes the localized catalog as JSON
type ContentHandler struct {
	catalog   *catalog.Catalog
	inquiries InquiryReader
	usage     UsageCounter
	logger    arbor.ILogger
}

// NewContentHandler creates a new content handler. inquiries and usage may be nil.
func NewContentHandler(cat *catalog.Catalog, inquiries InquiryReader, usage UsageCounter, logger arbor.ILogger) *ContentHandler {
	return &ContentHandler{
		catalog:   cat,
		inquiries: inquiries,
		usage:     usage,
		logger:    logger,
	}
}

// ContentResponse is returned by GET /api/content
type ContentResponse struct {
	Lang     i18n.Lang                  `json:"lang"`
	Projects []catalog.LocalizedProject `json:"projects"`
	Packages []catalog.LocalizedPackage `json:"packages"`
}

// DashboardResponse is returned by GET /api/dashboard
type DashboardResponse struct {
	Lang           i18n.Lang `json:"lang"`
	InquiriesTotal int       `json:"inquiries_total"`
	AIUsage        *AIUsage  `json:"ai_usage,omitempty"`
	catalog.DashboardSummary
}

// Content handles GET /api/content?lang=
func (h *ContentHandler) Content(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	lang := i18n.FromRequest(r, i18n.EN)
	WriteJSON(w, http.StatusOK, &ContentResponse{
		Lang:     lang,
		Projects: h.catalog.LocalizeProjects(lang),
		Packages: h.catalog.LocalizePackages(lang),
	})
}

// Dashboard handles GET /api/dashboard?lang=
func (h *ContentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	lang := i18n.FromRequest(r, i18n.EN)

	var live []models.Inquiry
	resp := &DashboardResponse{Lang: lang}

	if h.inquiries != nil {
		var err error
		if live, err = h.inquiries.Recent(ctx, catalog.MaxLiveLeads); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to list inquiries")
		}
		if resp.InquiriesTotal, err = h.inquiries.Total(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to count inquiries")
		}
	}

	if h.usage != nil {
		rfqCount, rfqErr := h.usage.CountByOperation(ctx, models.OperationSmartRFQ)
		chatCount, chatErr := h.usage.CountByOperation(ctx, models.OperationAIChat)
		if rfqErr == nil && chatErr == nil {
			resp.AIUsage = &AIUsage{SmartRFQ: rfqCount, AIChat: chatCount}
		} else {
			h.logger.Warn().Err(errors.Join(rfqErr, chatErr)).Msg("Failed to count AI usage")
		}
	}

	resp.DashboardSummary = h.catalog.BuildDashboardSummary(lang, live)
	WriteJSON(w, http.StatusOK, resp)
}

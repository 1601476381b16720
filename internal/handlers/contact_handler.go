package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/services/inquiry"
)

// ContactHandler handles the landing page contact form
type ContactHandler struct {
	inquiries InquirySubmitter
	flash     *FlashStore
	proxies   *TrustedProxies
	logger    arbor.ILogger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(inquiries InquirySubmitter, flash *FlashStore, proxies *TrustedProxies, logger arbor.ILogger) *ContactHandler {
	return &ContactHandler{
		inquiries: inquiries,
		flash:     flash,
		proxies:   proxies,
		logger:    logger,
	}
}

// Submit handles POST /contact and redirects back to the landing page
// with a flash message in the form's language.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse contact form")
	}

	lang := i18n.Resolve(r.PostFormValue("lang"), i18n.EN)
	form := &inquiry.Form{
		Name:       r.PostFormValue("name"),
		Email:      r.PostFormValue("email"),
		Company:    r.PostFormValue("company"),
		Message:    r.PostFormValue("message"),
		Lang:       lang.String(),
		RemoteAddr: ClientIP(r, h.proxies),
	}

	saved, err := h.inquiries.Submit(r.Context(), form)
	switch {
	case err == nil:
		h.flash.Set(w, Flash{Category: FlashSuccess, Message: inquiry.ThanksMessage(lang, saved.Name)})
	case errors.Is(err, common.ErrInvalidRequest):
		h.logger.Debug().Err(err).Msg("Contact form rejected")
		h.flash.Set(w, Flash{Category: FlashDanger, Message: i18n.T(lang, "contact.invalid")})
	default:
		h.logger.Error().Err(err).Msg("Failed to submit contact form")
		h.flash.Set(w, Flash{Category: FlashDanger, Message: i18n.T(lang, "contact.failed")})
	}

	http.Redirect(w, r, "/?lang="+lang.String()+"#contact", http.StatusFound)
}

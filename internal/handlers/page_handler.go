package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/catalog"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/models"
)

// rfqFormFields are the single-line Smart RFQ inputs in display order
var rfqFormFields = []string{
	"company", "buyer_name", "email", "country", "product", "quantity",
	"incoterm", "target_port", "quality_level", "certifications", "packaging",
}

// AIUsage counts recorded hosted model calls
type AIUsage struct {
	SmartRFQ int `json:"smart_rfq"`
	AIChat   int `json:"ai_chat"`
}

// PageData is passed to every page template
type PageData struct {
	SiteName       string
	Lang           i18n.Lang
	OtherLang      i18n.Lang
	Path           string
	TitleKey       string
	IsWeChat       bool
	IsDashboard    bool
	EnableAIChat   bool
	EnableSmartRFQ bool
	Projects       []catalog.LocalizedProject
	Packages       []catalog.LocalizedPackage
	RFQFields      []string
	Summary        *catalog.DashboardSummary
	Usage          *AIUsage
	Flash          *Flash
	Year           int
}

type PageHandler struct {
	logger    arbor.ILogger
	templates *template.Template
	site      *common.SiteConfig
	catalog   *catalog.Catalog
	flash     *FlashStore
	inquiries InquiryReader
	usage     UsageCounter
}

// NewPageHandler parses the page templates from fsys. inquiries and usage
// may be nil, in which case the dashboard shows sample data only.
func NewPageHandler(
	fsys fs.FS,
	site *common.SiteConfig,
	cat *catalog.Catalog,
	flash *FlashStore,
	inquiries InquiryReader,
	usage UsageCounter,
	logger arbor.ILogger,
) (*PageHandler, error) {
	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(fsys, "*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	return &PageHandler{
		logger:    logger,
		templates: templates,
		site:      site,
		catalog:   cat,
		flash:     flash,
		inquiries: inquiries,
		usage:     usage,
	}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"t": i18n.T,
		"langURL": func(path string, lang i18n.Lang) string {
			return path + "?lang=" + url.QueryEscape(lang.String())
		},
	}
}

// Index serves the PC landing page (default English)
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireGet(w, r) {
		return
	}

	data := h.landingData(w, r, i18n.FromRequest(r, i18n.EN))
	data.EnableSmartRFQ = h.site.EnableSmartRFQ
	h.render(w, "index_pc.html", data)
}

// WeChat serves the mobile landing page shared inside WeChat (default Chinese).
// Smart RFQ is not offered on this layout.
func (h *PageHandler) WeChat(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	data := h.landingData(w, r, i18n.FromRequest(r, i18n.ZH))
	data.IsWeChat = true
	h.render(w, "index_wechat.html", data)
}

// Dashboard serves the Export Command Center demo
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	lang := i18n.FromRequest(r, i18n.EN)
	data := h.baseData(w, r, lang)
	data.TitleKey = "dash.title"
	data.IsDashboard = true
	data.EnableSmartRFQ = h.site.EnableSmartRFQ

	summary := h.catalog.BuildDashboardSummary(lang, h.liveInquiries(r))
	data.Summary = &summary
	data.Usage = h.aiUsage(r)

	h.render(w, "dashboard.html", data)
}

func (h *PageHandler) baseData(w http.ResponseWriter, r *http.Request, lang i18n.Lang) *PageData {
	return &PageData{
		SiteName:     h.site.Name,
		Lang:         lang,
		OtherLang:    i18n.Other(lang),
		Path:         r.URL.Path,
		EnableAIChat: h.site.EnableAIChat,
		Flash:        h.flash.Pop(w, r),
		Year:         time.Now().Year(),
	}
}

func (h *PageHandler) landingData(w http.ResponseWriter, r *http.Request, lang i18n.Lang) *PageData {
	data := h.baseData(w, r, lang)
	data.TitleKey = "hero.title"
	data.Projects = h.catalog.LocalizeProjects(lang)
	data.Packages = h.catalog.LocalizePackages(lang)
	data.RFQFields = rfqFormFields
	return data
}

func (h *PageHandler) liveInquiries(r *http.Request) []models.Inquiry {
	if h.inquiries == nil {
		return nil
	}
	live, err := h.inquiries.Recent(r.Context(), catalog.MaxLiveLeads)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to load recent inquiries for dashboard")
		return nil
	}
	return live
}

func (h *PageHandler) aiUsage(r *http.Request) *AIUsage {
	if h.usage == nil {
		return nil
	}
	rfqCount, err := h.usage.CountByOperation(r.Context(), models.OperationSmartRFQ)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to count smart RFQ calls")
		return nil
	}
	chatCount, err := h.usage.CountByOperation(r.Context(), models.OperationAIChat)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to count chat calls")
		return nil
	}
	return &AIUsage{SmartRFQ: rfqCount, AIChat: chatCount}
}

// render executes into a buffer so a template error never sends a partial page
func (h *PageHandler) render(w http.ResponseWriter, name string, data *PageData) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error().
			Err(err).
			Str("template", name).
			Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// StaticHandler serves the embedded static assets under /static/
func StaticHandler(fsys fs.FS) http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
}

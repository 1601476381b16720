package catalog

import (
	"strings"

	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/models"
)

// MaxLiveLeads caps how many recorded inquiries precede the sample leads.
const MaxLiveLeads = 5

// liveProjectRunes is how much of an inquiry message is shown as its project.
const liveProjectRunes = 60

// LocalizedSite is a dashboard site flattened to one language.
type LocalizedSite struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	Leads30d    int    `json:"leads_30d"`
	AIRFQ       bool   `json:"ai_rfq"`
	AIChat      bool   `json:"ai_chat"`
	AILabel     string `json:"ai_label"`
}

// LocalizedLead is a recent lead row on the dashboard.
type LocalizedLead struct {
	SiteID   string `json:"site_id"`
	SiteName string `json:"site_name"`
	Date     string `json:"date"`
	Company  string `json:"company"`
	Country  string `json:"country"`
	Project  string `json:"project"`
	Budget   string `json:"budget"`
	Live     bool   `json:"live"` // Recorded by the contact form rather than sample data
}

// DashboardSummary is everything the command center renders.
type DashboardSummary struct {
	TotalSites     int             `json:"total_sites"`
	TotalLeads30d  int             `json:"total_leads_30d"`
	AIEnabledSites int             `json:"ai_enabled_sites"`
	Sites          []LocalizedSite `json:"sites"`
	RecentLeads    []LocalizedLead `json:"recent_leads"`
}

// AILabel lists the AI features enabled on a site, e.g. "AI Smart RFQ, AI Chat".
func AILabel(lang i18n.Lang, rfq, chat bool) string {
	var labels []string
	if rfq {
		labels = append(labels, i18n.Pick(lang, "AI Smart RFQ", "AI 智能 RFQ"))
	}
	if chat {
		labels = append(labels, i18n.Pick(lang, "AI Chat", "AI 在线咨询"))
	}
	if len(labels) == 0 {
		return i18n.Pick(lang, "None", "暂无")
	}
	return strings.Join(labels, ", ")
}

// BuildDashboardSummary aggregates the dashboard sites and merges live
// inquiries (newest first, at most MaxLiveLeads) ahead of the sample leads.
func (c *Catalog) BuildDashboardSummary(lang i18n.Lang, live []models.Inquiry) DashboardSummary {
	summary := DashboardSummary{
		TotalSites:  len(c.DashboardSites),
		Sites:       make([]LocalizedSite, 0, len(c.DashboardSites)),
		RecentLeads: make([]LocalizedLead, 0, len(c.SampleLeads)+MaxLiveLeads),
	}

	for _, s := range c.DashboardSites {
		summary.TotalLeads30d += s.Leads30d
		if s.AIRFQ || s.AIChat {
			summary.AIEnabledSites++
		}

		statusLabel := s.Status
		if key := "status." + s.Status; i18n.Has(key) {
			statusLabel = i18n.T(lang, key)
		}

		summary.Sites = append(summary.Sites, LocalizedSite{
			ID:          s.ID,
			Name:        s.Name.Get(lang),
			URL:         s.URL,
			Type:        s.Type,
			Status:      s.Status,
			StatusLabel: statusLabel,
			Leads30d:    s.Leads30d,
			AIRFQ:       s.AIRFQ,
			AIChat:      s.AIChat,
			AILabel:     AILabel(lang, s.AIRFQ, s.AIChat),
		})
	}

	for i := range live {
		if i == MaxLiveLeads {
			break
		}
		inquiry := &live[i]
		summary.RecentLeads = append(summary.RecentLeads, LocalizedLead{
			Date:    inquiry.CreatedAt.Format("2006-01-02"),
			Company: inquiry.DisplayCompany(),
			Country: "-",
			Project: truncateRunes(inquiry.Message, liveProjectRunes),
			Budget:  "-",
			Live:    true,
		})
	}

	for _, lead := range c.SampleLeads {
		siteName := ""
		if site, ok := c.Site(lead.SiteID); ok {
			siteName = site.Name.Get(lang)
		}
		summary.RecentLeads = append(summary.RecentLeads, LocalizedLead{
			SiteID:   lead.SiteID,
			SiteName: siteName,
			Date:     lead.Date,
			Company:  lead.Company,
			Country:  lead.Country,
			Project:  lead.Project.Get(lang),
			Budget:   lead.Budget,
		})
	}

	return summary
}

func truncateRunes(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// Package catalog holds the human-authored site content: demo projects,
// website packages, dashboard sample data and the assistant knowledge base.
// The content is embedded as TOML and can be replaced by a file on disk.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/skylane/internal/i18n"
)

//go:embed catalog.toml
var embedded []byte

// Text is a string in both site languages.
type Text struct {
	EN string `toml:"en" json:"en"`
	ZH string `toml:"zh" json:"zh"`
}

// Get returns the string for lang, falling back to English.
func (t Text) Get(lang i18n.Lang) string {
	return i18n.Pick(lang, t.EN, t.ZH)
}

// TextList is a list of strings in both site languages.
type TextList struct {
	EN []string `toml:"en" json:"en"`
	ZH []string `toml:"zh" json:"zh"`
}

// Get returns the list for lang, falling back to English.
func (t TextList) Get(lang i18n.Lang) []string {
	if lang == i18n.ZH && len(t.ZH) > 0 {
		return t.ZH
	}
	return t.EN
}

// Project is a live demo site.
type Project struct {
	ID       string `toml:"id"`
	Title    string `toml:"title"`
	Category string `toml:"category"`
	Desc     Text   `toml:"desc"`
	URL      string `toml:"url"`
	Icon     string `toml:"icon"`
}

// Package is a sellable website package based on one demo project.
type Package struct {
	ID          string   `toml:"id"`
	ProjectID   string   `toml:"project_id"`
	Name        Text     `toml:"name"`
	Price       Text     `toml:"price"`
	Recommended bool     `toml:"recommended"`
	Bullets     TextList `toml:"bullets"`
	AIOptions   TextList `toml:"ai_options"`
}

// DashboardSite is one client site shown on the command center.
type DashboardSite struct {
	ID       string `toml:"id"`
	Name     Text   `toml:"name"`
	URL      string `toml:"url"`
	Type     string `toml:"type"`
	Status   string `toml:"status"` // online, building
	Leads30d int    `toml:"leads_30d"`
	AIRFQ    bool   `toml:"ai_rfq"`
	AIChat   bool   `toml:"ai_chat"`
}

// SampleLead is a demo inquiry shown on the command center.
type SampleLead struct {
	SiteID  string `toml:"site_id"`
	Date    string `toml:"date"`
	Company string `toml:"company"`
	Country string `toml:"country"`
	Project Text   `toml:"project"`
	Budget  string `toml:"budget"`
}

// Catalog is the full site content.
type Catalog struct {
	KnowledgeBase  Text            `toml:"knowledge_base"`
	Projects       []Project       `toml:"projects"`
	Packages       []Package       `toml:"packages"`
	DashboardSites []DashboardSite `toml:"dashboard_sites"`
	SampleLeads    []SampleLead    `toml:"sample_leads"`
}

// Load reads the catalog from path, or the embedded default when path is empty.
// The result is validated before it is returned.
func Load(path string) (*Catalog, error) {
	data := embedded
	source := "embedded catalog"
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
		}
		data = raw
		source = path
	}
	return parse(data, source)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load("")
}

func parse(data []byte, source string) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", source, err)
	}
	return &c, nil
}

// Project returns the project with id.
func (c *Catalog) Project(id string) (Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Site returns the dashboard site with id.
func (c *Catalog) Site(id string) (DashboardSite, bool) {
	for _, s := range c.DashboardSites {
		if s.ID == id {
			return s, true
		}
	}
	return DashboardSite{}, false
}

// Validate checks ids are unique, package references resolve and
// display names exist in both languages.
func (c *Catalog) Validate() error {
	if c.KnowledgeBase.EN == "" || c.KnowledgeBase.ZH == "" {
		return fmt.Errorf("knowledge_base needs both en and zh text")
	}

	projects := make(map[string]bool, len(c.Projects))
	for i, p := range c.Projects {
		if p.ID == "" {
			return fmt.Errorf("projects[%d]: missing id", i)
		}
		if projects[p.ID] {
			return fmt.Errorf("projects[%d]: duplicate id %q", i, p.ID)
		}
		projects[p.ID] = true
		if p.Title == "" {
			return fmt.Errorf("project %q: missing title", p.ID)
		}
		if p.Desc.EN == "" || p.Desc.ZH == "" {
			return fmt.Errorf("project %q: desc needs both en and zh", p.ID)
		}
	}

	packages := make(map[string]bool, len(c.Packages))
	for i, p := range c.Packages {
		if p.ID == "" {
			return fmt.Errorf("packages[%d]: missing id", i)
		}
		if packages[p.ID] {
			return fmt.Errorf("packages[%d]: duplicate id %q", i, p.ID)
		}
		packages[p.ID] = true
		if p.ProjectID != "" && !projects[p.ProjectID] {
			return fmt.Errorf("package %q: unknown project %q", p.ID, p.ProjectID)
		}
		if p.Name.EN == "" || p.Name.ZH == "" {
			return fmt.Errorf("package %q: name needs both en and zh", p.ID)
		}
	}

	sites := make(map[string]bool, len(c.DashboardSites))
	for i, s := range c.DashboardSites {
		if s.ID == "" {
			return fmt.Errorf("dashboard_sites[%d]: missing id", i)
		}
		if sites[s.ID] {
			return fmt.Errorf("dashboard_sites[%d]: duplicate id %q", i, s.ID)
		}
		sites[s.ID] = true
		if s.Name.EN == "" || s.Name.ZH == "" {
			return fmt.Errorf("dashboard site %q: name needs both en and zh", s.ID)
		}
		if s.Leads30d < 0 {
			return fmt.Errorf("dashboard site %q: negative leads_30d", s.ID)
		}
	}

	return nil
}

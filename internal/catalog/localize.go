package catalog

import "github.com/ternarybob/skylane/internal/i18n"

// LocalizedProject is a project flattened to one language.
type LocalizedProject struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Desc     string `json:"desc"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

// LocalizedPackage is a package flattened to one language and joined with its demo project.
type LocalizedPackage struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Recommended bool     `json:"recommended"`
	Bullets     []string `json:"bullets"`
	AIOptions   []string `json:"ai_options"`
	DemoTitle   string   `json:"demo_title"`
	DemoURL     string   `json:"demo_url"`
	DemoIcon    string   `json:"demo_icon"`
}

// LocalizeProjects returns every project in catalog order.
func (c *Catalog) LocalizeProjects(lang i18n.Lang) []LocalizedProject {
	out := make([]LocalizedProject, 0, len(c.Projects))
	for _, p := range c.Projects {
		out = append(out, LocalizedProject{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Desc:     p.Desc.Get(lang),
			URL:      p.URL,
			Icon:     p.Icon,
		})
	}
	return out
}

// LocalizePackages returns every package in catalog order. A package whose
// project is unknown keeps empty demo fields.
func (c *Catalog) LocalizePackages(lang i18n.Lang) []LocalizedPackage {
	out := make([]LocalizedPackage, 0, len(c.Packages))
	for _, p := range c.Packages {
		lp := LocalizedPackage{
			ID:          p.ID,
			Name:        p.Name.Get(lang),
			Price:       p.Price.Get(lang),
			Recommended: p.Recommended,
			Bullets:     p.Bullets.Get(lang),
			AIOptions:   p.AIOptions.Get(lang),
		}
		if project, ok := c.Project(p.ProjectID); ok {
			lp.DemoTitle = project.Title
			lp.DemoURL = project.URL
			lp.DemoIcon = project.Icon
		}
		out = append(out, lp)
	}
	return out
}

package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/models"
)

func loadDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalog(t *testing.T) {
	c := loadDefault(t)

	require.Len(t, c.Projects, 4)
	require.Len(t, c.Packages, 4)
	require.Len(t, c.DashboardSites, 4)
	require.Len(t, c.SampleLeads, 3)

	assert.Equal(t, "factory", c.Projects[0].ID)
	assert.Equal(t, "https://shop-demo.skylaneai.com/", c.Projects[3].URL)
	assert.Equal(t, "fa-cart-shopping", c.Projects[3].Icon)
	assert.Contains(t, c.KnowledgeBase.EN, "SkyLane AI Studio")
	assert.Contains(t, c.KnowledgeBase.ZH, "天航智网工作室")
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	body := `
[knowledge_base]
en = "We build sites."
zh = "我们做网站。"

[[projects]]
id = "solo"
title = "Solo"
url = "https://solo.example.com/"
desc.en = "Only project"
desc.zh = "唯一项目"

[[packages]]
id = "pkg_solo"
project_id = "solo"
name.en = "Solo package"
name.zh = "单项套餐"
price.en = "¥1"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Projects, 1)

	pkgs := c.LocalizePackages(i18n.ZH)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "单项套餐", pkgs[0].Name)
	assert.Equal(t, "¥1", pkgs[0].Price, "missing zh falls back to en")
	assert.Equal(t, "https://solo.example.com/", pkgs[0].DemoURL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[projects]\nid ="), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Catalog {
		return &Catalog{
			KnowledgeBase: Text{EN: "kb", ZH: "知识"},
			Projects: []Project{
				{ID: "a", Title: "A", Desc: Text{EN: "a", ZH: "甲"}},
			},
			Packages: []Package{
				{ID: "p", ProjectID: "a", Name: Text{EN: "P", ZH: "套餐"}},
			},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Projects = append(c.Projects, c.Projects[0])
	assert.ErrorContains(t, c.Validate(), "duplicate id")

	c = base()
	c.Packages[0].ProjectID = "nope"
	assert.ErrorContains(t, c.Validate(), "unknown project")

	c = base()
	c.Packages[0].Name.ZH = ""
	assert.ErrorContains(t, c.Validate(), "both en and zh")

	c = base()
	c.KnowledgeBase.ZH = ""
	assert.Error(t, c.Validate())
}

func TestLocalizeProjects(t *testing.T) {
	c := loadDefault(t)

	en := c.LocalizeProjects(i18n.EN)
	zh := c.LocalizeProjects(i18n.ZH)
	require.Len(t, en, 4)

	assert.Equal(t, "Factory B2B Export", en[0].Title)
	assert.Equal(t, en[0].Title, zh[0].Title, "titles are not translated")
	assert.Contains(t, en[1].Desc, "Hangzhou tea farm")
	assert.Contains(t, zh[1].Desc, "杭州茶园")
}

func TestLocalizePackages(t *testing.T) {
	c := loadDefault(t)

	en := c.LocalizePackages(i18n.EN)
	require.Len(t, en, 4)

	assert.Equal(t, "pkg_factory", en[0].ID)
	assert.Equal(t, "¥3,900", en[0].Price)
	assert.Equal(t, "Factory B2B Export", en[0].DemoTitle)
	assert.Equal(t, "https://factory.skylaneai.com/", en[0].DemoURL)
	assert.Equal(t, "fa-industry", en[0].DemoIcon)

	assert.True(t, en[1].Recommended)
	assert.Equal(t, "¥6,800", en[1].Price)
	assert.Len(t, en[1].AIOptions, 3)

	zh := c.LocalizePackages(i18n.ZH)
	assert.Equal(t, "一站式采购服务官网", zh[1].Name)
	assert.Equal(t, "基于：Horizon Sourcing 演示站", zh[1].Bullets[0])
	assert.Equal(t, "¥12,000+", zh[3].Price)
}

func TestLocalizePackages_UnknownProject(t *testing.T) {
	c := &Catalog{
		Packages: []Package{{ID: "x", ProjectID: "ghost", Name: Text{EN: "X"}}},
	}
	pkgs := c.LocalizePackages(i18n.EN)
	require.Len(t, pkgs, 1)
	assert.Empty(t, pkgs[0].DemoURL)
	assert.Empty(t, pkgs[0].DemoTitle)
}

func TestAILabel(t *testing.T) {
	assert.Equal(t, "AI Smart RFQ, AI Chat", AILabel(i18n.EN, true, true))
	assert.Equal(t, "AI Chat", AILabel(i18n.EN, false, true))
	assert.Equal(t, "AI 智能 RFQ", AILabel(i18n.ZH, true, false))
	assert.Equal(t, "AI 智能 RFQ, AI 在线咨询", AILabel(i18n.ZH, true, true))
	assert.Equal(t, "None", AILabel(i18n.EN, false, false))
	assert.Equal(t, "暂无", AILabel(i18n.ZH, false, false))
}

func TestBuildDashboardSummary(t *testing.T) {
	c := loadDefault(t)

	summary := c.BuildDashboardSummary(i18n.EN, nil)
	assert.Equal(t, 4, summary.TotalSites)
	assert.Equal(t, 45, summary.TotalLeads30d)
	assert.Equal(t, 4, summary.AIEnabledSites)
	require.Len(t, summary.Sites, 4)
	assert.Equal(t, "AI Smart RFQ, AI Chat", summary.Sites[0].AILabel)
	assert.Equal(t, "Building", summary.Sites[2].StatusLabel)
	assert.Equal(t, "building", summary.Sites[2].Status)

	require.Len(t, summary.RecentLeads, 3)
	assert.Equal(t, "Ningbo Tools Co.", summary.RecentLeads[0].Company)
	assert.Equal(t, "Factory B2B Export", summary.RecentLeads[0].SiteName)
	assert.Equal(t, "SkyLane Shop (B2C)", summary.RecentLeads[2].SiteName)

	zh := c.BuildDashboardSummary(i18n.ZH, nil)
	assert.Equal(t, "工厂 B2B 出口官网", zh.Sites[0].Name)
	assert.Equal(t, "建设中", zh.Sites[2].StatusLabel)
	assert.Equal(t, "面向德国经销商的套筒扳手组套项目", zh.RecentLeads[0].Project)
}

func TestBuildDashboardSummary_UnknownSite(t *testing.T) {
	c := &Catalog{
		SampleLeads: []SampleLead{{SiteID: "ghost", Company: "Nobody", Project: Text{EN: "p"}}},
	}
	summary := c.BuildDashboardSummary(i18n.EN, nil)
	require.Len(t, summary.RecentLeads, 1)
	assert.Empty(t, summary.RecentLeads[0].SiteName)
	assert.Zero(t, summary.AIEnabledSites)
}

func TestBuildDashboardSummary_LiveLeads(t *testing.T) {
	c := loadDefault(t)

	created := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	var live []models.Inquiry
	for i := 0; i < 7; i++ {
		live = append(live, models.Inquiry{Name: "Li Wei", Message: "Need a factory site", CreatedAt: created})
	}
	live[0].Company = "Wei Hardware"
	live[0].Message = "We make stainless steel hinges and need an English website with a QC page and RFQ form"

	summary := c.BuildDashboardSummary(i18n.EN, live)
	require.Len(t, summary.RecentLeads, MaxLiveLeads+3)

	first := summary.RecentLeads[0]
	assert.True(t, first.Live)
	assert.Equal(t, "2026-03-04", first.Date)
	assert.Equal(t, "Wei Hardware", first.Company)
	assert.True(t, len([]rune(first.Project)) <= liveProjectRunes+1)
	assert.Equal(t, "Li Wei", summary.RecentLeads[1].Company)

	assert.False(t, summary.RecentLeads[MaxLiveLeads].Live)
	assert.Equal(t, "Ningbo Tools Co.", summary.RecentLeads[MaxLiveLeads].Company)
}

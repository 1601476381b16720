package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
)

func TestNew_WiresComponents(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()
	cfg.Claude.APIKey = ""

	application, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer application.Close()

	assert.NotNil(t, application.PageHandler)
	assert.NotNil(t, application.ContactHandler)
	assert.NotNil(t, application.RFQHandler)
	assert.NotNil(t, application.ChatHandler)
	assert.NotNil(t, application.ContentHandler)
	assert.NotNil(t, application.APIHandler)
	assert.Len(t, application.Catalog.Packages, 4)
	assert.Equal(t, "claude", application.LLMService.ProviderName())
	assert.Error(t, application.LLMService.Ready())
	assert.False(t, application.MailerService.IsConfigured())
}

func TestNew_BadCatalogFile(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()
	cfg.Site.CatalogFile = "does-not-exist.toml"

	_, err := New(cfg, arbor.NewLogger())
	assert.ErrorContains(t, err, "failed to load catalog")
}

func TestNew_TrustedProxies(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()
	cfg.RateLimit.TrustedProxies = []string{"10.0.0.0/8"}

	application, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer application.Close()
	assert.True(t, application.TrustedProxies.Trusts("10.2.3.4"))

	cfg = common.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()
	cfg.RateLimit.TrustedProxies = []string{"not-a-proxy"}

	_, err = New(cfg, arbor.NewLogger())
	assert.ErrorContains(t, err, "rate_limit.trusted_proxies")
}

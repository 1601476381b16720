package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved feature toggles
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("SkyLane", GetVersion())

	logger.Info().
		Str("site", config.Site.Name).
		Str("provider", string(config.LLM.DefaultProvider)).
		Bool("ai_chat", config.Site.EnableAIChat).
		Bool("smart_rfq", config.Site.EnableSmartRFQ).
		Bool("mail", config.Mail.Enabled).
		Msg("Site features")
}

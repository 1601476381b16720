// Package assistant answers pre-sales questions in the site chat widget.
package assistant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/catalog"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrNoMessages is returned when the conversation has nothing to answer
var ErrNoMessages = errors.New("no messages provided")

// Request is the chat widget payload
type Request struct {
	Messages []interfaces.Message `json:"messages"`
	Lang     string               `json:"lang"`
}

// Reply is the consultant's answer as plain text and as sanitized HTML
type Reply struct {
	Text string `json:"reply"`
	HTML string `json:"reply_html"`
}

// Service answers chat messages
type Service struct {
	llm     interfaces.LLMService
	site    *common.SiteConfig
	config  *common.AssistantConfig
	catalog *catalog.Catalog
	md      goldmark.Markdown
	logger  arbor.ILogger
}

// NewService creates a new assistant service
func NewService(llm interfaces.LLMService, site *common.SiteConfig, config *common.AssistantConfig, cat *catalog.Catalog, logger arbor.ILogger) *Service {
	// Raw HTML in model output is omitted; only Markdown is rendered
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &Service{
		llm:     llm,
		site:    site,
		config:  config,
		catalog: cat,
		md:      md,
		logger:  logger,
	}
}

// Reply answers the conversation in req.
//
// Errors: common.ErrFeatureDisabled when chat is off,
// interfaces.ErrProviderNotConfigured when no API key is set,
// ErrNoMessages when nothing usable was sent; anything else is an upstream failure.
func (s *Service) Reply(ctx context.Context, req *Request) (*Reply, error) {
	if !s.site.EnableAIChat {
		return nil, common.ErrFeatureDisabled
	}
	if err := s.llm.Ready(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	messages := s.prepareMessages(req.Messages)
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	lang := i18n.Resolve(req.Lang, i18n.EN)
	system := SystemPrompt(lang, s.site.Name, s.catalog.KnowledgeBase.Get(lang))

	resp, err := s.llm.Chat(ctx, &interfaces.ChatRequest{
		System:      system,
		Messages:    messages,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		Operation:   models.OperationAIChat,
		Lang:        lang.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("ai chat request failed: %w", err)
	}

	rendered, err := s.RenderHTML(resp.Text)
	if err != nil {
		// The plain text is still usable by the widget
		s.logger.Warn().Err(err).Msg("Failed to render chat reply as HTML")
	}

	s.logger.Debug().
		Str("lang", lang.String()).
		Int("message_count", len(messages)).
		Int("reply_length", len(resp.Text)).
		Msg("Chat reply generated")

	return &Reply{Text: resp.Text, HTML: rendered}, nil
}

// prepareMessages drops empty and client-supplied system messages, defaults
// a missing role to user, keeps the last MaxHistory turns and makes sure the
// conversation opens with a user turn.
func (s *Service) prepareMessages(in []interfaces.Message) []interfaces.Message {
	out := make([]interfaces.Message, 0, len(in))
	for _, m := range in {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := strings.ToLower(strings.TrimSpace(m.Role))
		switch role {
		case interfaces.RoleSystem:
			continue
		case interfaces.RoleAssistant:
		default:
			role = interfaces.RoleUser
		}
		out = append(out, interfaces.Message{Role: role, Content: m.Content})
	}

	if limit := s.config.MaxHistory; limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}

	for len(out) > 0 && out[0].Role == interfaces.RoleAssistant {
		out = out[1:]
	}
	return out
}

// RenderHTML converts a Markdown reply to HTML
func (s *Service) RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

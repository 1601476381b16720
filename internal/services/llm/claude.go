package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/interfaces"
)

const defaultMaxTokens = 1024

// ClaudeProvider generates chat completions with the Anthropic Messages API.
type ClaudeProvider struct {
	config *common.ClaudeConfig
	client anthropic.Client
	logger arbor.ILogger
}

// NewClaudeProvider creates a Claude provider. Retries are handled by the
// factory, so the SDK's own retry loop is disabled.
func NewClaudeProvider(config *common.ClaudeConfig, apiKey string, logger arbor.ILogger) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	logger.Debug().
		Str("model", config.Model).
		Float32("temperature", config.Temperature).
		Msg("Claude provider initialized")

	return &ClaudeProvider{
		config: config,
		client: client,
		logger: logger,
	}
}

// convertMessagesToClaude converts []interfaces.Message to Claude MessageParam format.
// System messages are returned separately, joined in order, for the System parameter.
func convertMessagesToClaude(messages []interfaces.Message) ([]anthropic.MessageParam, string, error) {
	if err := requireUserMessage(messages); err != nil {
		return nil, "", err
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	var system []string
	for _, msg := range messages {
		switch msg.Role {
		case interfaces.RoleSystem:
			system = append(system, msg.Content)
		case interfaces.RoleAssistant:
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	return claudeMessages, strings.Join(system, "\n\n"), nil
}

// GenerateContent performs a single Messages API call
func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	claudeMessages, systemText, err := convertMessagesToClaude(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}
	systemText = joinSystem(request.System, systemText)

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(maxTokens),
		Messages:  claudeMessages,
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = p.config.Temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}

	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	return &interfaces.ChatResponse{
		Text:     text.String(),
		Provider: string(ProviderClaude),
		Model:    p.config.Model,
	}, nil
}

// GetProviderType returns ProviderClaude
func (p *ClaudeProvider) GetProviderType() ProviderType {
	return ProviderClaude
}

// Close resets the client; the SDK holds no resources that need releasing
func (p *ClaudeProvider) Close() error {
	p.client = anthropic.Client{}
	return nil
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiProvider generates chat completions with the Gemini API.
type GeminiProvider struct {
	config *common.GeminiConfig
	client *genai.Client
	logger arbor.ILogger
}

// NewGeminiProvider creates a Gemini provider
func NewGeminiProvider(ctx context.Context, config *common.GeminiConfig, apiKey string, logger arbor.ILogger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Debug().
		Str("model", config.Model).
		Float32("temperature", config.Temperature).
		Msg("Gemini provider initialized")

	return &GeminiProvider{
		config: config,
		client: client,
		logger: logger,
	}, nil
}

// convertMessagesToGemini converts []interfaces.Message to Gemini Content format.
// System messages are returned separately, joined in order, for SystemInstruction.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if err := requireUserMessage(messages); err != nil {
		return nil, "", err
	}

	contents := make([]*genai.Content, 0, len(messages))
	var system []string
	for _, msg := range messages {
		if msg.Role == interfaces.RoleSystem {
			system = append(system, msg.Content)
			continue
		}

		role := genai.RoleUser
		if msg.Role == interfaces.RoleAssistant {
			role = genai.RoleModel
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	return contents, strings.Join(system, "\n\n"), nil
}

// GenerateContent performs a single GenerateContent call
func (p *GeminiProvider) GenerateContent(ctx context.Context, request *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if p.client == nil {
		return nil, fmt.Errorf("Gemini client is closed")
	}

	contents, systemText, err := convertMessagesToGemini(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}
	systemText = joinSystem(request.System, systemText)

	temp := request.Temperature
	if temp <= 0 {
		temp = p.config.Temperature
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}
	if request.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, ErrEmptyResponse
	}

	return &interfaces.ChatResponse{
		Text:     responseText,
		Provider: string(ProviderGemini),
		Model:    p.config.Model,
	}, nil
}

// GetProviderType returns ProviderGemini
func (p *GeminiProvider) GetProviderType() ProviderType {
	return ProviderGemini
}

// Close drops the client
func (p *GeminiProvider) Close() error {
	p.client = nil
	return nil
}

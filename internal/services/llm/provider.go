// Package llm is the gateway to hosted language models. A ProviderFactory
// picks Claude or Gemini from configuration and wraps every call with a
// timeout, bounded retries, metrics and an audit record.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/metrics"
	"github.com/ternarybob/skylane/internal/models"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

var (
	// ErrEmptyResponse is returned when the provider answers without text
	ErrEmptyResponse = errors.New("empty response from provider")
	// ErrNoUserMessage is returned when a conversation has no user turn
	ErrNoUserMessage = errors.New("at least one message must have role 'user'")
)

// Provider defines the interface for a single vendor
type Provider interface {
	GenerateContent(ctx context.Context, request *interfaces.ChatRequest) (*interfaces.ChatResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// Option configures a ProviderFactory
type Option func(*ProviderFactory)

// WithMetrics records call counts and durations
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *ProviderFactory) { f.metrics = m }
}

// WithAuditLogger records every call
func WithAuditLogger(audit AuditLogger) Option {
	return func(f *ProviderFactory) { f.audit = audit }
}

// WithRetryConfig replaces the default retry policy
func WithRetryConfig(retry *RetryConfig) Option {
	return func(f *ProviderFactory) { f.retry = retry }
}

// WithProvider uses p instead of building a vendor client
func WithProvider(p Provider) Option {
	return func(f *ProviderFactory) { f.provider = p }
}

// ProviderFactory implements interfaces.LLMService over the configured provider
type ProviderFactory struct {
	config       *common.Config
	providerType ProviderType
	timeout      time.Duration
	retry        *RetryConfig
	audit        AuditLogger
	metrics      *metrics.Metrics
	logger       arbor.ILogger

	mu       sync.Mutex
	provider Provider
}

// NewProviderFactory creates a new provider factory. Vendor clients are
// built on first use so a missing key never blocks startup.
func NewProviderFactory(config *common.Config, logger arbor.ILogger, opts ...Option) *ProviderFactory {
	f := &ProviderFactory{
		config:       config,
		providerType: ProviderType(config.LLM.DefaultProvider),
		timeout:      config.LLM.TimeoutDuration(),
		retry:        NewDefaultRetryConfig(config.LLM.MaxRetries),
		audit:        NewNullAuditLogger(),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(f)
	}

	logger.Info().
		Str("provider", string(f.providerType)).
		Str("model", f.model()).
		Dur("timeout", f.timeout).
		Int("max_retries", f.retry.MaxRetries).
		Bool("configured", f.Ready() == nil).
		Msg("LLM gateway initialized")

	return f
}

// ProviderName returns the configured provider
func (f *ProviderFactory) ProviderName() string {
	return string(f.providerType)
}

func (f *ProviderFactory) model() string {
	if f.providerType == ProviderGemini {
		return f.config.Gemini.Model
	}
	return f.config.Claude.Model
}

// Ready returns a *interfaces.NotConfiguredError when the provider has no API key
func (f *ProviderFactory) Ready() error {
	f.mu.Lock()
	injected := f.provider != nil
	f.mu.Unlock()
	if injected {
		return nil
	}

	provider := common.LLMProvider(f.providerType)
	if strings.TrimSpace(f.config.APIKey(provider)) == "" {
		return &interfaces.NotConfiguredError{
			Provider: string(f.providerType),
			EnvVar:   provider.APIKeyEnv(),
		}
	}
	return nil
}

// getProvider returns the cached provider, creating it on first use
func (f *ProviderFactory) getProvider(ctx context.Context) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.provider != nil {
		return f.provider, nil
	}

	apiKey := f.config.APIKey(common.LLMProvider(f.providerType))
	switch f.providerType {
	case ProviderClaude:
		f.provider = NewClaudeProvider(&f.config.Claude, apiKey, f.logger)
	case ProviderGemini:
		p, err := NewGeminiProvider(ctx, &f.config.Gemini, apiKey, f.logger)
		if err != nil {
			return nil, err
		}
		f.provider = p
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", f.providerType)
	}

	return f.provider, nil
}

// Chat sends the request to the configured provider
func (f *ProviderFactory) Chat(ctx context.Context, request *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if err := f.Ready(); err != nil {
		return nil, err
	}

	provider, err := f.getProvider(ctx)
	if err != nil {
		return nil, err
	}

	f.logger.Debug().
		Str("provider", string(f.providerType)).
		Str("operation", request.Operation).
		Int("message_count", len(request.Messages)).
		Msg("Generating content with provider")

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	startTime := time.Now()
	resp, err := f.generateWithRetry(timeoutCtx, provider, request)
	duration := time.Since(startTime)

	f.metrics.RecordLLMRequest(string(f.providerType), request.Operation, err == nil, duration)
	f.recordAudit(ctx, request, err, duration)

	if err != nil {
		f.logger.Error().
			Err(err).
			Str("provider", string(f.providerType)).
			Str("operation", request.Operation).
			Dur("duration", duration).
			Msg("LLM call failed")
		return nil, err
	}

	f.logger.Debug().
		Str("provider", resp.Provider).
		Str("operation", request.Operation).
		Int("response_length", len(resp.Text)).
		Dur("duration", duration).
		Msg("LLM call completed")

	return resp, nil
}

func (f *ProviderFactory) generateWithRetry(ctx context.Context, provider Provider, request *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	var resp *interfaces.ChatResponse
	var apiErr error

	for attempt := 0; attempt <= f.retry.MaxRetries; attempt++ {
		resp, apiErr = provider.GenerateContent(ctx, request)
		if apiErr == nil {
			return resp, nil
		}

		if attempt == f.retry.MaxRetries || !IsRetryableError(apiErr) {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			backoff = f.retry.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		} else {
			backoff = f.retry.CalculateBackoff(attempt, 0)
		}

		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying LLM API call")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("llm call cancelled: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}

	return nil, apiErr
}

func (f *ProviderFactory) recordAudit(ctx context.Context, request *interfaces.ChatRequest, callErr error, duration time.Duration) {
	entry := &models.LLMAudit{
		ID:        "llm_" + uuid.New().String(),
		Operation: request.Operation,
		Provider:  string(f.providerType),
		Model:     f.model(),
		Lang:      request.Lang,
		Success:   callErr == nil,
		Duration:  duration,
		CreatedAt: time.Now(),
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}

	if err := f.audit.LogCall(context.WithoutCancel(ctx), entry); err != nil {
		f.logger.Warn().Err(err).Str("operation", request.Operation).Msg("Failed to record LLM audit entry")
	}
}

// Close releases the provider client
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.provider == nil {
		return nil
	}
	err := f.provider.Close()
	f.provider = nil
	return err
}

func requireUserMessage(messages []interfaces.Message) error {
	for _, msg := range messages {
		if msg.Role != interfaces.RoleSystem && msg.Role != interfaces.RoleAssistant {
			return nil
		}
	}
	return ErrNoUserMessage
}

func joinSystem(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

package interfaces

import (
	"context"
	"errors"
)

// Message roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrProviderNotConfigured is returned when the selected provider has no API key
var ErrProviderNotConfigured = errors.New("llm provider not configured")

// NotConfiguredError names the environment variable that would configure the provider.
// It matches ErrProviderNotConfigured with errors.Is.
type NotConfiguredError struct {
	Provider string
	EnvVar   string
}

func (e *NotConfiguredError) Error() string {
	return e.EnvVar + " is not set on the server"
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrProviderNotConfigured
}

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string `json:"role"`

	// Content contains the text content of the message
	Content string `json:"content"`
}

// ChatRequest is a provider-agnostic completion request.
type ChatRequest struct {
	// System is sent as the provider's system instruction. System messages
	// inside Messages are appended to it.
	System string

	// Messages is the conversation in chronological order. At least one
	// message must have role "user".
	Messages []Message

	MaxTokens   int
	Temperature float32

	// JSONOutput asks providers that support it for a JSON-only response
	JSONOutput bool

	// Operation and Lang label metrics and audit records
	Operation string
	Lang      string
}

// ChatResponse is the provider-agnostic completion result.
type ChatResponse struct {
	Text     string
	Provider string
	Model    string
}

// LLMService generates chat completions through a hosted model provider.
type LLMService interface {
	// Chat sends the request to the configured provider, retrying transient
	// failures within the configured timeout.
	Chat(ctx context.Context, request *ChatRequest) (*ChatResponse, error)

	// Ready reports whether the configured provider has credentials.
	// It returns a *NotConfiguredError when it does not.
	Ready() error

	// ProviderName returns the configured provider, e.g. "claude".
	ProviderName() string

	// Close releases provider clients.
	Close() error
}

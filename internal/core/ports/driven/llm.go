// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// LLMService is the text-completion collaborator that answers questions.
// This is an optional service - when nil, ask is disabled.
//
// Implementations may include:
//   - Ollama (local models)
//   - Gemini (Google cloud)
//
// Authentication, rate limits and retries belong to the implementation.
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    domain.ChatRole
	Content string
}

// LLMConfigValidator checks that an LLM configuration can reach its provider.
type LLMConfigValidator interface {
	// ValidateLLM creates the configured service and pings it.
	ValidateLLM(config *domain.LLMSettings) error
}

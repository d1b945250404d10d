// Package gemini provides an LLM service adapter using Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel = "gemini-2.0-flash"
	APIKeyEnv    = "GEMINI_API_KEY"
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey authenticates requests. Falls back to $GEMINI_API_KEY.
	APIKey string

	// Model is the Gemini model name (default: gemini-2.0-flash).
	Model string

	// RequestsPerSecond caps outgoing requests. Zero or negative disables the limit.
	RequestsPerSecond float64

	// Endpoint overrides the API endpoint.
	Endpoint string
}

// LLMService provides LLM operations using Gemini.
type LLMService struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(APIKeyEnv)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %s not set", APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &LLMService{
		client:  client,
		model:   cfg.Model,
		limiter: newLimiter(cfg.RequestsPerSecond),
	}, nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// generativeModel returns a fresh model handle so per-call options never
// leak between concurrent requests.
func (s *LLMService) generativeModel(opts driven.GenerateOptions) *genai.GenerativeModel {
	m := s.client.GenerativeModel(s.model)
	if opts.Temperature > 0 {
		m.SetTemperature(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	return m
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini: rate limit: %w", err)
	}

	resp, err := s.generativeModel(opts).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	return responseText(resp), nil
}

// Chat conducts a multi-turn conversation. System messages become the
// model's system instruction; the final message is sent on top of the
// remaining history.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.GenerateOptions) (string, error) {
	system, history, last, err := splitMessages(messages)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini: rate limit: %w", err)
	}

	model := s.generativeModel(opts)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("gemini: chat: %w", err)
	}
	return responseText(resp), nil
}

// splitMessages separates system text, prior turns and the message to send.
func splitMessages(messages []driven.ChatMessage) (system string, history []*genai.Content, last string, err error) {
	var systemParts []string
	var turns []driven.ChatMessage
	for _, msg := range messages {
		if msg.Role == domain.ChatRoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		turns = append(turns, msg)
	}

	if len(turns) == 0 {
		return "", nil, "", fmt.Errorf("%w: chat needs at least one non-system message", domain.ErrInvalidInput)
	}

	for _, msg := range turns[:len(turns)-1] {
		history = append(history, &genai.Content{
			Role:  roleName(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	return strings.Join(systemParts, "\n\n"), history, turns[len(turns)-1].Content, nil
}

func roleName(role domain.ChatRole) string {
	if role == domain.ChatRoleAssistant {
		return "model"
	}
	return "user"
}

// responseText concatenates the text parts of the first candidate.
// An empty candidate list yields an empty answer.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the key and model with a token count, which runs no inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.GenerativeModel(s.model).CountTokens(ctx, genai.Text("ping")); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *LLMService) Close() error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Package openai provides an LLM service over the OpenAI chat completions
// API. Groq and other OpenAI-compatible endpoints are served by overriding
// BaseURL.
package openai

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/scout/internal/adapters/driven/remote"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults applied by the constructors.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second

	GroqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel = "llama-3.1-8b-instant"
)

// LLMConfig configures the service. APIKey is required.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Provider names the backend in errors (default openai).
	Provider string
}

// LLMService answers chat requests against one model.
type LLMService struct {
	api   *remote.Client
	model string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest always carries temperature, since zero is meaningful.
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// NewLLMService creates an OpenAI-compatible chat client.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	provider := cmp.Or(cfg.Provider, "openai")
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", provider)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   remote.NewClient(provider, cmp.Or(cfg.BaseURL, DefaultBaseURL), cfg.APIKey, timeout),
		model: cmp.Or(cfg.Model, DefaultLLMModel),
	}, nil
}

// NewGroqLLMService creates a client for Groq's OpenAI-compatible API.
func NewGroqLLMService(cfg LLMConfig) (*LLMService, error) {
	cfg.Provider = "groq"
	cfg.BaseURL = cmp.Or(cfg.BaseURL, GroqBaseURL)
	cfg.Model = cmp.Or(cfg.Model, DefaultGroqModel)
	return NewLLMService(cfg)
}

// Generate sends prompt as a single user message.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return s.complete(ctx, completionRequest{
		Messages:    []message{{Role: driven.RoleUser, Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.StopWords,
	})
}

// Chat sends the conversation as is.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	msgs := make([]message, len(messages))
	for i, m := range messages {
		msgs[i] = message{Role: m.Role, Content: m.Content}
	}
	return s.complete(ctx, completionRequest{
		Messages:    msgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
}

func (s *LLMService) complete(ctx context.Context, req completionRequest) (string, error) {
	req.Model = s.model

	var resp completionResponse
	if err := s.api.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no response choices returned", s.api.Provider())
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the chat model.
func (s *LLMService) ModelName() string { return s.model }

// Ping lists models, which checks the key without spending tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models", nil)
}

// Close is a no-op.
func (s *LLMService) Close() error { return nil }

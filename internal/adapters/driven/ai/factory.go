// Package ai turns provider settings into embedding and LLM services.
package ai

import (
	"context"
	"errors"
	"fmt"

	geminiembed "github.com/custodia-labs/scout/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/scout/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/scout/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/scout/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/scout/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/scout/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/scout/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

type (
	embedderFunc func(ctx context.Context, s *domain.EmbeddingSettings) (driven.EmbeddingService, error)
	llmFunc      func(ctx context.Context, s *domain.LLMSettings, maxRetries int) (driven.LLMService, error)
)

var embedders = map[domain.AIProvider]embedderFunc{
	domain.AIProviderOpenAI: func(_ context.Context, s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return openaiembed.NewEmbeddingService(openaiembed.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderGemini: func(ctx context.Context, s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderOllama: func(_ context.Context, s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{BaseURL: s.BaseURL, Model: s.Model}), nil
	},
}

var llms = map[domain.AIProvider]llmFunc{
	domain.AIProviderOpenAI: func(_ context.Context, s *domain.LLMSettings, _ int) (driven.LLMService, error) {
		return openaillm.NewLLMService(openaillm.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderGroq: func(_ context.Context, s *domain.LLMSettings, _ int) (driven.LLMService, error) {
		return openaillm.NewGroqLLMService(openaillm.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderAnthropic: func(_ context.Context, s *domain.LLMSettings, retries int) (driven.LLMService, error) {
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model, MaxRetries: retries,
		})
	},
	domain.AIProviderGemini: func(ctx context.Context, s *domain.LLMSettings, _ int) (driven.LLMService, error) {
		return geminillm.NewLLMService(ctx, geminillm.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderOllama: func(_ context.Context, s *domain.LLMSettings, _ int) (driven.LLMService, error) {
		return ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: s.BaseURL, Model: s.Model}), nil
	},
}

// Models is the pair of services a research run needs.
type Models struct {
	Embedder driven.EmbeddingService
	LLM      driven.LLMService
}

// Close closes whichever services are set.
func (m *Models) Close() error {
	var errs []error
	if m.Embedder != nil {
		errs = append(errs, m.Embedder.Close())
	}
	if m.LLM != nil {
		errs = append(errs, m.LLM.Close())
	}
	return errors.Join(errs...)
}

// Open builds both services from cfg without contacting either backend.
func Open(ctx context.Context, cfg domain.Config) (*Models, error) {
	embedder, err := NewEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	llm, err := NewLLM(ctx, &cfg.LLM, cfg.HTTP.MaxRetries)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return &Models{Embedder: embedder, LLM: llm}, nil
}

// NewEmbedder builds the embedding service for s.Provider.
func NewEmbedder(ctx context.Context, s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: embedding settings missing", domain.ErrInvalidConfig)
	}
	build, ok := embedders[s.Provider]
	switch {
	case !s.Provider.IsValid():
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedProvider, s.Provider)
	case !ok:
		return nil, fmt.Errorf("%w: %s has no embeddings, use openai, gemini or ollama",
			domain.ErrUnsupportedProvider, s.Provider)
	case !s.IsConfigured():
		return nil, fmt.Errorf("%w: %s embeddings need an API key", domain.ErrInvalidConfig, s.Provider)
	}
	return build(ctx, s)
}

// NewLLM builds the chat service for s.Provider. maxRetries is passed to
// SDKs that retry on their own.
func NewLLM(ctx context.Context, s *domain.LLMSettings, maxRetries int) (driven.LLMService, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: llm settings missing", domain.ErrInvalidConfig)
	}
	build, ok := llms[s.Provider]
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedProvider, s.Provider)
	case !s.IsConfigured():
		return nil, fmt.Errorf("%w: %s needs an API key", domain.ErrInvalidConfig, s.Provider)
	}
	return build(ctx, s, maxRetries)
}

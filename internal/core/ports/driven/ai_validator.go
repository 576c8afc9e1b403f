package driven

import (
	"context"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// AIConfigValidator checks that configured model providers answer with the
// given credentials. A nil or unknown configuration is an error.
type AIConfigValidator interface {
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error
	ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error
}

package ai

import (
	"context"
	"time"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

const defaultPingTimeout = 5 * time.Second

// ConfigValidator builds a throwaway service from settings and pings it.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator bounds each check by timeout (5s when zero).
func NewConfigValidator(timeout time.Duration) *ConfigValidator {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	return &ConfigValidator{timeout: timeout}
}

func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	svc, err := NewEmbedder(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.Ping(ctx)
}

// ValidateLLM pings without retries so a bad key fails fast.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	svc, err := NewLLM(ctx, settings, 0)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.Ping(ctx)
}

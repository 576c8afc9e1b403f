package driven

import (
	"context"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// SearchProvider performs a single web search request.
// Implementations do not retry, normalise or deduplicate; the core
// WebSearch service owns that policy.
//
// Errors should wrap domain.ErrAuthRequired when credentials are missing,
// domain.ErrRateLimited or domain.ErrTransient for retryable failures.
// Any other error is treated as permanent.
type SearchProvider interface {
	// Name returns the provider identifier for logging.
	Name() string

	// Search returns up to num raw organic results for query.
	Search(ctx context.Context, query string, num int) ([]domain.SearchHit, error)
}

package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/logger"
	"github.com/custodia-labs/scout/internal/retry"
)

// PerDomainLimit caps how many hits one domain may contribute.
const PerDomainLimit = 2

// WebSearch applies retry, normalisation, dedupe and domain diversity on
// top of a raw SearchProvider.
type WebSearch struct {
	provider   driven.SearchProvider
	maxResults int
	policy     retry.Policy
}

// NewWebSearch creates a web search service. maxResults bounds k.
func NewWebSearch(provider driven.SearchProvider, maxResults, maxRetries int) *WebSearch {
	if maxResults < 1 {
		maxResults = 1
	}
	return &WebSearch{
		provider:   provider,
		maxResults: maxResults,
		policy:     retry.NewPolicy(maxRetries),
	}
}

// Search returns up to k diverse, deduplicated hits for query.
// Remote failures are logged and yield an empty list.
func (s *WebSearch) Search(ctx context.Context, query string, k int) []domain.SearchHit {
	k = min(max(k, 1), s.maxResults)
	num := max(min(s.maxResults, k*2), k)

	var raw []domain.SearchHit
	err := s.policy.Do(ctx, isRetryableRemote, func(attempt int) error {
		hits, err := s.provider.Search(ctx, query, num)
		if err != nil {
			return err
		}
		raw = hits
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		logger.Warn("web search via %s skipped: %v", s.provider.Name(), err)
		return []domain.SearchHit{}
	case err != nil:
		logger.Warn("web search via %s failed for %q: %v", s.provider.Name(), query, err)
		return []domain.SearchHit{}
	}

	hits := diversify(raw, k)
	logger.Debug("web search %q: %d raw, %d kept", query, len(raw), len(hits))
	return hits
}

// diversify normalises URLs, drops duplicates and incomplete hits, keeps at
// most PerDomainLimit per domain in provider order and truncates to k.
func diversify(raw []domain.SearchHit, k int) []domain.SearchHit {
	out := make([]domain.SearchHit, 0, min(len(raw), k))
	seen := make(map[string]struct{}, len(raw))
	perDomain := make(map[string]int)

	for _, h := range raw {
		if len(out) == k {
			break
		}
		if h.URL == "" || h.Title == "" {
			continue
		}
		u, ok := domain.NormaliseURL(h.URL)
		if !ok {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		d := domain.DomainOf(u)
		if perDomain[d] >= PerDomainLimit {
			continue
		}
		seen[u] = struct{}{}
		perDomain[d]++
		out = append(out, domain.SearchHit{URL: u, Title: h.Title, Snippet: h.Snippet, Domain: d})
	}
	return out
}

// Package google provides a web search adapter for the Google Programmable
// Search (Custom Search JSON) API.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/scout/internal/adapters/driven/remote"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.SearchProvider = (*Provider)(nil)

const (
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// maxNum is the most results the API returns per request.
	maxNum = 10
)

// Config holds configuration for the Programmable Search provider.
type Config struct {
	// APIKey is a Google API key with the Custom Search API enabled.
	APIKey string

	// EngineID is the search engine id ("cx").
	EngineID string

	// Endpoint overrides the API base URL (tests).
	Endpoint string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Provider queries a Programmable Search engine.
type Provider struct {
	svc      *customsearch.Service
	engineID string
	timeout  time.Duration
}

// New creates a Programmable Search provider. Missing credentials are
// reported by Search, not here.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	p := &Provider{engineID: cfg.EngineID, timeout: cfg.Timeout}
	if cfg.APIKey == "" {
		return p, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: create service: %w", err)
	}
	p.svc = svc
	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "google"
}

// Search returns up to ten results for query, in engine order.
func (p *Provider) Search(ctx context.Context, query string, num int) ([]domain.SearchHit, error) {
	if p.svc == nil {
		return nil, fmt.Errorf("google: GOOGLE_API_KEY not set: %w", domain.ErrAuthRequired)
	}
	if p.engineID == "" {
		return nil, fmt.Errorf("google: GOOGLE_CSE_ID not set: %w", domain.ErrAuthRequired)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.svc.Cse.List().
		Cx(p.engineID).
		Q(query).
		Num(int64(min(max(num, 1), maxNum))).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, remote.StatusError("google", apiErr.Code, []byte(apiErr.Message))
		}
		return nil, remote.TransportError("google", err)
	}

	hits := make([]domain.SearchHit, 0, len(res.Items))
	for _, item := range res.Items {
		hits = append(hits, domain.SearchHit{
			URL:     strings.TrimSpace(item.Link),
			Title:   strings.TrimSpace(item.Title),
			Snippet: strings.TrimSpace(item.Snippet),
		})
	}
	return hits, nil
}

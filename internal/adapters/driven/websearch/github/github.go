// Package github provides a search adapter that treats GitHub repository
// search as a web search backend. Hits point at repository pages, which the
// fetcher and extractor then index like any other site.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/scout/internal/adapters/driven/remote"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.SearchProvider = (*Provider)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// maxPerPage is the largest page the search API serves.
	maxPerPage = 100
)

// Config holds configuration for the GitHub provider.
type Config struct {
	// Token is an optional personal access token. Anonymous search works
	// with a much lower rate limit.
	Token string

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Provider searches GitHub repositories.
type Provider struct {
	gh *gh.Client
}

// New creates a GitHub search provider.
func New(cfg Config) (*Provider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = cfg.Timeout
	}

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: parse base url: %w", err)
		}
		client.BaseURL = base
	}

	return &Provider{gh: client}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "github"
}

// Search returns repositories matching query, best match first.
func (p *Provider) Search(ctx context.Context, query string, num int) ([]domain.SearchHit, error) {
	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: min(max(num, 1), maxPerPage)},
	}

	result, _, err := p.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, wrapError(err)
	}

	hits := make([]domain.SearchHit, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		hits = append(hits, domain.SearchHit{
			URL:     repo.GetHTMLURL(),
			Title:   repo.GetFullName(),
			Snippet: strings.TrimSpace(repo.GetDescription()),
		})
	}
	return hits, nil
}

// wrapError maps go-github errors onto the retry classification.
func wrapError(err error) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("github: %v: %w", err, domain.ErrRateLimited)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("github: %v: %w", err, domain.ErrRateLimited)
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return remote.StatusError("github", ghErr.Response.StatusCode, []byte(ghErr.Message))
	}
	return remote.TransportError("github", err)
}

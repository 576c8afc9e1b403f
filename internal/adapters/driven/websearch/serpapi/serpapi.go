// Package serpapi provides a web search adapter for Google results served
// by serpapi.com.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/scout/internal/adapters/driven/remote"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.SearchProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://serpapi.com"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the SerpAPI provider.
type Config struct {
	// APIKey is the SerpAPI key. Searches fail with domain.ErrAuthRequired without it.
	APIKey string

	// BaseURL is the API base URL (default: https://serpapi.com).
	BaseURL string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Provider queries Google through SerpAPI.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

type searchResponse struct {
	OrganicResults []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error,omitempty"`
}

// New creates a SerpAPI provider.
func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Provider{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "serpapi"
}

// Search performs one search request and returns the organic results in
// provider order. URLs are returned as given.
func (p *Provider) Search(ctx context.Context, query string, num int) ([]domain.SearchHit, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("serpapi: SERPAPI_API_KEY not set: %w", domain.ErrAuthRequired)
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	params.Set("api_key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, remote.TransportError("serpapi", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remote.TransportError("serpapi", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remote.StatusError("serpapi", resp.StatusCode, body)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("serpapi: decode response: %w", err)
	}
	if sr.Error != "" && len(sr.OrganicResults) == 0 {
		// SerpAPI reports "no results" as an error string on a 200.
		return nil, nil
	}

	hits := make([]domain.SearchHit, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		hits = append(hits, domain.SearchHit{
			URL:     strings.TrimSpace(r.Link),
			Title:   strings.TrimSpace(r.Title),
			Snippet: strings.TrimSpace(r.Snippet),
		})
	}
	return hits, nil
}

// Package duckduckgo provides a keyless web search adapter that parses the
// DuckDuckGo HTML results page.
package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/scout/internal/adapters/driven/remote"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.SearchProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://html.duckduckgo.com"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the DuckDuckGo provider.
type Config struct {
	// BaseURL is the HTML endpoint host (default: https://html.duckduckgo.com).
	BaseURL string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration

	// UserAgent is sent with every request. DuckDuckGo rejects empty agents.
	UserAgent string
}

// Provider scrapes DuckDuckGo's HTML results.
type Provider struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// New creates a DuckDuckGo provider.
func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; ScoutResearch/1.0)"
	}
	return &Provider{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "duckduckgo"
}

// Search fetches one results page and returns up to num organic hits.
func (p *Provider) Search(ctx context.Context, query string, num int) ([]domain.SearchHit, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/html/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, remote.TransportError("duckduckgo", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, remote.StatusError("duckduckgo", resp.StatusCode, body)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse results: %w", err)
	}

	return parseResults(doc, num), nil
}

// parseResults reads result blocks in page order, skipping ads.
func parseResults(doc *goquery.Document, num int) []domain.SearchHit {
	var hits []domain.SearchHit

	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		target := resolveRedirect(href)
		title := strings.TrimSpace(link.Text())
		if target == "" || title == "" {
			return true
		}

		hits = append(hits, domain.SearchHit{
			URL:     target,
			Title:   title,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return num <= 0 || len(hits) < num
	})

	return hits
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		return u.Query().Get("uddg")
	}
	if u.Scheme == "" {
		return ""
	}
	return u.String()
}

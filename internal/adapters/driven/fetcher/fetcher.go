// Package fetcher downloads web pages for ingestion.
//
// Fetch never returns an error: remote failures are reported through the
// status of the returned page, with empty HTML.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/logger"
	"github.com/custodia-labs/scout/internal/retry"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "ScoutResearch/1.0 (+https://github.com/custodia-labs/scout)"

	// maxBodyBytes bounds how much of one page is read into memory.
	maxBodyBytes = 5 << 20
)

// retryableStatuses are the HTTP statuses worth another attempt.
var retryableStatuses = []int{
	http.StatusRequestTimeout,
	http.StatusConflict,
	http.StatusTooEarly,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Config holds configuration for the page fetcher.
type Config struct {
	// Timeout bounds a single request (default: 15s).
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// RateLimitRPS paces requests across all fetches. Zero disables pacing.
	RateLimitRPS float64

	// UserAgent is sent with every request.
	UserAgent string
}

// Fetcher downloads HTML pages with retry and pacing.
type Fetcher struct {
	client    *http.Client
	userAgent string
	policy    retry.Policy
	limiter   *RateLimiter
}

// New creates a page fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		policy:    retry.NewPolicy(cfg.MaxRetries, retryableStatuses...),
		limiter:   NewRateLimiter(cfg.RateLimitRPS),
	}
}

// Fetch downloads url. Non-http(s) URLs are not requested and report
// status 0. Non-HTML responses report their status with empty HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) domain.FetchedPage {
	page := domain.FetchedPage{URL: url}
	if !domain.IsHTTPURL(url) {
		return page
	}

	var html string
	status, err := f.policy.Execute(ctx, func(attempt int) (int, error) {
		html = ""
		if err := f.limiter.Wait(ctx); err != nil {
			return 0, err
		}
		status, body, err := f.get(ctx, url)
		if err != nil {
			logger.Debug("fetch %s attempt %d: %v", url, attempt+1, err)
			return 0, err
		}
		html = body
		return status, nil
	})
	if err != nil {
		logger.Warn("fetch %s failed: %v", url, err)
		return page
	}

	page.Status = status
	if status != http.StatusOK {
		logger.Debug("fetch %s: status %d", url, status)
		return page
	}
	page.HTML = html
	return page
}

// get performs one request. The body is only read for 200 HTML responses.
func (f *Fetcher) get(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	f.limiter.RecordRetryAfter(resp)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return resp.StatusCode, "", nil
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		logger.Info("fetch %s: non-HTML content (%s)", url, contentType)
		return resp.StatusCode, "", nil
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), contentType)
	if err != nil {
		return 0, "", fmt.Errorf("decode charset: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return 0, "", fmt.Errorf("read body: %w", err)
	}

	return resp.StatusCode, string(body), nil
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

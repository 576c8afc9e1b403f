package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/retry"
)

func newTestFetcher(maxRetries int) *Fetcher {
	f := New(Config{Timeout: 2 * time.Second, MaxRetries: maxRetries})
	f.policy = retry.NewPolicy(maxRetries, retryableStatuses...)
	f.policy.InitialBackoff = time.Millisecond
	f.policy.MaxBackoff = 5 * time.Millisecond
	f.policy.Jitter = 0
	return f
}

func TestFetch_HTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "en-US,en;q=0.9", r.Header.Get("Accept-Language"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer server.Close()

	page := newTestFetcher(0).Fetch(context.Background(), server.URL)
	require.True(t, page.OK())

	assert.Equal(t, server.URL, page.URL)
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Contains(t, page.HTML, "<p>hello</p>")
}

func TestFetch_CustomUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>x</p>"))
	}))
	defer server.Close()

	page := New(Config{UserAgent: "test-agent/1.0"}).Fetch(context.Background(), server.URL)
	assert.Equal(t, http.StatusOK, page.Status)
}

func TestFetch_NonHTTPURL(t *testing.T) {
	page := newTestFetcher(0).Fetch(context.Background(), "ftp://example.com/file")

	assert.Equal(t, "ftp://example.com/file", page.URL)
	assert.Zero(t, page.Status)
	assert.Empty(t, page.HTML)
}

func TestFetch_NonHTMLContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	page := newTestFetcher(0).Fetch(context.Background(), server.URL)

	assert.Equal(t, http.StatusOK, page.Status)
	assert.Empty(t, page.HTML)
	assert.False(t, page.OK())
}

func TestFetch_XHTMLAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xhtml+xml")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	page := newTestFetcher(0).Fetch(context.Background(), server.URL)
	assert.NotEmpty(t, page.HTML)
}

func TestFetch_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>recovered</p>"))
	}))
	defer server.Close()

	page := newTestFetcher(2).Fetch(context.Background(), server.URL)
	require.Equal(t, http.StatusOK, page.Status)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Contains(t, page.HTML, "recovered")
}

func TestFetch_ExhaustedRetriesReportLastStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	page := newTestFetcher(1).Fetch(context.Background(), server.URL)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, http.StatusBadGateway, page.Status)
	assert.Empty(t, page.HTML)
}

func TestFetch_NonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	page := newTestFetcher(3).Fetch(context.Background(), server.URL)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusNotFound, page.Status)
}

func TestFetch_TransportErrorReportsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	page := newTestFetcher(1).Fetch(context.Background(), url)

	assert.Zero(t, page.Status)
	assert.Empty(t, page.HTML)
}

func TestFetch_DecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "café" in Latin-1.
		_, _ = w.Write([]byte{'<', 'p', '>', 'c', 'a', 'f', 0xe9, '<', '/', 'p', '>'})
	}))
	defer server.Close()

	page := newTestFetcher(0).Fetch(context.Background(), server.URL)
	assert.Contains(t, page.HTML, "café")
}

func TestFetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := newTestFetcher(2).Fetch(ctx, server.URL)
	assert.Empty(t, page.HTML)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML("text/html; charset=utf-8"))
	assert.True(t, isHTML("TEXT/HTML"))
	assert.True(t, isHTML("application/xhtml+xml"))
	assert.False(t, isHTML("application/json"))
	assert.False(t, isHTML(""))
}

package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/core/domain"
)

func TestSearch_MissingKey(t *testing.T) {
	_, err := New(Config{}).Search(context.Background(), "go", 5)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestSearch_ParsesOrganicResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "vector databases", q.Get("q"))
		assert.Equal(t, "10", q.Get("num"))
		assert.Equal(t, "secret", q.Get("api_key"))

		_, _ = w.Write([]byte(`{"organic_results":[
			{"link":" https://a.example/x ","title":" A ","snippet":"first"},
			{"link":"https://b.example/y","title":"B"}
		]}`))
	}))
	defer server.Close()

	hits, err := New(Config{APIKey: "secret", BaseURL: server.URL}).Search(context.Background(), "vector databases", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "https://a.example/x", hits[0].URL)
	assert.Equal(t, "A", hits[0].Title)
	assert.Equal(t, "first", hits[0].Snippet)
	assert.Empty(t, hits[1].Snippet)
}

func TestSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Google hasn't returned any results for this query."}`))
	}))
	defer server.Close()

	hits, err := New(Config{APIKey: "k", BaseURL: server.URL}).Search(context.Background(), "zzz", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusInternalServerError, domain.ErrTransient},
		{http.StatusGatewayTimeout, domain.ErrBackendTimeout},
		{http.StatusUnauthorized, domain.ErrAuthRequired},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := New(Config{APIKey: "k", BaseURL: server.URL}).Search(context.Background(), "q", 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "serpapi", New(Config{}).Name())
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/core/domain"
)

func hit(url, title string) domain.SearchHit {
	return domain.SearchHit{URL: url, Title: title, Snippet: "s"}
}

func newTestWebSearch(p *mockSearchProvider, maxResults, maxRetries int) *WebSearch {
	s := NewWebSearch(p, maxResults, maxRetries)
	s.policy = fastPolicy(maxRetries)
	return s
}

func TestWebSearch_NormalisesDedupesAndDiversifies(t *testing.T) {
	p := &mockSearchProvider{results: []domain.SearchHit{
		hit("https://a.com/1?utm_source=x#top", "A1"),
		hit("https://a.com/1", "A1 again"),
		hit("https://a.com/2", "A2"),
		hit("https://a.com/3", "A3"),
		hit("ftp://b.com/file", "FTP"),
		hit("https://b.com/x", ""),
		hit("", "No URL"),
		hit("https://B.com:8443/y?id=1&fbclid=z", "B"),
		hit("https://c.com/", "C"),
	}}
	s := newTestWebSearch(p, 20, 0)

	got := s.Search(context.Background(), "q", 10)

	require.Len(t, got, 4)
	assert.Equal(t, "https://a.com/1", got[0].URL)
	assert.Equal(t, "A1", got[0].Title)
	assert.Equal(t, "a.com", got[0].Domain)
	assert.Equal(t, "https://a.com/2", got[1].URL)
	assert.Equal(t, "https://B.com:8443/y?id=1", got[2].URL)
	assert.Equal(t, "b.com:8443", got[2].Domain)
	assert.Equal(t, "https://c.com/", got[3].URL)
}

func TestWebSearch_ClampsAndOversamples(t *testing.T) {
	tests := []struct {
		name       string
		maxResults int
		k          int
		wantNum    int
	}{
		{"oversample", 20, 5, 10},
		{"capped by max", 20, 15, 20},
		{"k below one", 20, 0, 2},
		{"k above max", 8, 50, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockSearchProvider{}
			s := newTestWebSearch(p, tt.maxResults, 0)

			s.Search(context.Background(), "q", tt.k)

			assert.Equal(t, tt.wantNum, p.lastNum)
		})
	}
}

func TestWebSearch_Truncates(t *testing.T) {
	p := &mockSearchProvider{results: []domain.SearchHit{
		hit("https://a.com/", "A"), hit("https://b.com/", "B"), hit("https://c.com/", "C"),
	}}
	s := newTestWebSearch(p, 20, 0)

	got := s.Search(context.Background(), "q", 2)

	require.Len(t, got, 2)
	assert.Equal(t, "https://b.com/", got[1].URL)
}

func TestWebSearch_RetriesTransientFailures(t *testing.T) {
	p := &mockSearchProvider{
		errs:    []error{domain.ErrRateLimited, domain.ErrTransient},
		results: []domain.SearchHit{hit("https://a.com/", "A")},
	}
	s := newTestWebSearch(p, 20, 2)

	got := s.Search(context.Background(), "q", 5)

	assert.Equal(t, 3, p.calls)
	assert.Len(t, got, 1)
}

func TestWebSearch_ExhaustionYieldsEmpty(t *testing.T) {
	p := &mockSearchProvider{errs: []error{domain.ErrTransient, domain.ErrTransient, domain.ErrTransient}}
	s := newTestWebSearch(p, 20, 1)

	got := s.Search(context.Background(), "q", 5)

	assert.Equal(t, 2, p.calls)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWebSearch_PermanentAndAuthFailures(t *testing.T) {
	for _, err := range []error{domain.ErrAuthRequired, errors.New("bad request")} {
		p := &mockSearchProvider{errs: []error{err}}
		s := newTestWebSearch(p, 20, 3)

		got := s.Search(context.Background(), "q", 5)

		assert.Equal(t, 1, p.calls, "no retry for %v", err)
		assert.Empty(t, got)
	}
}

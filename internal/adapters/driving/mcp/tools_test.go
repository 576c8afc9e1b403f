package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/core/domain"
)

func TestServer_handleResearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ingest summary", func(t *testing.T) {
		mockResearch := &mockResearchService{
			research: &domain.ResearchResult{
				Namespace: "go-generics",
				Ingested:  true,
				Summary: &domain.IngestSummary{
					IndexedPages:  2,
					IndexedChunks: 9,
					SkippedPages:  1,
					Sources: []domain.SourceSummary{
						{Title: "Generics", URL: "https://go.dev/doc/tutorial/generics", TextLen: 4000},
					},
				},
				Trace: []string{"Thought: one", "Action: two"},
			},
		}

		server, err := NewServer(&Ports{Research: mockResearch})
		require.NoError(t, err)

		input := ResearchInput{Topic: "Go generics", Force: true}
		_, output, err := server.handleResearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Go generics", mockResearch.lastTopic)
		assert.Empty(t, mockResearch.lastNamespace)
		assert.True(t, mockResearch.lastForce)
		assert.Equal(t, "go-generics", output.Namespace)
		assert.True(t, output.DidIngest)
		assert.Equal(t, 2, output.IndexedPages)
		assert.Equal(t, 9, output.IndexedChunks)
		assert.Equal(t, 1, output.SkippedPages)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "https://go.dev/doc/tutorial/generics", output.Sources[0].URL)
		assert.Len(t, output.Trace, 2)
	})

	t.Run("existing namespace has no summary", func(t *testing.T) {
		mockResearch := &mockResearchService{
			research: &domain.ResearchResult{
				Namespace: "rust",
				Trace:     []string{"Observation: Namespace 'rust' already exists. Skipping ingest."},
			},
		}

		server, err := NewServer(&Ports{Research: mockResearch})
		require.NoError(t, err)

		_, output, err := server.handleResearch(ctx, nil, ResearchInput{Topic: "rust", Namespace: "rust"})

		require.NoError(t, err)
		assert.Equal(t, "rust", mockResearch.lastNamespace)
		assert.False(t, output.DidIngest)
		assert.Zero(t, output.IndexedChunks)
		assert.Nil(t, output.Sources)
	})

	t.Run("empty topic is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Research: &mockResearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleResearch(ctx, nil, ResearchInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on research failure", func(t *testing.T) {
		mockResearch := &mockResearchService{err: errors.New("store unavailable")}
		server, err := NewServer(&Ports{Research: mockResearch})
		require.NoError(t, err)

		_, _, err = server.handleResearch(ctx, nil, ResearchInput{Topic: "go"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store unavailable")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns content and citations", func(t *testing.T) {
		mockResearch := &mockResearchService{
			ask: &domain.AskResult{
				Namespace: "go",
				Question:  "what are goroutines?",
				Content:   "Lightweight threads [1].",
				Citations: []domain.Citation{
					{Title: "Effective Go", URL: "https://go.dev/doc/effective_go"},
				},
				Trace: []string{"Observation: got content with 1 citation(s)."},
			},
		}

		server, err := NewServer(&Ports{Research: mockResearch})
		require.NoError(t, err)

		input := AskInput{Question: "what are goroutines?", Namespace: "go", TopK: 3}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 3, mockResearch.lastTopK)
		assert.Equal(t, "Lightweight threads [1].", output.Content)
		require.Len(t, output.Citations, 1)
		assert.Equal(t, "Effective Go", output.Citations[0].Title)
		assert.Equal(t, "https://go.dev/doc/effective_go", output.Citations[0].URL)
		assert.Len(t, output.Trace, 1)
	})

	t.Run("no citations is an empty list", func(t *testing.T) {
		mockResearch := &mockResearchService{
			ask: &domain.AskResult{Namespace: "go", Content: "nothing found"},
		}
		server, err := NewServer(&Ports{Research: mockResearch})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "q", Namespace: "go"})

		require.NoError(t, err)
		assert.NotNil(t, output.Citations)
		assert.Empty(t, output.Citations)
	})

	t.Run("missing namespace is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Research: &mockResearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on ask failure", func(t *testing.T) {
		mockResearch := &mockResearchService{err: domain.ErrLLMUnavailable}
		server, err := NewServer(&Ports{Research: mockResearch})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q", Namespace: "go"})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}

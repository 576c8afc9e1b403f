package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scout/internal/core/domain"
)

func seededRetriever(t *testing.T, emb *mockEmbedding) *Retriever {
	t.Helper()
	store := memory.NewVectorStore()
	idx := NewIndexer(store, DefaultCollectionPrefix)
	_, err := idx.Upsert(context.Background(), "langs", []domain.EmbeddingRecord{
		{ID: "go", Vector: keywordVector("go"), Document: "Go has goroutines",
			Metadata: domain.ChunkMetadata{URL: "https://go.dev", Title: "Go", Order: 0}},
		{ID: "rust", Vector: keywordVector("rust"), Document: "Rust has ownership",
			Metadata: domain.ChunkMetadata{URL: "https://rust-lang.org", Title: "Rust", Order: 1}},
		{ID: "both", Vector: keywordVector("go rust"), Document: "Go and Rust compared",
			Metadata: domain.ChunkMetadata{URL: "https://cmp.dev", Title: "Compare", Order: 2}},
	})
	require.NoError(t, err)
	return NewRetriever(idx, store, emb)
}

func TestRetriever_ScoresAndOrders(t *testing.T) {
	r := seededRetriever(t, &mockEmbedding{})

	got, err := r.Retrieve(context.Background(), "langs", "tell me about go", 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "go", got[0].ID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	assert.Equal(t, "Go has goroutines", got[0].Text)
	assert.Equal(t, "https://go.dev", got[0].URL)
	assert.Equal(t, "Go", got[0].Title)
	assert.Equal(t, "both", got[1].ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRetriever_TopKAtLeastOne(t *testing.T) {
	r := seededRetriever(t, &mockEmbedding{})

	got, err := r.Retrieve(context.Background(), "langs", "rust", 0)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rust", got[0].ID)
}

func TestRetriever_EmptyResults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		emb       *mockEmbedding
		namespace string
		question  string
	}{
		{"blank namespace", &mockEmbedding{}, " ", "go"},
		{"blank question", &mockEmbedding{}, "langs", ""},
		{"missing namespace", &mockEmbedding{}, "nope", "go"},
		{"embedding failure", &mockEmbedding{embedErr: domain.ErrBackendTimeout}, "langs", "go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := seededRetriever(t, tt.emb)

			got, err := r.Retrieve(ctx, tt.namespace, tt.question, 3)

			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestRetriever_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("locked")
	store := failingStore{err: boom}
	r := NewRetriever(NewIndexer(store, ""), store, &mockEmbedding{})

	_, err := r.Retrieve(context.Background(), "ns", "go", 3)

	assert.ErrorIs(t, err, domain.ErrStorage)
}

package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

func rec(id string, vec ...float32) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		ID:       id,
		Vector:   vec,
		Document: "doc " + id,
		Metadata: domain.ChunkMetadata{URL: "https://example.com/" + id, Title: id},
	}
}

func TestVectorStore_Lifecycle(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	exists, err := store.CollectionExists(ctx, "ns")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.EnsureCollection(ctx, "ns", driven.DistanceCosine))
	require.NoError(t, store.EnsureCollection(ctx, "ns", driven.DistanceCosine))

	exists, err = store.CollectionExists(ctx, "ns")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Upsert(ctx, "ns", []domain.EmbeddingRecord{
		rec("a", 1, 0),
		rec("b", 0, 1),
		rec("c", 1, 1),
	}))

	n, err := store.Count(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	matches, err := store.Query(ctx, "ns", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
	assert.InDelta(t, 0, matches[0].Distance, 1e-9)
	assert.Equal(t, "https://example.com/a", matches[0].Metadata.URL)

	require.NoError(t, store.DeleteCollection(ctx, "ns"))
	assert.ErrorIs(t, store.DeleteCollection(ctx, "ns"), domain.ErrNotFound)
	assert.NoError(t, store.Close())
}

func TestVectorStore_Errors(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Upsert(ctx, "missing", []domain.EmbeddingRecord{rec("a", 1)}), domain.ErrNotFound)
	_, err := store.Query(ctx, "missing", []float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Count(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.EnsureCollection(ctx, "", ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.EnsureCollection(ctx, "x", "ip"), domain.ErrInvalidInput)

	require.NoError(t, store.EnsureCollection(ctx, "ns", ""))
	require.NoError(t, store.Upsert(ctx, "ns", []domain.EmbeddingRecord{rec("a", 1, 0)}))

	err = store.Upsert(ctx, "ns", []domain.EmbeddingRecord{rec("b", 1, 0), rec("c", 1, 0, 0)})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.ErrorIs(t, err, domain.ErrStorage)

	n, _ := store.Count(ctx, "ns")
	assert.Equal(t, 1, n, "mismatched batch is not applied")

	_, err = store.Query(ctx, "ns", []float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorStore_UpsertCopiesVectors(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, "ns", ""))

	r := rec("a", 1, 0)
	require.NoError(t, store.Upsert(ctx, "ns", []domain.EmbeddingRecord{r}))
	r.Vector[0] = 0

	matches, err := store.Query(ctx, "ns", []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, matches[0].Distance, 1e-9)
}

func TestVectorStore_ListCollections(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()
	for _, name := range []string{"research_b", "research_a", "tmp"} {
		require.NoError(t, store.EnsureCollection(ctx, name, ""))
	}
	require.NoError(t, store.Upsert(ctx, "research_a", []domain.EmbeddingRecord{rec("x", 1, 2, 3)}))

	infos, err := store.ListCollections(ctx, "research_")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "research_a", infos[0].Name)
	assert.Equal(t, 1, infos[0].Count)
	assert.Equal(t, 3, infos[0].Dimensions)
	assert.Equal(t, "research_b", infos[1].Name)
}

func TestVectorStore_ConcurrentUpserts(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, "ns", ""))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Upsert(ctx, "ns", []domain.EmbeddingRecord{rec(string(rune('a'+i)), 1, float32(i))})
		}(i)
	}
	wg.Wait()

	n, err := store.Count(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

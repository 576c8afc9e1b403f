package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// DistanceCosine is the only distance space collections are created with.
const DistanceCosine = "cosine"

// CollectionInfo describes a stored collection.
type CollectionInfo struct {
	Name       string
	Space      string
	Dimensions int
	Count      int
	CreatedAt  time.Time
}

// VectorStore persists embedding records in named collections.
// A collection maps one-to-one to a research namespace.
type VectorStore interface {
	// CollectionExists reports whether the named collection has been created.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// EnsureCollection creates the collection if absent (get-or-create).
	EnsureCollection(ctx context.Context, name, space string) error

	// Upsert inserts or overwrites records by ID.
	// Returns domain.ErrNotFound if the collection does not exist.
	Upsert(ctx context.Context, name string, records []domain.EmbeddingRecord) error

	// Query returns the k records nearest to vector, closest first.
	// Returns domain.ErrNotFound if the collection does not exist.
	Query(ctx context.Context, name string, vector []float32, k int) ([]domain.VectorMatch, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context, name string) (int, error)

	// ListCollections returns all collections whose name starts with prefix.
	ListCollections(ctx context.Context, prefix string) ([]CollectionInfo, error)

	// DeleteCollection drops a collection and its records.
	// Returns domain.ErrNotFound if the collection does not exist.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}

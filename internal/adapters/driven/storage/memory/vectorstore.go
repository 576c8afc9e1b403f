// Package memory provides in-memory implementations of the storage ports.
// They back the MCP and service tests and the ":memory:" store directory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/scout/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type collection struct {
	space      string
	dimensions int
	createdAt  time.Time
	records    map[string]domain.EmbeddingRecord
}

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]*collection),
	}
}

// CollectionExists reports whether the named collection has been created.
func (s *VectorStore) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

// EnsureCollection creates the collection if absent.
func (s *VectorStore) EnsureCollection(_ context.Context, name, space string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name is empty", domain.ErrInvalidInput)
	}
	if space == "" {
		space = driven.DistanceCosine
	}
	if space != driven.DistanceCosine {
		return fmt.Errorf("%w: unsupported distance space %q", domain.ErrInvalidInput, space)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = &collection{
			space:     space,
			createdAt: time.Now().UTC(),
			records:   make(map[string]domain.EmbeddingRecord),
		}
	}
	return nil
}

// Upsert inserts or overwrites records by ID. The batch is applied only if
// every vector matches the collection's dimensions.
func (s *VectorStore) Upsert(_ context.Context, name string, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}

	dims := c.dimensions
	if dims == 0 {
		dims = len(records[0].Vector)
	}
	for _, rec := range records {
		if len(rec.Vector) != dims {
			return fmt.Errorf("%w: record %s has %d dimensions, collection %q has %d: %w",
				domain.ErrStorage, rec.ID, len(rec.Vector), name, dims, domain.ErrDimensionMismatch)
		}
	}

	c.dimensions = dims
	for _, rec := range records {
		rec.Vector = append([]float32(nil), rec.Vector...)
		c.records[rec.ID] = rec
	}
	return nil
}

// Query returns the k records nearest to vector by cosine distance.
func (s *VectorStore) Query(_ context.Context, name string, vector []float32, k int) ([]domain.VectorMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	if c.dimensions == 0 || k <= 0 {
		return nil, nil
	}
	if len(vector) != c.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection %q has %d: %w",
			domain.ErrStorage, len(vector), name, c.dimensions, domain.ErrDimensionMismatch)
	}

	matches := make([]domain.VectorMatch, 0, len(c.records))
	for _, rec := range c.records {
		matches = append(matches, domain.VectorMatch{
			ID:       rec.ID,
			Document: rec.Document,
			Metadata: rec.Metadata,
			Distance: similarity.CosineDistance(vector, rec.Vector),
		})
	}
	return similarity.TopK(matches, k), nil
}

// Count returns the number of records in the collection.
func (s *VectorStore) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	return len(c.records), nil
}

// ListCollections returns all collections whose name starts with prefix, by name.
func (s *VectorStore) ListCollections(_ context.Context, prefix string) ([]driven.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []driven.CollectionInfo
	for name, c := range s.collections {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		out = append(out, driven.CollectionInfo{
			Name:       name,
			Space:      c.space,
			Dimensions: c.dimensions,
			Count:      len(c.records),
			CreatedAt:  c.createdAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteCollection drops a collection and its records.
func (s *VectorStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.collections, name)
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

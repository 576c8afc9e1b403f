package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/core/ports/driving"
)

// Ensure NamespaceService implements the interface.
var _ driving.NamespaceService = (*NamespaceService)(nil)

// NamespaceService lists and removes namespaces and reads run history.
type NamespaceService struct {
	store   driven.VectorStore
	indexer *Indexer
	runs    driven.RunStore
}

// NewNamespaceService creates a namespace service. runs may be nil.
func NewNamespaceService(store driven.VectorStore, indexer *Indexer, runs driven.RunStore) *NamespaceService {
	return &NamespaceService{store: store, indexer: indexer, runs: runs}
}

// List returns every namespace under the collection prefix.
func (s *NamespaceService) List(ctx context.Context) ([]domain.NamespaceInfo, error) {
	prefix := s.indexer.Collection("")
	infos, err := s.store.ListCollections(ctx, prefix)
	if err != nil {
		return nil, storageError("list collections", err)
	}

	out := make([]domain.NamespaceInfo, 0, len(infos))
	for _, c := range infos {
		out = append(out, domain.NamespaceInfo{
			Name:       strings.TrimPrefix(c.Name, prefix),
			Collection: c.Name,
			Chunks:     c.Count,
			Dimensions: c.Dimensions,
			CreatedAt:  c.CreatedAt,
		})
	}
	return out, nil
}

// Delete drops namespace and its chunks.
func (s *NamespaceService) Delete(ctx context.Context, namespace string) error {
	if strings.TrimSpace(namespace) == "" {
		return fmt.Errorf("%w: namespace is required", domain.ErrInvalidInput)
	}
	name := s.indexer.Collection(namespace)
	if err := s.store.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("delete namespace %q: %w", namespace, err)
	}
	return nil
}

// Runs returns recent ingestion runs, newest first.
func (s *NamespaceService) Runs(ctx context.Context, namespace string, limit int) ([]domain.IngestSummary, error) {
	if s.runs == nil {
		return []domain.IngestSummary{}, nil
	}
	runs, err := s.runs.ListRuns(ctx, strings.TrimSpace(namespace), limit)
	if err != nil {
		return nil, storageError("list runs", err)
	}
	return runs, nil
}

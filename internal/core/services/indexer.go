package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/logger"
)

// DefaultCollectionPrefix is prepended to namespaces to name collections.
const DefaultCollectionPrefix = "research_"

// Indexer maps namespaces to vector store collections and writes records.
type Indexer struct {
	store  driven.VectorStore
	prefix string
	now    func() time.Time
}

// NewIndexer creates an indexer over store.
func NewIndexer(store driven.VectorStore, prefix string) *Indexer {
	return &Indexer{store: store, prefix: prefix, now: time.Now}
}

// Collection returns the collection name for namespace.
func (i *Indexer) Collection(namespace string) string {
	return strings.TrimSpace(i.prefix + namespace)
}

// Exists reports whether namespace has a collection.
func (i *Indexer) Exists(ctx context.Context, namespace string) (bool, error) {
	ok, err := i.store.CollectionExists(ctx, i.Collection(namespace))
	if err != nil {
		return false, fmt.Errorf("%w: check namespace %q: %w", domain.ErrStorage, namespace, err)
	}
	return ok, nil
}

// Upsert writes the valid records into namespace, creating the cosine
// collection on first use, and returns how many were written.
func (i *Indexer) Upsert(ctx context.Context, namespace string, records []domain.EmbeddingRecord) (int, error) {
	if strings.TrimSpace(namespace) == "" {
		return 0, fmt.Errorf("%w: namespace is required", domain.ErrInvalidInput)
	}

	addedAt := i.now().UTC().Format(time.RFC3339)
	valid := make([]domain.EmbeddingRecord, 0, len(records))
	for _, r := range records {
		r.ID = strings.TrimSpace(r.ID)
		r.Document = strings.TrimSpace(r.Document)
		if !r.IsValid() {
			continue
		}
		r.Metadata.AddedAt = addedAt
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	name := i.Collection(namespace)
	if err := i.store.EnsureCollection(ctx, name, driven.DistanceCosine); err != nil {
		return 0, storageError("create collection "+name, err)
	}
	if err := i.store.Upsert(ctx, name, valid); err != nil {
		return 0, storageError("upsert into "+name, err)
	}

	logger.Info("upserted %d records into collection %q", len(valid), name)
	return len(valid), nil
}

// storageError marks err as a storage failure unless it already is one.
func storageError(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

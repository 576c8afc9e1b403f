package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/logger"
)

// Retriever finds the chunks most similar to a question.
type Retriever struct {
	indexer  *Indexer
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewRetriever creates a retriever.
func NewRetriever(indexer *Indexer, store driven.VectorStore, embedder driven.EmbeddingService) *Retriever {
	return &Retriever{indexer: indexer, store: store, embedder: embedder}
}

// Retrieve returns up to topK contexts from namespace, best first.
// Missing namespaces and embedding failures yield an empty result.
// Storage failures are returned.
func (r *Retriever) Retrieve(ctx context.Context, namespace, question string, topK int) ([]domain.RetrievedContext, error) {
	namespace = strings.TrimSpace(namespace)
	question = strings.TrimSpace(question)
	if namespace == "" || question == "" {
		return nil, nil
	}

	exists, err := r.indexer.Exists(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Warn("namespace %q has no collection", namespace)
		return nil, nil
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		logger.Warn("embedding question failed: %v", err)
		return nil, nil
	}
	if len(vector) == 0 {
		logger.Warn("embedding question returned an empty vector")
		return nil, nil
	}

	matches, err := r.store.Query(ctx, r.indexer.Collection(namespace), vector, max(1, topK))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("namespace %q disappeared before query", namespace)
			return nil, nil
		}
		return nil, storageError("query "+r.indexer.Collection(namespace), err)
	}

	out := make([]domain.RetrievedContext, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.RetrievedContext{
			ID:    m.ID,
			Text:  m.Document,
			URL:   m.Metadata.URL,
			Title: m.Metadata.Title,
			Order: m.Metadata.Order,
			Score: 1 - m.Distance,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	logger.Debug("retrieved %d contexts from %q", len(out), namespace)
	return out, nil
}

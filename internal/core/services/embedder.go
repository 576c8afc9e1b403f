package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/logger"
	"github.com/custodia-labs/scout/internal/retry"
)

// Embedder defaults.
const (
	DefaultEmbedBatchSize = 64
	maxConcurrentBatches  = 4
)

// Embedder turns chunks into embedding records in fixed-size batches.
type Embedder struct {
	svc       driven.EmbeddingService
	batchSize int
	policy    retry.Policy
}

// NewEmbedder creates an embedder. batchSize <= 0 uses DefaultEmbedBatchSize.
func NewEmbedder(svc driven.EmbeddingService, batchSize, maxRetries int) *Embedder {
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}
	return &Embedder{
		svc:       svc,
		batchSize: batchSize,
		policy:    retry.NewPolicy(maxRetries),
	}
}

// Embed returns one record per non-empty chunk, in chunk order.
// A batch that keeps failing is dropped and logged; the others continue.
func (e *Embedder) Embed(ctx context.Context, chunks []domain.Chunk) []domain.EmbeddingRecord {
	var kept []domain.Chunk
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	nBatches := (len(kept) + e.batchSize - 1) / e.batchSize
	results := make([][]domain.EmbeddingRecord, nBatches)

	var g errgroup.Group
	g.SetLimit(maxConcurrentBatches)
	for b := 0; b < nBatches; b++ {
		batch := kept[b*e.batchSize : min((b+1)*e.batchSize, len(kept))]
		g.Go(func() error {
			records, err := e.embedBatch(ctx, batch)
			if err != nil {
				logger.Error("embedding batch %d/%d (%d chunks) dropped: %v", b+1, nBatches, len(batch), err)
				return nil
			}
			results[b] = records
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.EmbeddingRecord, 0, len(kept))
	for _, r := range results {
		out = append(out, r...)
	}
	logger.Debug("embedded %d of %d chunks with %s", len(out), len(kept), e.svc.ModelName())
	return out
}

func (e *Embedder) embedBatch(ctx context.Context, batch []domain.Chunk) ([]domain.EmbeddingRecord, error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	var vectors [][]float32
	err := e.policy.Do(ctx, isRateLimitOrTimeout, func(int) error {
		v, err := e.svc.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		vectors = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
	}

	records := make([]domain.EmbeddingRecord, len(batch))
	for i, c := range batch {
		records[i] = domain.EmbeddingRecord{
			ID:       c.ID,
			Vector:   vectors[i],
			Document: c.Text,
			Metadata: domain.ChunkMetadata{URL: c.URL, Title: c.Title, Order: c.Order},
		}
	}
	return records, nil
}

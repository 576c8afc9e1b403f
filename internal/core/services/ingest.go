package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/core/ports/driving"
	"github.com/custodia-labs/scout/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// maxConcurrentFetches bounds in-flight page downloads per run.
const maxConcurrentFetches = 4

// IngestDeps are the pipeline stages an IngestService drives.
type IngestDeps struct {
	Search    *WebSearch
	Fetcher   driven.PageFetcher
	Extractor driven.Extractor
	Chunker   driven.Chunker
	Embedder  *Embedder
	Indexer   *Indexer

	// Runs records finished runs. Optional.
	Runs driven.RunStore
}

// IngestService runs search, fetch, extract, chunk, embed and upsert for a topic.
type IngestService struct {
	deps     IngestDeps
	settings domain.IngestSettings
	newID    func() string
	now      func() time.Time
}

// NewIngestService creates an ingest orchestrator.
func NewIngestService(deps IngestDeps, settings domain.IngestSettings) *IngestService {
	return &IngestService{
		deps:     deps,
		settings: settings,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// page is the per-hit outcome of fetch and extract.
type page struct {
	doc domain.ExtractedDoc
	ok  bool
}

// Ingest indexes web sources for topic into namespace.
// Individual page failures are counted as skipped; storage errors abort.
func (s *IngestService) Ingest(ctx context.Context, topic, namespace string) (*domain.IngestSummary, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = domain.Slugify(topic)
	}

	summary := &domain.IngestSummary{
		RunID:     s.newID(),
		Topic:     topic,
		Namespace: namespace,
		Sources:   []domain.SourceSummary{},
		StartedAt: s.now().UTC(),
	}
	logger.Section("Ingest " + summary.RunID)
	logger.Info("run %s: ingesting %q into namespace %q", summary.RunID, topic, namespace)

	want := max(1, s.settings.MaxPages)
	hits := s.deps.Search.Search(ctx, topic, want*2)
	if len(hits) > want {
		hits = hits[:want]
	}
	if len(hits) == 0 {
		logger.Warn("run %s: search returned no results", summary.RunID)
		return s.finish(ctx, summary), nil
	}

	pages := s.fetchAll(ctx, summary.RunID, hits)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest %q: %w", topic, err)
	}

	var chunks []domain.Chunk
	for _, p := range pages {
		if !p.ok {
			summary.SkippedPages++
			continue
		}
		summary.IndexedPages++
		summary.Sources = append(summary.Sources, domain.SourceSummary{
			Title:   p.doc.Title,
			URL:     p.doc.URL,
			TextLen: len([]rune(p.doc.Text)),
		})
		chunks = append(chunks, s.deps.Chunker.Chunk(p.doc.Text, p.doc.URL, p.doc.Title)...)
	}

	if s.settings.MaxTotalChunks > 0 && len(chunks) > s.settings.MaxTotalChunks {
		logger.Info("run %s: capping %d chunks at %d", summary.RunID, len(chunks), s.settings.MaxTotalChunks)
		chunks = chunks[:s.settings.MaxTotalChunks]
	}

	if len(chunks) > 0 {
		records := s.deps.Embedder.Embed(ctx, chunks)
		n, err := s.deps.Indexer.Upsert(ctx, namespace, records)
		if err != nil {
			return nil, fmt.Errorf("ingest %q: %w", topic, err)
		}
		summary.IndexedChunks = n
	}

	return s.finish(ctx, summary), nil
}

// fetchAll downloads and extracts hits concurrently, keeping hit order.
func (s *IngestService) fetchAll(ctx context.Context, runID string, hits []domain.SearchHit) []page {
	pages := make([]page, len(hits))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, hit := range hits {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fetched := s.deps.Fetcher.Fetch(ctx, hit.URL)
			if !fetched.OK() {
				logger.Debug("run %s: skip %s (status %d)", runID, hit.URL, fetched.Status)
				return nil
			}
			doc := s.deps.Extractor.Extract(fetched.HTML, fetched.URL)
			if n := len([]rune(doc.Text)); n < s.settings.MinTextLength {
				logger.Debug("run %s: skip %s (%d chars of text)", runID, hit.URL, n)
				return nil
			}
			if doc.Title == "" {
				doc.Title = hit.Title
			}
			pages[i] = page{doc: doc, ok: true}
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

func (s *IngestService) finish(ctx context.Context, summary *domain.IngestSummary) *domain.IngestSummary {
	summary.Duration = s.now().UTC().Sub(summary.StartedAt)
	logger.Info("run %s: indexed_pages=%d indexed_chunks=%d skipped_pages=%d in %s",
		summary.RunID, summary.IndexedPages, summary.IndexedChunks, summary.SkippedPages,
		summary.Duration.Round(time.Millisecond))

	if s.deps.Runs != nil {
		if err := s.deps.Runs.SaveRun(ctx, *summary); err != nil {
			logger.Warn("run %s: recording run history failed: %v", summary.RunID, err)
		}
	}
	return summary
}

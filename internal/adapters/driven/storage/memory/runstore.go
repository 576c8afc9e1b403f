package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.IngestSummary
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.IngestSummary),
	}
}

// SaveRun records a finished ingestion run. The first save of an id wins.
func (s *RunStore) SaveRun(_ context.Context, summary domain.IngestSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[summary.RunID]; ok {
		return nil
	}
	summary.Sources = slices.Clone(summary.Sources)
	s.runs[summary.RunID] = summary
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(_ context.Context, namespace string, limit int) ([]domain.IngestSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.IngestSummary
	for _, r := range s.runs {
		if namespace == "" || r.Namespace == namespace {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].RunID < out[j].RunID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

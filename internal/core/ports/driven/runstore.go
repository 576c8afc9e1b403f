package driven

import (
	"context"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// RunStore keeps a history of ingestion runs.
// Sources are not persisted; listed runs carry counts only.
type RunStore interface {
	// SaveRun records a finished ingestion run.
	SaveRun(ctx context.Context, summary domain.IngestSummary) error

	// ListRuns returns the most recent runs, newest first.
	// An empty namespace lists runs across all namespaces.
	ListRuns(ctx context.Context, namespace string, limit int) ([]domain.IngestSummary, error)
}

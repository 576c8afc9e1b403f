package driving

import (
	"context"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// NamespaceService manages indexed namespaces and their ingestion history.
type NamespaceService interface {
	// List returns every namespace in the store, by name.
	List(ctx context.Context) ([]domain.NamespaceInfo, error)

	// Delete drops a namespace and its chunks.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, namespace string) error

	// Runs returns recent ingestion runs, newest first.
	// An empty namespace lists runs for all namespaces.
	Runs(ctx context.Context, namespace string, limit int) ([]domain.IngestSummary, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// PageFetcher downloads web pages.
// Fetch never returns an error for remote failures: it reports them
// through FetchedPage.Status and an empty HTML body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) domain.FetchedPage
}

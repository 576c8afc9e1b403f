package driven

import "github.com/custodia-labs/scout/internal/core/domain"

// Chunker splits document text into overlapping chunks with stable IDs.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk splits text from the page at url into ordered chunks.
	Chunk(text, url, title string) []domain.Chunk
}

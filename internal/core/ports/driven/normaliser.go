package driven

import "github.com/custodia-labs/scout/internal/core/domain"

// Extractor turns raw HTML into readable article text.
// Extraction is best effort: unparseable input yields empty text, not an error.
type Extractor interface {
	Extract(html, url string) domain.ExtractedDoc
}

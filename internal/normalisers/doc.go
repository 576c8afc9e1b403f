// Package normalisers holds the extractors that turn fetched pages into
// readable text. The html subpackage implements driven.Extractor for the
// HTML pages the fetcher returns.
package normalisers

package domain

import "time"

// SearchHit is one organic web search result.
// URL is normalised: fragment and tracking parameters removed, http(s) only.
type SearchHit struct {
	// URL is the normalised result link.
	URL string `json:"url"`

	// Title is the result title as reported by the provider.
	Title string `json:"title"`

	// Snippet is the provider's summary text.
	Snippet string `json:"snippet,omitempty"`

	// Domain is the lowercased host of URL.
	Domain string `json:"domain"`
}

// FetchedPage is the outcome of fetching a URL.
// HTML is empty on any failure; Status is 0 when no response was received.
type FetchedPage struct {
	URL    string
	Status int
	HTML   string
}

// OK reports whether the page was fetched successfully and carries HTML.
func (p FetchedPage) OK() bool {
	return p.Status == 200 && p.HTML != ""
}

// ExtractedDoc is the readable content of a page.
// Text may be empty for non-article pages.
type ExtractedDoc struct {
	URL   string
	Title string
	Text  string
}

// Chunk is a bounded, overlapping slice of an extracted document.
type Chunk struct {
	// ID is a deterministic content address of (URL, Order, text prefix).
	ID string

	// URL is the source page.
	URL string

	// Title is the source page title.
	Title string

	// Order is the zero-based position within the source document.
	Order int

	// Text is the trimmed chunk content.
	Text string
}

// ChunkMetadata is the metadata stored alongside each vector.
type ChunkMetadata struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Order   int    `json:"order"`
	AddedAt string `json:"added_at,omitempty"`
}

// EmbeddingRecord pairs a chunk with its embedding vector.
type EmbeddingRecord struct {
	ID       string
	Vector   []float32
	Document string
	Metadata ChunkMetadata
}

// IsValid reports whether the record can be written to a vector store.
func (r EmbeddingRecord) IsValid() bool {
	return r.ID != "" && len(r.Vector) > 0 && r.Document != ""
}

// VectorMatch is a raw nearest-neighbour hit from a vector store.
type VectorMatch struct {
	ID       string
	Document string
	Metadata ChunkMetadata

	// Distance is the cosine distance to the query (0 = identical).
	Distance float64
}

// RetrievedContext is a scored chunk returned for a question.
type RetrievedContext struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	URL   string  `json:"url"`
	Title string  `json:"title"`
	Order int     `json:"order"`
	Score float64 `json:"score"`
}

// Citation is a deduplicated answer source.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Answer is a grounded response with its sources.
type Answer struct {
	Content   string     `json:"content"`
	Citations []Citation `json:"citations"`
}

// SourceSummary describes one page accepted during ingestion.
type SourceSummary struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	TextLen int    `json:"text_len"`
}

// IngestSummary reports the outcome of one ingestion run.
type IngestSummary struct {
	RunID         string          `json:"run_id"`
	Topic         string          `json:"topic"`
	Namespace     string          `json:"namespace"`
	IndexedPages  int             `json:"indexed_pages"`
	IndexedChunks int             `json:"indexed_chunks"`
	SkippedPages  int             `json:"skipped_pages"`
	Sources       []SourceSummary `json:"sources"`
	StartedAt     time.Time       `json:"started_at"`
	Duration      time.Duration   `json:"duration"`
}

// ResearchResult is returned by the research entry point.
type ResearchResult struct {
	Namespace string         `json:"namespace"`
	Ingested  bool           `json:"did_ingest"`
	Summary   *IngestSummary `json:"ingest_summary,omitempty"`
	Trace     []string       `json:"trace"`
}

// AskResult is returned by the ask entry point.
type AskResult struct {
	Namespace string     `json:"namespace"`
	Question  string     `json:"question"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations"`
	Trace     []string   `json:"trace"`
}

// NamespaceInfo describes an indexed namespace.
type NamespaceInfo struct {
	Name       string    `json:"namespace"`
	Collection string    `json:"collection"`
	Chunks     int       `json:"chunks"`
	Dimensions int       `json:"dimensions"`
	CreatedAt  time.Time `json:"created_at"`
}

package driving

import (
	"context"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// ResearchService is the public entry point used by the CLI and MCP server.
type ResearchService interface {
	// Research ingests topic into namespace unless the namespace already
	// exists and force is false. An empty namespace is derived from topic.
	Research(ctx context.Context, topic, namespace string, force bool) (*domain.ResearchResult, error)

	// Ask answers question from the contexts stored in namespace.
	// topK <= 0 uses the configured default.
	Ask(ctx context.Context, question, namespace string, topK int) (*domain.AskResult, error)
}

// IngestService runs the search, fetch, extract, chunk, embed and upsert pipeline.
type IngestService interface {
	// Ingest indexes web sources for topic. An empty namespace is derived from topic.
	Ingest(ctx context.Context, topic, namespace string) (*domain.IngestSummary, error)
}

// QAService answers questions from an indexed namespace.
type QAService interface {
	// Answer retrieves contexts for question and synthesises a grounded answer.
	Answer(ctx context.Context, question, namespace string, topK int) (*domain.Answer, error)
}

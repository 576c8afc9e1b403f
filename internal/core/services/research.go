package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driving"
	"github.com/custodia-labs/scout/internal/logger"
)

// Ensure ResearchAgent implements the interface.
var _ driving.ResearchService = (*ResearchAgent)(nil)

// ResearchAgent decides between ingesting and answering, recording a trace
// of each decision.
type ResearchAgent struct {
	ingest  driving.IngestService
	qa      driving.QAService
	indexer *Indexer
	topK    int
}

// NewResearchAgent creates the research entry point.
func NewResearchAgent(ingest driving.IngestService, qa driving.QAService, indexer *Indexer, topK int) *ResearchAgent {
	if topK <= 0 {
		topK = DefaultRetrievalTopK
	}
	return &ResearchAgent{ingest: ingest, qa: qa, indexer: indexer, topK: topK}
}

// Research ingests topic unless its namespace already exists and force is false.
// The existence check and ingest are not atomic; a concurrent duplicate
// ingest converges because chunk IDs are deterministic.
func (a *ResearchAgent) Research(ctx context.Context, topic, namespace string, force bool) (*domain.ResearchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}
	ns := strings.TrimSpace(namespace)
	if ns == "" {
		ns = domain.Slugify(topic)
	}

	trace := []string{
		fmt.Sprintf("Thought: Need to decide whether to ingest new knowledge for topic '%s'.", topic),
	}

	needIngest := force
	if !force {
		exists, err := a.indexer.Exists(ctx, ns)
		if err != nil {
			return nil, err
		}
		needIngest = !exists
	}

	if !needIngest {
		trace = append(trace, fmt.Sprintf("Observation: Namespace '%s' already exists. Skipping ingest.", ns))
		logger.Info("namespace %q exists, skipping ingest", ns)
		return &domain.ResearchResult{Namespace: ns, Trace: trace}, nil
	}

	trace = append(trace, fmt.Sprintf("Action: ingest_topic(query='%s', namespace='%s')", topic, ns))
	summary, err := a.ingest.Ingest(ctx, topic, ns)
	if err != nil {
		return nil, err
	}
	trace = append(trace, fmt.Sprintf("Observation: indexed_pages=%d, indexed_chunks=%d, skipped_pages=%d",
		summary.IndexedPages, summary.IndexedChunks, summary.SkippedPages))

	return &domain.ResearchResult{
		Namespace: ns,
		Ingested:  true,
		Summary:   summary,
		Trace:     trace,
	}, nil
}

// Ask answers question from namespace. topK <= 0 uses the configured default.
func (a *ResearchAgent) Ask(ctx context.Context, question, namespace string, topK int) (*domain.AskResult, error) {
	if topK <= 0 {
		topK = a.topK
	}

	trace := []string{
		fmt.Sprintf("Thought: Answer a question using only indexed context in namespace '%s'.", namespace),
		fmt.Sprintf("Action: answer_question(question=?, namespace='%s', top_k=%d)", namespace, topK),
	}

	answer, err := a.qa.Answer(ctx, question, namespace, topK)
	if err != nil {
		return nil, err
	}
	trace = append(trace, fmt.Sprintf("Observation: got content with %d citation(s).", len(answer.Citations)))

	return &domain.AskResult{
		Namespace: namespace,
		Question:  question,
		Content:   answer.Content,
		Citations: answer.Citations,
		Trace:     trace,
	}, nil
}

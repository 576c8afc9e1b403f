package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driving"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// DefaultRetrievalTopK is the number of contexts retrieved per question.
const DefaultRetrievalTopK = 6

// NoRelevantContextMessage is returned when retrieval finds nothing.
const NoRelevantContextMessage = "I couldn’t find relevant context in this namespace. " +
	"Try ingesting more sources or re-ingesting with --force."

// QAService answers questions from an indexed namespace.
type QAService struct {
	retriever   *Retriever
	synthesizer *Synthesizer
	topK        int
}

// NewQAService creates a QA orchestrator. topK <= 0 uses DefaultRetrievalTopK.
func NewQAService(retriever *Retriever, synthesizer *Synthesizer, topK int) *QAService {
	if topK <= 0 {
		topK = DefaultRetrievalTopK
	}
	return &QAService{retriever: retriever, synthesizer: synthesizer, topK: topK}
}

// TopK returns the default retrieval depth.
func (s *QAService) TopK() int {
	return s.topK
}

// Answer retrieves contexts for question and synthesises a grounded answer.
func (s *QAService) Answer(ctx context.Context, question, namespace string, topK int) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.topK
	}

	contexts, err := s.retriever.Retrieve(ctx, namespace, question, topK)
	if err != nil {
		return nil, err
	}
	if len(contexts) == 0 {
		return &domain.Answer{Content: NoRelevantContextMessage, Citations: []domain.Citation{}}, nil
	}
	return s.synthesizer.Synthesize(ctx, question, contexts, DefaultStyle, DefaultTemperature)
}

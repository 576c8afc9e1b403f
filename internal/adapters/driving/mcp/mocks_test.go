package mcp

import (
	"context"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// mockResearchService is a mock implementation of driving.ResearchService.
type mockResearchService struct {
	research *domain.ResearchResult
	ask      *domain.AskResult
	err      error

	lastTopic     string
	lastNamespace string
	lastForce     bool
	lastTopK      int
}

func (m *mockResearchService) Research(
	_ context.Context,
	topic, namespace string,
	force bool,
) (*domain.ResearchResult, error) {
	m.lastTopic, m.lastNamespace, m.lastForce = topic, namespace, force
	return m.research, m.err
}

func (m *mockResearchService) Ask(
	_ context.Context,
	_, namespace string,
	topK int,
) (*domain.AskResult, error) {
	m.lastNamespace, m.lastTopK = namespace, topK
	return m.ask, m.err
}

// mockNamespaceService is a mock implementation of driving.NamespaceService.
type mockNamespaceService struct {
	namespaces []domain.NamespaceInfo
	runs       []domain.IngestSummary
	err        error

	lastRunsNamespace string
}

func (m *mockNamespaceService) List(_ context.Context) ([]domain.NamespaceInfo, error) {
	return m.namespaces, m.err
}

func (m *mockNamespaceService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockNamespaceService) Runs(_ context.Context, namespace string, _ int) ([]domain.IngestSummary, error) {
	m.lastRunsNamespace = namespace
	return m.runs, m.err
}

package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// MockResearchService implements driving.ResearchService for testing.
type MockResearchService struct {
	ResearchFunc func(ctx context.Context, topic, namespace string, force bool) (*domain.ResearchResult, error)
	AskFunc      func(ctx context.Context, question, namespace string, topK int) (*domain.AskResult, error)
}

func (m *MockResearchService) Research(
	ctx context.Context, topic, namespace string, force bool,
) (*domain.ResearchResult, error) {
	if m.ResearchFunc != nil {
		return m.ResearchFunc(ctx, topic, namespace, force)
	}
	return &domain.ResearchResult{Namespace: namespace}, nil
}

func (m *MockResearchService) Ask(
	ctx context.Context, question, namespace string, topK int,
) (*domain.AskResult, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, namespace, topK)
	}
	return &domain.AskResult{Namespace: namespace, Question: question}, nil
}

// MockNamespaceService implements driving.NamespaceService for testing.
type MockNamespaceService struct {
	ListFunc func(ctx context.Context) ([]domain.NamespaceInfo, error)
}

func (m *MockNamespaceService) List(ctx context.Context) ([]domain.NamespaceInfo, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockNamespaceService) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *MockNamespaceService) Runs(_ context.Context, _ string, _ int) ([]domain.IngestSummary, error) {
	return nil, nil
}

func TestNewPorts(t *testing.T) {
	research := &MockResearchService{}
	ns := &MockNamespaceService{}

	ports := NewPorts(research, ns)

	assert.Equal(t, research, ports.Research)
	assert.Equal(t, ns, ports.Namespaces)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"complete", NewPorts(&MockResearchService{}, &MockNamespaceService{}), nil},
		{"missing research", &Ports{Namespaces: &MockNamespaceService{}}, ErrMissingResearchService},
		{"missing namespaces", &Ports{Research: &MockResearchService{}}, ErrMissingNamespaceService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

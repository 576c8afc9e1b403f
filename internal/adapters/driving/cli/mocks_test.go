package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// mockResearchService is a mock implementation of driving.ResearchService.
type mockResearchService struct {
	research *domain.ResearchResult
	ask      *domain.AskResult
	err      error

	lastTopic     string
	lastQuestion  string
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
	question, namespace string,
	topK int,
) (*domain.AskResult, error) {
	m.lastQuestion, m.lastNamespace, m.lastTopK = question, namespace, topK
	return m.ask, m.err
}

// mockNamespaceService is a mock implementation of driving.NamespaceService.
type mockNamespaceService struct {
	namespaces []domain.NamespaceInfo
	runs       []domain.IngestSummary
	err        error

	deleted   string
	runsNS    string
	runsLimit int
}

func (m *mockNamespaceService) List(_ context.Context) ([]domain.NamespaceInfo, error) {
	return m.namespaces, m.err
}

func (m *mockNamespaceService) Delete(_ context.Context, namespace string) error {
	m.deleted = namespace
	return m.err
}

func (m *mockNamespaceService) Runs(_ context.Context, namespace string, limit int) ([]domain.IngestSummary, error) {
	m.runsNS, m.runsLimit = namespace, limit
	return m.runs, m.err
}

// setupTestServices injects mock services and returns them with a cleanup
// function that restores the previous state.
func setupTestServices() (*mockResearchService, *mockNamespaceService, func()) {
	oldResearch, oldNamespaces := researchService, namespaceService

	research := &mockResearchService{
		research: &domain.ResearchResult{Namespace: "test"},
		ask:      &domain.AskResult{Namespace: "test", Citations: []domain.Citation{}},
	}
	namespaces := &mockNamespaceService{}
	researchService = research
	namespaceService = namespaces
	resetFlags(rootCmd)

	return research, namespaces, func() {
		researchService = oldResearch
		namespaceService = oldNamespaces
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
	}
}

// resetFlags restores every flag in the tree to its default, since cobra
// keeps parsed values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/core/domain"
)

func TestResearchCmd_Use(t *testing.T) {
	assert.Equal(t, "research [topic]", researchCmd.Use)
}

func TestResearchCmd_Flags(t *testing.T) {
	assert.NotNil(t, researchCmd.Flags().Lookup("namespace"))
	assert.NotNil(t, researchCmd.Flags().Lookup("force"))
	assert.NotNil(t, researchCmd.Flags().Lookup("json"))
	assert.Equal(t, "n", researchCmd.Flags().Lookup("namespace").Shorthand)
}

func TestResearchCmd_RequiresTopic(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"research"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestResearchCmd_Ingests(t *testing.T) {
	research, _, cleanup := setupTestServices()
	defer cleanup()
	research.research = &domain.ResearchResult{
		Namespace: "go-generics",
		Ingested:  true,
		Summary: &domain.IngestSummary{
			IndexedPages:  1,
			IndexedChunks: 4,
			SkippedPages:  2,
			Duration:      1200 * time.Millisecond,
			Sources: []domain.SourceSummary{
				{Title: "Tutorial", URL: "https://go.dev/doc/tutorial/generics"},
			},
		},
		Trace: []string{"Thought: Need to decide whether to ingest new knowledge for topic 'go generics'."},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"research", "go", "generics", "--force"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "go generics", research.lastTopic)
	assert.True(t, research.lastForce)
	assert.Empty(t, research.lastNamespace)
	out := buf.String()
	assert.Contains(t, out, "Thought: Need to decide")
	assert.Contains(t, out, "Namespace: go-generics")
	assert.Contains(t, out, "Indexed 1 page(s), 4 chunk(s); skipped 2 page(s) in 1.2s")
	assert.Contains(t, out, "[1] Tutorial")
	assert.Contains(t, out, "https://go.dev/doc/tutorial/generics")
}

func TestResearchCmd_ExistingNamespace(t *testing.T) {
	research, _, cleanup := setupTestServices()
	defer cleanup()
	research.research = &domain.ResearchResult{Namespace: "rust"}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"research", "rust", "-n", "rust"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "rust", research.lastNamespace)
	assert.False(t, research.lastForce)
	assert.Contains(t, buf.String(), "Already indexed")
}

func TestResearchCmd_JSON(t *testing.T) {
	research, _, cleanup := setupTestServices()
	defer cleanup()
	research.research = &domain.ResearchResult{
		Namespace: "go",
		Ingested:  true,
		Summary:   &domain.IngestSummary{Namespace: "go", IndexedChunks: 3},
		Trace:     []string{"Action: ingest_topic(query='go', namespace='go')"},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"research", "go", "--json"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "go", got["namespace"])
	assert.Equal(t, true, got["did_ingest"])
	assert.Contains(t, got, "ingest_summary")
	assert.Contains(t, got, "trace")
}

func TestPrintJSON_WritesToStdoutNotStderr(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	errBuf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetErr(errBuf)

	require.NoError(t, printJSON(cmd, map[string]int{"chunks": 3}))
	require.NoError(t, w.Close())
	os.Stdout = stdout

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chunks": 3}`, string(out))
	assert.Empty(t, errBuf.String())
}

func TestResearchCmd_ServiceError(t *testing.T) {
	research, _, cleanup := setupTestServices()
	defer cleanup()
	research.err = errors.New("disk full")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"research", "go"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "research failed")
	assert.Contains(t, err.Error(), "disk full")
}

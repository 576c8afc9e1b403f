package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scout/internal/core/domain"
)

// ResearchInput is the input schema for the research tool.
type ResearchInput struct {
	Topic     string `json:"topic" jsonschema:"the topic to research on the web"`
	Namespace string `json:"namespace,omitempty" jsonschema:"namespace to index into (default: slug of the topic)"`
	Force     bool   `json:"force,omitempty" jsonschema:"re-ingest even if the namespace already exists"`
}

// ResearchOutput is the output schema for the research tool.
type ResearchOutput struct {
	Namespace     string         `json:"namespace"`
	DidIngest     bool           `json:"did_ingest"`
	IndexedPages  int            `json:"indexed_pages"`
	IndexedChunks int            `json:"indexed_chunks"`
	SkippedPages  int            `json:"skipped_pages"`
	Sources       []SourceOutput `json:"sources,omitempty"`
	Trace         []string       `json:"trace"`
}

// SourceOutput is one page indexed by the research tool.
type SourceOutput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer"`
	Namespace string `json:"namespace" jsonschema:"namespace previously filled by research"`
	TopK      int    `json:"top_k,omitempty" jsonschema:"number of context chunks to retrieve (default from configuration)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Namespace string           `json:"namespace"`
	Content   string           `json:"content"`
	Citations []CitationOutput `json:"citations"`
	Trace     []string         `json:"trace"`
}

// CitationOutput is one source cited by an answer.
type CitationOutput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "research",
		Description: "Search the web for a topic and index the readable pages into a namespace",
	}, s.handleResearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the sources indexed in a namespace",
	}, s.handleAsk)
}

// handleResearch handles the research tool invocation.
func (s *Server) handleResearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResearchInput,
) (*mcp.CallToolResult, ResearchOutput, error) {
	if input.Topic == "" {
		return nil, ResearchOutput{}, fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}

	result, err := s.ports.Research.Research(ctx, input.Topic, input.Namespace, input.Force)
	if err != nil {
		return nil, ResearchOutput{}, err
	}

	output := ResearchOutput{
		Namespace: result.Namespace,
		DidIngest: result.Ingested,
		Trace:     result.Trace,
	}
	if sum := result.Summary; sum != nil {
		output.IndexedPages = sum.IndexedPages
		output.IndexedChunks = sum.IndexedChunks
		output.SkippedPages = sum.SkippedPages
		output.Sources = make([]SourceOutput, len(sum.Sources))
		for i, src := range sum.Sources {
			output.Sources[i] = SourceOutput{Title: src.Title, URL: src.URL}
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" || input.Namespace == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question and namespace are required", domain.ErrInvalidInput)
	}

	result, err := s.ports.Research.Ask(ctx, input.Question, input.Namespace, input.TopK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Namespace: result.Namespace,
		Content:   result.Content,
		Citations: make([]CitationOutput, len(result.Citations)),
		Trace:     result.Trace,
	}
	for i, c := range result.Citations {
		output.Citations[i] = CitationOutput{Title: c.Title, URL: c.URL}
	}

	return nil, output, nil
}

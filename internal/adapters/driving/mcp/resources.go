package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for scout resources.
	uriScheme = "scout://"

	// runsLimit caps the runs returned by the runs resource.
	runsLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing namespaces.
	s.mcp.AddResource(&mcp.Resource{
		URI:         uriScheme + "namespaces",
		Name:        "namespaces",
		Description: "Namespaces indexed by research, with chunk counts",
		MIMEType:    "application/json",
	}, s.handleNamespacesResource)

	// Template for the ingestion history of a namespace.
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "namespaces/{namespace}/runs",
		Name:        "namespace-runs",
		Description: "Recent ingestion runs for a namespace, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)
}

// handleNamespacesResource returns every indexed namespace.
func (s *Server) handleNamespacesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Namespaces == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	namespaces, err := s.ports.Namespaces.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}

	type namespaceInfo struct {
		Name   string `json:"namespace"`
		Chunks int    `json:"chunks"`
		URI    string `json:"runs_uri"`
	}

	infos := make([]namespaceInfo, len(namespaces))
	for i, ns := range namespaces {
		infos[i] = namespaceInfo{
			Name:   ns.Name,
			Chunks: ns.Chunks,
			URI:    uriScheme + "namespaces/" + ns.Name + "/runs",
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling namespaces: %w", err)
	}

	return jsonResult(req.Params.URI, string(data)), nil
}

// handleRunsResource returns the recent ingestion runs of one namespace.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Namespaces == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract namespace from URI: scout://namespaces/{namespace}/runs
	namespace := extractNamespace(req.Params.URI)
	if namespace == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runs, err := s.ports.Namespaces.Runs(ctx, namespace, runsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	type runInfo struct {
		RunID         string `json:"run_id"`
		Topic         string `json:"topic"`
		IndexedPages  int    `json:"indexed_pages"`
		IndexedChunks int    `json:"indexed_chunks"`
		SkippedPages  int    `json:"skipped_pages"`
		StartedAt     string `json:"started_at"`
		Duration      string `json:"duration"`
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = runInfo{
			RunID:         runs[i].RunID,
			Topic:         runs[i].Topic,
			IndexedPages:  runs[i].IndexedPages,
			IndexedChunks: runs[i].IndexedChunks,
			SkippedPages:  runs[i].SkippedPages,
			StartedAt:     runs[i].StartedAt.UTC().Format(time.RFC3339),
			Duration:      runs[i].Duration.String(),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractNamespace extracts the namespace from a URI like scout://namespaces/{namespace}/runs.
func extractNamespace(uri string) string {
	const prefix = uriScheme + "namespaces/"
	const suffix = "/runs"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

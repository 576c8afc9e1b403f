// Package mcp provides an MCP (Model Context Protocol) server adapter for scout.
// It lets AI assistants research topics and ask grounded questions against
// scout's namespaces.
package mcp

import "errors"

// ErrMissingResearchService is returned when the research service is not provided.
var ErrMissingResearchService = errors.New("mcp: research service is required")

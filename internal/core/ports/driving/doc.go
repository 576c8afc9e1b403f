// Package driving declares what the CLI, MCP server and TUI may ask of the
// core: research and ask runs, and namespace inspection.
package driving

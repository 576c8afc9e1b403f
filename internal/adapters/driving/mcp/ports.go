package mcp

import "github.com/custodia-labs/scout/internal/core/ports/driving"

// Ports are the core services the MCP handlers call. Namespaces may be nil,
// in which case the namespace resources list nothing.
type Ports struct {
	Research   driving.ResearchService
	Namespaces driving.NamespaceService
}

// Validate reports a missing required port.
func (p *Ports) Validate() error {
	if p.Research == nil {
		return ErrMissingResearchService
	}
	return nil
}

// Package tui is the interactive terminal front end: research a topic, ask
// an indexed namespace, and manage namespaces.
package tui

import "github.com/custodia-labs/scout/internal/core/ports/driving"

// Ports are the core services the views call.
type Ports struct {
	Research   driving.ResearchService
	Namespaces driving.NamespaceService
}

func NewPorts(research driving.ResearchService, namespaces driving.NamespaceService) *Ports {
	return &Ports{Research: research, Namespaces: namespaces}
}

// Validate requires both services.
func (p *Ports) Validate() error {
	switch {
	case p.Research == nil:
		return ErrMissingResearchService
	case p.Namespaces == nil:
		return ErrMissingNamespaceService
	}
	return nil
}

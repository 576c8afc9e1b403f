package tui

import "errors"

var (
	ErrMissingResearchService  = errors.New("tui: research service is required")
	ErrMissingNamespaceService = errors.New("tui: namespace service is required")
)

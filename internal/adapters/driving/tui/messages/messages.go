// Package messages holds the tea.Msg types passed between the TUI views.
package messages

import "github.com/custodia-labs/scout/internal/core/domain"

// ViewType identifies a screen.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewResearch
	ViewAsk
	ViewNamespaces
	ViewHelp
)

var viewNames = [...]string{"menu", "research", "ask", "namespaces", "help"}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged asks the app to switch screens.
type ViewChanged struct{ View ViewType }

// Quit ends the program.
type Quit struct{}

// ErrorOccurred reports a failure that has no result message of its own.
type ErrorOccurred struct{ Err error }

// Results of background service calls. Err is set instead of the payload
// on failure.
type (
	ResearchCompleted struct {
		Result *domain.ResearchResult
		Err    error
	}

	AnswerReceived struct {
		Result *domain.AskResult
		Err    error
	}

	NamespacesLoaded struct {
		Namespaces []domain.NamespaceInfo
		Err        error
	}

	NamespaceDeleted struct {
		Name string
		Err  error
	}
)

// NamespaceSelected opens the ask screen on Name.
type NamespaceSelected struct{ Name string }

// Package status renders the one-line bar at the bottom of each view.
package status

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/styles"
)

// State colours the left half of the bar.
type State string

const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateError   State = "error"
	StateDone    State = "done"
)

// Hints picks the key bindings shown on the right.
type Hints int

const (
	HintsShort Hints = iota
	HintsForm
	HintsAnswer
	HintsList
)

// Bar shows a state message on the left and key hints on the right.
// It holds no timers and needs no Update.
type Bar struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	help    help.Model
	state   State
	message string
	hints   Hints
	width   int
}

func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	h := help.New()
	h.ShortSeparator = " | "
	return &Bar{styles: s, keys: km, help: h, state: StateReady, width: 80}
}

func (b *Bar) View() string {
	left := b.status()
	right := b.help.ShortHelpView(b.bindings())
	gap := max(1, b.width-lipgloss.Width(left)-lipgloss.Width(right))
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) status() string {
	msg := b.message
	switch b.state {
	case StateWorking:
		return b.styles.Warning.Render(cmp.Or(msg, "Working..."))
	case StateError:
		if msg == "" {
			return b.styles.Error.Render("Error")
		}
		return b.styles.Error.Render("Error: " + msg)
	case StateDone:
		return b.styles.Success.Render(cmp.Or(msg, "Done"))
	}
	if msg != "" {
		return b.styles.Normal.Render(msg)
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) bindings() []key.Binding {
	switch b.hints {
	case HintsForm:
		return b.keys.FormHelp()
	case HintsAnswer:
		return b.keys.AnswerHelp()
	case HintsList:
		return b.keys.ListHelp()
	}
	return b.keys.ShortHelp()
}

func (b *Bar) SetState(state State, message string) {
	b.state, b.message = state, message
}

// Clear returns to StateReady with no message.
func (b *Bar) Clear() { b.SetState(StateReady, "") }

func (b *Bar) State() State     { return b.state }
func (b *Bar) Message() string  { return b.message }
func (b *Bar) SetHints(h Hints) { b.hints = h }
func (b *Bar) SetWidth(w int)   { b.width = w }
func (b *Bar) Width() int       { return b.width }

// Package keymap holds the TUI key bindings shared by every view.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = (*KeyMap)(nil)

// KeyMap groups bindings by what they do, not by view; a view ignores the
// ones it has no use for.
type KeyMap struct {
	// Global.
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Forms.
	Submit      key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	ToggleForce key.Binding

	// Lists and answers.
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Delete      key.Binding
	Reload      key.Binding
	NewQuestion key.Binding
	ToggleTrace key.Binding
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "help", "?"),
		Back: bind("esc", "back", "esc"),

		Submit:      bind("enter", "submit", "enter"),
		NextField:   bind("tab", "next field", "tab"),
		PrevField:   bind("shift+tab", "previous field", "shift+tab"),
		ToggleForce: bind("ctrl+f", "force re-ingest", "ctrl+f"),

		Up:          bind("↑/k", "up", "up", "k"),
		Down:        bind("↓/j", "down", "down", "j"),
		Select:      bind("enter", "select", "enter"),
		Delete:      bind("d", "delete", "d", "delete"),
		Reload:      bind("r", "reload", "r"),
		NewQuestion: bind("n", "new question", "n"),
		ToggleTrace: bind("t", "toggle trace", "t"),
	}
}

// ShortHelp is shown when a view has nothing more specific.
func (k *KeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Back, k.Help} }

func (k *KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.ToggleForce, k.Back}
}

func (k *KeyMap) AnswerHelp() []key.Binding {
	return []key.Binding{k.NewQuestion, k.ToggleTrace, k.Up, k.Down, k.Back}
}

func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Select, k.Delete, k.Reload, k.Back}
}

// FullHelp is laid out in columns by the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Submit, k.NextField, k.PrevField, k.ToggleForce},
		{k.NewQuestion, k.ToggleTrace, k.Delete, k.Reload},
		{k.Back, k.Help, k.Quit},
	}
}

// Package input holds the labelled text field shared by the TUI forms.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/styles"
)

const (
	defaultWidth  = 50
	minInputWidth = 20
	maxChars      = 512

	// frameWidth is the border and padding the field style adds.
	frameWidth = 6
)

// Field is a single-line input with a label to its left.
type Field struct {
	label     string
	width     int
	styles    *styles.Styles
	textinput textinput.Model
}

// NewField returns a blurred field. Nil styles means the defaults.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = maxChars
	ti.Width = defaultWidth
	return &Field{label: label, width: defaultWidth, styles: s, textinput: ti}
}

func (f *Field) Init() tea.Cmd { return textinput.Blink }

// Update is a no-op while the field is blurred.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

func (f *Field) View() string {
	box := f.styles.Field
	if f.Focused() {
		box = f.styles.FocusedField
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, //nolint:misspell // lipgloss constant
		f.styles.Label.Render(f.label),
		box.Render(f.textinput.View()),
	)
}

func (f *Field) Label() string { return f.label }
func (f *Field) Width() int    { return f.width }
func (f *Field) Focused() bool { return f.textinput.Focused() }

// Value is the input with surrounding whitespace removed.
func (f *Field) Value() string { return strings.TrimSpace(f.textinput.Value()) }

func (f *Field) SetValue(v string) { f.textinput.SetValue(v) }
func (f *Field) Focus() tea.Cmd    { return f.textinput.Focus() }
func (f *Field) Blur()             { f.textinput.Blur() }
func (f *Field) Reset()            { f.textinput.Reset() }

// SetWidth sizes the whole field. The text area never drops below
// minInputWidth, so narrow terminals wrap instead.
func (f *Field) SetWidth(width int) {
	f.width = width
	label := lipgloss.Width(f.styles.Label.Render(""))
	f.textinput.Width = max(width-label-frameWidth, minInputWidth)
}

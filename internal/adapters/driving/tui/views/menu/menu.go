// Package menu is the landing screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/styles"
)

// Item is one entry. An item with Quit set ends the program instead of
// switching view.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

var defaultItems = []Item{
	{Label: "Research", Description: "search the web and index a topic", View: messages.ViewResearch},
	{Label: "Ask", Description: "ask an indexed namespace", View: messages.ViewAsk},
	{Label: "Namespaces", Description: "list, inspect and delete topics", View: messages.ViewNamespaces},
	{Label: "Help", Description: "key bindings", View: messages.ViewHelp},
	{Label: "Quit", Quit: true},
}

// View lists the items with a cursor. Digits 1-9 jump straight to an item.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	items  []Item
	cursor int
	width  int
	height int
	ready  bool
}

// NewView builds the menu; nil arguments take the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keys: km, items: defaultItems, width: 80, height: 24}
}

func (v *View) Init() tea.Cmd { return nil }

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.cursor = max(0, v.cursor-1)
	case key.Matches(msg, v.keys.Down):
		v.cursor = min(len(v.items)-1, v.cursor+1)
	case key.Matches(msg, v.keys.Select):
		return v.choose(v.cursor)
	case key.Matches(msg, v.keys.Quit):
		return tea.Quit
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(v.items) {
				v.cursor = i
				return v.choose(i)
			}
		}
	}
	return nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg { return messages.ViewChanged{View: item.View} }
}

func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("scout") + "\n")
	b.WriteString(v.styles.Subtitle.Render("Web research assistant") + "\n\n")

	for i, item := range v.items {
		prefix, label := "  ", v.styles.Normal.Render(item.Label)
		if i == v.cursor {
			prefix, label = "> ", v.styles.Selected.Render(item.Label)
		}
		fmt.Fprintf(&b, "%s%d %s", prefix, i+1, label)
		if item.Description != "" {
			b.WriteString(v.styles.Muted.Render("  " + item.Description))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n" + v.styles.Help.Render("[j/k] move  [1-9] jump  [enter] open  [q] quit"))
	return b.String()
}

func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.ready = true
}

// Selected is the cursor position.
func (v *View) Selected() int { return v.cursor }

func (v *View) Items() []Item { return v.items }

// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scout/internal/core/domain"
)

// Entry is one row of a SourceList.
type Entry struct {
	Title  string
	URL    string
	Detail string
}

// FromCitations converts answer citations into entries.
func FromCitations(citations []domain.Citation) []Entry {
	entries := make([]Entry, 0, len(citations))
	for _, c := range citations {
		entries = append(entries, Entry{Title: c.Title, URL: c.URL})
	}
	return entries
}

// FromSources converts ingested page summaries into entries.
func FromSources(sources []domain.SourceSummary) []Entry {
	entries := make([]Entry, 0, len(sources))
	for _, s := range sources {
		entries = append(entries, Entry{
			Title:  s.Title,
			URL:    s.URL,
			Detail: fmt.Sprintf("%d chars", s.TextLen),
		})
	}
	return entries
}

// SourceList displays numbered sources in a navigable list.
type SourceList struct {
	entries  []Entry
	heading  string
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles, heading string) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		heading: heading,
		styles:  s,
		width:   80,
		height:  10,
	}
}

// Init initialises the source list.
func (l *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the source list.
func (l *SourceList) View() string {
	if len(l.entries) == 0 {
		return l.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(l.entries)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.heading, len(l.entries))))

	// Each entry takes two lines.
	visible := max((l.height-1)/2, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.entries))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntry(i, &l.entries[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *SourceList) renderEntry(index int, e *Entry) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := e.Title
	if title == "" {
		title = e.URL
	}
	title = truncate(fmt.Sprintf("[%d] %s", index+1, title), max(l.width-4, 10))

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render(indicator + title)
	} else {
		titleLine = l.styles.Normal.Render(indicator + title)
	}

	url := truncate(e.URL, max(l.width-8, 20))
	urlLine := "      " + l.styles.Citation.Render(url)
	if e.Detail != "" {
		urlLine += l.styles.Muted.Render("  " + e.Detail)
	}
	return titleLine + "\n" + urlLine
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetEntries replaces the entries and resets the selection.
func (l *SourceList) SetEntries(entries []Entry) {
	l.entries = entries
	l.selected = 0
}

// Entries returns the current entries.
func (l *SourceList) Entries() []Entry {
	return l.entries
}

// Selected returns the index of the selected entry.
func (l *SourceList) Selected() int {
	return l.selected
}

// SelectedEntry returns the selected entry, or nil if the list is empty.
func (l *SourceList) SelectedEntry() *Entry {
	if len(l.entries) == 0 {
		return nil
	}
	return &l.entries[l.selected]
}

// MoveUp moves selection up.
func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SourceList) MoveDown() {
	if l.selected < len(l.entries)-1 {
		l.selected++
	}
}

// SetSize sets the list dimensions.
func (l *SourceList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Clear removes all entries.
func (l *SourceList) Clear() {
	l.entries = nil
	l.selected = 0
}

package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/core/domain"
)

func sampleEntries() []Entry {
	return []Entry{
		{Title: "Go generics tutorial", URL: "https://go.dev/doc/tutorial/generics"},
		{Title: "", URL: "https://example.com/post"},
		{Title: "Type parameters proposal", URL: "https://go.googlesource.com/proposal"},
	}
}

func TestNewSourceList(t *testing.T) {
	l := NewSourceList(nil, "Sources")

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Empty(t, l.Entries())
	assert.Nil(t, l.SelectedEntry())
	assert.Nil(t, l.Init())
}

func TestSourceList_View_Empty(t *testing.T) {
	l := NewSourceList(nil, "Sources")

	assert.Contains(t, l.View(), "No sources")
}

func TestSourceList_View(t *testing.T) {
	l := NewSourceList(nil, "Sources")
	l.SetSize(120, 20)
	l.SetEntries(sampleEntries())

	view := l.View()

	assert.Contains(t, view, "Sources (3)")
	assert.Contains(t, view, "[1] Go generics tutorial")
	assert.Contains(t, view, "[2] https://example.com/post")
	assert.Contains(t, view, "https://go.dev/doc/tutorial/generics")
}

func TestSourceList_View_ScrollsToSelection(t *testing.T) {
	l := NewSourceList(nil, "Sources")
	l.SetSize(120, 3)
	l.SetEntries(sampleEntries())

	l.MoveDown()
	l.MoveDown()
	view := l.View()

	assert.Contains(t, view, "[3] Type parameters proposal")
	assert.NotContains(t, view, "[1] Go generics tutorial")
}

func TestSourceList_Navigation(t *testing.T) {
	l := NewSourceList(nil, "Sources")
	l.SetEntries(sampleEntries())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.NotNil(t, l.SelectedEntry())
	assert.Equal(t, "Go generics tutorial", l.SelectedEntry().Title)
}

func TestSourceList_SetEntriesResetsSelection(t *testing.T) {
	l := NewSourceList(nil, "Sources")
	l.SetEntries(sampleEntries())
	l.MoveDown()

	l.SetEntries(sampleEntries()[:1])

	assert.Equal(t, 0, l.Selected())
}

func TestSourceList_Clear(t *testing.T) {
	l := NewSourceList(nil, "Sources")
	l.SetEntries(sampleEntries())

	l.Clear()

	assert.Empty(t, l.Entries())
	assert.Nil(t, l.SelectedEntry())
}

func TestFromCitations(t *testing.T) {
	entries := FromCitations([]domain.Citation{
		{Title: "A", URL: "https://a.example"},
		{URL: "https://b.example"},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Title: "A", URL: "https://a.example"}, entries[0])
	assert.Equal(t, "https://b.example", entries[1].URL)
}

func TestFromSources(t *testing.T) {
	entries := FromSources([]domain.SourceSummary{
		{Title: "A", URL: "https://a.example", TextLen: 1200},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "1200 chars", entries[0].Detail)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"submit", km.Submit, []string{"enter"}},
		{"next field", km.NextField, []string{"tab"}},
		{"previous field", km.PrevField, []string{"shift+tab"}},
		{"toggle force", km.ToggleForce, []string{"ctrl+f"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"delete", km.Delete, []string{"d", "delete"}},
		{"reload", km.Reload, []string{"r"}},
		{"new question", km.NewQuestion, []string{"n"}},
		{"toggle trace", km.ToggleTrace, []string{"t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.Contains(t, km.FormHelp(), km.ToggleForce)
	assert.Contains(t, km.AnswerHelp(), km.NewQuestion)
	assert.Contains(t, km.ListHelp(), km.Delete)
	assert.Len(t, km.FullHelp(), 4)
}

func TestKeyMap_MatchesKeyMsgs(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, km.Down))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyShiftTab}, km.PrevField))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, km.Delete))
}

package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{name: "quit", binding: km.Quit, key: "ctrl+c"},
		{name: "help", binding: km.Help, key: "?"},
		{name: "back", binding: km.Back, key: "esc"},
		{name: "ask", binding: km.Ask, key: "enter"},
		{name: "up arrow", binding: km.Up, key: "up"},
		{name: "up vim", binding: km.Up, key: "k"},
		{name: "down arrow", binding: km.Down, key: "down"},
		{name: "down vim", binding: km.Down, key: "j"},
		{name: "citations", binding: km.Citations, key: "tab"},
		{name: "page up", binding: km.PageUp, key: "pgup"},
		{name: "page down", binding: km.PageDown, key: "pgdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.binding.Keys(), tt.key)
			assert.True(t, Matches(tt.key, tt.binding))
		})
	}
}

func TestKeyMap_QuitDoesNotStealTyping(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("q", km.Quit))
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 4)
	assert.Len(t, km.CitationsHelp(), 4)
	assert.Len(t, km.FullHelp(), 3)
}

func TestMatches_NoMatch(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("x", km.Ask))
}

// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateAsking    State = "asking"
	StateAnswered  State = "answered"
	StateCitations State = "citations"
	StateError     State = "error"
)

// Bar displays the conversation scope, status and keybinding hints.
type Bar struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	state         State
	scope         string
	message       string
	citationCount int
	width         int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// Horizontal padding of the bar style takes two columns.
	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	scope := ""
	if s.scope != "" {
		scope = s.styles.Subtitle.Render(s.scope) + "  "
	}

	switch s.state {
	case StateAsking:
		return scope + s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return scope + s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return scope + s.styles.Error.Render("Error")
	case StateAnswered, StateCitations:
		if s.message != "" {
			return scope + s.styles.Normal.Render(s.message)
		}
		return scope + s.styles.Normal.Render(fmt.Sprintf("%d citations", s.citationCount))
	case StateReady:
	}
	return scope + s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateCitations {
		bindings = s.keymap.CitationsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetScope sets the conversation scope label.
func (s *Bar) SetScope(scope string) {
	s.scope = scope
}

// Scope returns the conversation scope label.
func (s *Bar) Scope() string {
	return s.scope
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCitationCount sets the number of citations of the last answer.
func (s *Bar) SetCitationCount(count int) {
	s.citationCount = count
}

// CitationCount returns the current citation count.
func (s *Bar) CitationCount() int {
	return s.citationCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state, keeping the scope.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.citationCount = 0
}

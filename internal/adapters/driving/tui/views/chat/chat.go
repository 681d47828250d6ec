// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
)

// citationRows is the height reserved for the citation list.
const citationRows = 8

// Turn is one question and its answer in the transcript.
type Turn struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// Pending reports whether the turn is still waiting for its answer.
func (t *Turn) Pending() bool {
	return t.Answer == nil && t.Err == nil
}

// View is the chat view: transcript, citations, input and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	citations *list.CitationList
	statusbar *status.Bar
	viewport  viewport.Model

	queryService driving.QueryService
	ctx          context.Context

	scope      *domain.LeaseDetail
	transcript []Turn
	asking     bool
	focusInput bool // true = typing a question, false = browsing citations

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		citations:    list.NewCitationList(s),
		statusbar:    status.NewBar(s, km),
		viewport:     viewport.New(0, 0),
		queryService: queryService,
		ctx:          context.Background(),
		focusInput:   true,
	}
	v.SetScope(nil)
	v.SetDimensions(80, 24)
	v.ready = false
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetScope starts a new conversation about one lease, or the portfolio when nil.
func (v *View) SetScope(lease *domain.LeaseDetail) {
	v.scope = lease
	v.transcript = nil
	v.asking = false
	v.focusInput = true
	v.input.Reset()
	v.input.Focus()
	v.citations.SetCitations(nil)
	v.statusbar.Clear()
	v.statusbar.SetScope(v.ScopeLabel())
	v.refreshTranscript()
}

// ScopeLabel describes the conversation scope.
func (v *View) ScopeLabel() string {
	if v.scope == nil {
		return "Portfolio"
	}
	return fmt.Sprintf("%s - %s", v.scope.Property.Name, v.scope.Lease.TenantName)
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.asking = false
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, v.keymap.PageUp) || keymap.Matches(keyStr, v.keymap.PageDown) {
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	if keymap.Matches(keyStr, v.keymap.Citations) {
		v.toggleFocus()
		return v, nil
	}

	if !v.focusInput {
		return v.handleCitationKey(msg)
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewLeases}
		}

	case tea.KeyEnter:
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.asking {
			return v, nil
		}
		v.input.Reset()
		return v, v.Ask(question)

	default:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
}

func (v *View) handleCitationKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.toggleFocus()
		return v, nil

	case "enter":
		cit := v.citations.SelectedCitation()
		if cit == nil {
			return v, nil
		}
		selected := *cit
		return v, func() tea.Msg {
			return messages.CitationSelected{Citation: selected}
		}
	}

	var cmd tea.Cmd
	v.citations, cmd = v.citations.Update(msg)
	return v, cmd
}

func (v *View) toggleFocus() {
	if v.focusInput && v.citations.IsEmpty() {
		return
	}
	v.focusInput = !v.focusInput
	if v.focusInput {
		v.input.Focus()
		v.statusbar.SetState(status.StateAnswered)
	} else {
		v.input.Blur()
		v.statusbar.SetState(status.StateCitations)
	}
}

// Ask records the question in the transcript and returns the command that
// answers it.
func (v *View) Ask(question string) tea.Cmd {
	v.transcript = append(v.transcript, Turn{Question: question})
	v.asking = true
	v.statusbar.SetState(status.StateAsking)
	v.statusbar.SetMessage("")
	v.refreshTranscript()

	req := domain.QueryRequest{Question: question}
	if v.scope != nil {
		req.LeaseID = v.scope.Lease.ID
	}

	return func() tea.Msg {
		if v.queryService == nil {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}
		answer, err := v.queryService.Ask(v.ctx, req)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.asking = false
	if n := len(v.transcript); n > 0 && v.transcript[n-1].Pending() {
		v.transcript[n-1].Answer = msg.Answer
		v.transcript[n-1].Err = msg.Err
	} else {
		v.transcript = append(v.transcript, Turn{Question: msg.Question, Answer: msg.Answer, Err: msg.Err})
	}

	switch {
	case msg.Err != nil:
		v.citations.SetCitations(nil)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	case msg.Answer != nil:
		v.citations.SetCitations(msg.Answer.Citations)
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetCitationCount(len(msg.Answer.Citations))
		v.statusbar.SetMessage(msg.Answer.Message)
	}
	v.refreshTranscript()
}

func (v *View) refreshTranscript() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.transcript) == 0 {
		return v.styles.Muted.Render("Ask a question about " + v.ScopeLabel() + ".")
	}

	wrap := lipgloss.NewStyle().Width(max(20, v.width-8))
	blocks := make([]string, 0, len(v.transcript))
	for i := range v.transcript {
		blocks = append(blocks, v.renderTurn(&v.transcript[i], wrap))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderTurn(t *Turn, wrap lipgloss.Style) string {
	lines := []string{v.styles.Question.Render("You: ") + wrap.Render(t.Question)}

	switch {
	case t.Pending():
		lines = append(lines, v.styles.Muted.Render("  ..."))
	case t.Err != nil:
		lines = append(lines, v.styles.Error.Render("  Error: "+t.Err.Error()))
	case t.Answer.Mode == domain.QueryModeNoClauses:
		lines = append(lines, v.styles.Warning.Render("  "+t.Answer.Message))
	default:
		lines = append(lines, v.styles.Answer.Render(wrap.Render(t.Answer.Text)))
		if t.Answer.ResponsibleParty != "" {
			lines = append(lines, fmt.Sprintf("  Responsible party: %s %s",
				v.styles.Party(t.Answer.ResponsibleParty),
				v.styles.Muted.Render("("+string(t.Answer.PartySource)+")")))
		}
		if t.Answer.Widened {
			lines = append(lines, v.styles.Muted.Render("  No clause matched the topic filter, so all topics were searched."))
		}
	}
	return strings.Join(lines, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("leaserag") + "  " + v.styles.Subtitle.Render(v.ScopeLabel()),
		"",
		v.viewport.View(),
		"",
		v.citations.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Header, gaps, input box and status bar take nine rows.
	v.viewport.Width = max(20, width)
	v.viewport.Height = max(3, height-citationRows-9)
	v.input.SetWidth(width)
	v.citations.SetDimensions(width, citationRows)
	v.statusbar.SetWidth(width)
	v.refreshTranscript()
}

// Transcript returns the conversation so far.
func (v *View) Transcript() []Turn {
	return v.transcript
}

// Scope returns the lease being discussed, or nil for the portfolio.
func (v *View) Scope() *domain.LeaseDetail {
	return v.scope
}

// Asking reports whether a question is in flight.
func (v *View) Asking() bool {
	return v.asking
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Citations returns the citations of the latest answer.
func (v *View) Citations() []domain.Citation {
	return v.citations.Citations()
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

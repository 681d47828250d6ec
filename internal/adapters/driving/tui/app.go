package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/views/citation"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/views/leases"
	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	leasesView   *leases.View
	chatView     *chat.View
	citationView *citation.View

	// initialLease is opened directly instead of showing the picker.
	initialLease *domain.LeaseDetail

	currentView messages.ViewType

	// previousView is where the help view returns to.
	previousView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		leasesView:   leases.NewView(s, ports.Lease),
		chatView:     chat.NewView(s, km, ports.Query),
		citationView: citation.NewView(s),
		currentView:  messages.ViewLeases,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.leasesView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// WithLease skips the picker and starts a conversation about lease.
func (a *App) WithLease(lease *domain.LeaseDetail) *App {
	a.initialLease = lease
	a.chatView.SetScope(lease)
	a.currentView = messages.ViewChat
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("leaserag")}
	if a.currentView == messages.ViewChat {
		cmds = append(cmds, a.chatView.Init())
	} else {
		cmds = append(cmds, a.leasesView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.LeasesLoaded:
		a.leasesView, cmd = a.leasesView.Update(msg)
		return a, cmd

	case messages.ScopeSelected:
		a.chatView.SetScope(msg.Lease)
		a.currentView = messages.ViewChat
		return a, a.chatView.Init()

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.CitationSelected:
		a.citationView.SetCitation(msg.Citation)
		a.currentView = messages.ViewCitation
		return a, nil

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = msg.View
		if msg.View == messages.ViewLeases {
			return a, a.leasesView.Init()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink, mouse) to the active view.
	switch a.currentView {
	case messages.ViewLeases:
		a.leasesView, cmd = a.leasesView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewCitation:
		a.citationView, cmd = a.citationView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewLeases:
		a.leasesView, cmd = a.leasesView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewCitation:
		a.citationView, cmd = a.citationView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			a.currentView = a.previousView
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewCitation:
		return a.citationView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewLeases:
	}
	return a.leasesView.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Leases:
  j/k, ↑/↓    Navigate
  enter       Ask about the selected lease or the portfolio
  q, esc      Quit

Chat:
  (type)      Enter a question
  enter       Ask
  tab         Browse the citations of the last answer
  pgup/pgdn   Scroll the transcript
  esc         Back to leases

Citations:
  j/k, ↑/↓    Navigate
  enter       Open the cited clause
  esc, tab    Back to the question

` + a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.leasesView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.citationView.SetDimensions(width, height)
}

// Package leases provides the lease picker that scopes a conversation.
package leases

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
)

// View lists the portfolio followed by every lease.
type View struct {
	styles       *styles.Styles
	leaseService driving.LeaseService
	ctx          context.Context

	leases   []domain.LeaseDetail
	selected int // 0 is the portfolio entry, i+1 is leases[i].
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new lease picker.
func NewView(s *styles.Styles, leaseService driving.LeaseService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:       s,
		leaseService: leaseService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the leases.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadLeases()
}

func (v *View) loadLeases() tea.Cmd {
	return func() tea.Msg {
		if v.leaseService == nil {
			return messages.LeasesLoaded{}
		}
		leases, err := v.leaseService.ListLeases(v.ctx, "")
		return messages.LeasesLoaded{Leases: leases, Err: err}
	}
}

// Update handles messages for the lease picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.LeasesLoaded:
		v.loading = false
		v.err = msg.Err
		v.leases = msg.Leases
		if v.selected > len(v.leases) {
			v.selected = 0
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.leases) {
				v.selected++
			}
			return v, nil

		case "enter":
			scope := v.SelectedLease()
			return v, func() tea.Msg {
				return messages.ScopeSelected{Lease: scope}
			}

		case "?":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewHelp}
			}

		case "q", "esc":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the lease picker.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("leaserag"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Choose what to ask about"))
	b.WriteString("\n\n")

	b.WriteString(v.renderItem(0, "All leases (portfolio)"))
	for i := range v.leases {
		b.WriteString(v.renderItem(i+1, leaseLabel(&v.leases[i])))
	}

	switch {
	case v.loading:
		b.WriteString("\n" + v.styles.Muted.Render("Loading leases..."))
	case v.err != nil:
		b.WriteString("\n" + v.styles.Error.Render("Error: "+v.err.Error()))
	case len(v.leases) == 0:
		b.WriteString("\n" + v.styles.Warning.Render("No leases yet. Add one with 'leaserag lease add'."))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [?] Help  [q] Quit"))
	return b.String()
}

func (v *View) renderItem(index int, label string) string {
	if index == v.selected {
		return "> " + v.styles.Selected.Render(label) + "\n"
	}
	return "  " + v.styles.Normal.Render(label) + "\n"
}

func leaseLabel(d *domain.LeaseDetail) string {
	label := fmt.Sprintf("%s - %s", d.Property.Name, d.Lease.TenantName)
	if d.ClauseCount == 0 {
		return label + " (not indexed)"
	}
	return fmt.Sprintf("%s (%d clauses)", label, d.ClauseCount)
}

// SelectedLease returns the highlighted lease, or nil for the portfolio.
func (v *View) SelectedLease() *domain.LeaseDetail {
	if v.selected == 0 || v.selected > len(v.leases) {
		return nil
	}
	lease := v.leases[v.selected-1]
	return &lease
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Leases returns the loaded leases.
func (v *View) Leases() []domain.LeaseDetail {
	return v.leases
}

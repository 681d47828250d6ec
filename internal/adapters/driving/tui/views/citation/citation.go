// Package citation provides the view that shows one cited clause in full.
package citation

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// View is the citation detail view.
type View struct {
	styles *styles.Styles

	citation     *domain.Citation
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new citation view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetCitation sets the citation to display.
func (v *View) SetCitation(c domain.Citation) {
	v.citation = &c
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the citation view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.scrollOffset > 0 {
				v.scrollOffset--
			}
		case "down", "j":
			if v.scrollOffset < v.maxScrollOffset() {
				v.scrollOffset++
			}
		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewChat}
			}
		}
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, separator, help and padding.
	return max(1, v.height-6)
}

func (v *View) maxScrollOffset() int {
	return max(0, len(v.buildContent())-v.visibleLines())
}

// buildContent lays out the fields followed by the wrapped snippet.
func (v *View) buildContent() []string {
	if v.citation == nil {
		return nil
	}
	c := v.citation

	lines := []string{
		formatField("Property", c.PropertyName),
		formatField("Tenant", c.TenantName),
		formatField("Lease", c.LeaseID),
		formatField("Clause", c.ClauseID),
	}
	if c.SectionLabel != "" {
		lines = append(lines, formatField("Section", c.SectionLabel))
	}
	if c.PageNumber != nil {
		lines = append(lines, formatField("Page", fmt.Sprintf("%d", *c.PageNumber)))
	}
	lines = append(lines,
		formatField("Topic", string(c.Topic)),
		formatField("Party", string(c.ResponsibleParty)),
		formatField("Similarity", fmt.Sprintf("%.3f", c.Similarity)),
		"",
	)

	wrapped := lipgloss.NewStyle().Width(max(20, v.width-4)).Render(c.Snippet)
	return append(lines, strings.Split(wrapped, "\n")...)
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

// View renders the citation view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Cited Clause"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	if v.citation == nil {
		b.WriteString(v.styles.Muted.Render("No citation selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(lines))
	for _, line := range lines[v.scrollOffset:end] {
		label, value, ok := strings.Cut(line, ":")
		if ok && !strings.HasPrefix(line, " ") && len(label) <= 12 {
			b.WriteString(v.styles.Subtitle.Render(label + ":"))
			b.WriteString(v.styles.Normal.Render(value))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1, end, len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Citation returns the citation being shown.
func (v *View) Citation() *domain.Citation {
	return v.citation
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

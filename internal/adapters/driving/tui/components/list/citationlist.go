// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// CitationList displays the citations of an answer in a navigable list.
type CitationList struct {
	citations []domain.Citation
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewCitationList creates a new citation list component.
func NewCitationList(s *styles.Styles) *CitationList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CitationList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (c *CitationList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *CitationList) Update(msg tea.Msg) (*CitationList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the list.
func (c *CitationList) View() string {
	if len(c.citations) == 0 {
		return c.styles.Muted.Render("No citations")
	}

	lines := make([]string, 0, len(c.citations)+1)
	lines = append(lines, c.styles.Subtitle.Render(fmt.Sprintf("Citations (%d)", len(c.citations))))

	// Each citation takes two lines.
	visible := c.height / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if c.selected >= visible {
		start = c.selected - visible + 1
	}
	end := start + visible
	if end > len(c.citations) {
		end = len(c.citations)
	}

	for i := start; i < end; i++ {
		lines = append(lines, c.renderCitation(i, &c.citations[i]))
	}
	return strings.Join(lines, "\n")
}

func (c *CitationList) renderCitation(index int, cit *domain.Citation) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	heading := fmt.Sprintf("%s[%d] %s / %s", indicator, index+1, cit.PropertyName, cit.TenantName)
	if cit.SectionLabel != "" {
		heading += " - " + cit.SectionLabel
	}
	if cit.PageNumber != nil {
		heading += fmt.Sprintf(" (p. %d)", *cit.PageNumber)
	}
	heading = truncate(heading, c.width-30)

	meta := fmt.Sprintf(" %s %.2f", cit.Topic, cit.Similarity)
	var titleLine string
	if index == c.selected {
		titleLine = c.styles.Selected.Render(heading) + c.styles.Muted.Render(meta)
	} else {
		titleLine = c.styles.Normal.Render(heading) + c.styles.Muted.Render(meta)
	}
	titleLine += " " + c.styles.Party(cit.ResponsibleParty)

	snippet := strings.Join(strings.Fields(cit.Snippet), " ")
	return titleLine + "\n" + c.styles.Muted.Render("    "+truncate(snippet, c.width-6))
}

func truncate(s string, maxLen int) string {
	if maxLen < 20 {
		maxLen = 20
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// SetCitations replaces the list contents and resets the selection.
func (c *CitationList) SetCitations(citations []domain.Citation) {
	c.citations = citations
	c.selected = 0
}

// Citations returns the current citations.
func (c *CitationList) Citations() []domain.Citation {
	return c.citations
}

// Selected returns the index of the selected citation.
func (c *CitationList) Selected() int {
	return c.selected
}

// SelectedCitation returns the currently selected citation, or nil if none.
func (c *CitationList) SelectedCitation() *domain.Citation {
	if c.selected < 0 || c.selected >= len(c.citations) {
		return nil
	}
	return &c.citations[c.selected]
}

// MoveUp moves selection up.
func (c *CitationList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *CitationList) MoveDown() {
	if c.selected < len(c.citations)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *CitationList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of citations.
func (c *CitationList) Count() int {
	return len(c.citations)
}

// IsEmpty returns whether the list is empty.
func (c *CitationList) IsEmpty() bool {
	return len(c.citations) == 0
}

package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func testCitations() []domain.Citation {
	page := 7
	return []domain.Citation{
		{
			ClauseID:         "c-1",
			PropertyName:     "Harbour Point",
			TenantName:       "Acme Ltd",
			SectionLabel:     "12. Repairs",
			PageNumber:       &page,
			Snippet:          "Tenant shall, at its cost,\n keep the roof in good repair.",
			Topic:            domain.TopicRoof,
			ResponsibleParty: domain.PartyTenant,
			Similarity:       0.81,
		},
		{ClauseID: "c-2", PropertyName: "Harbour Point", TenantName: "Acme Ltd", Topic: domain.TopicHVAC},
		{ClauseID: "c-3", PropertyName: "Dock 9", TenantName: "Beta LLC", Topic: domain.TopicCAM},
	}
}

func TestNewCitationList(t *testing.T) {
	l := NewCitationList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedCitation())
	assert.Nil(t, l.Init())
}

func TestCitationList_Navigation(t *testing.T) {
	l := NewCitationList(nil)
	l.SetCitations(testCitations())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected(), "stops at the last citation")

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, "c-2", l.SelectedCitation().ClauseID)

	l.MoveUp()
	l.MoveUp()
	assert.Equal(t, 0, l.Selected(), "stops at the first citation")
}

func TestCitationList_SetCitationsResetsSelection(t *testing.T) {
	l := NewCitationList(nil)
	l.SetCitations(testCitations())
	l.MoveDown()

	l.SetCitations(testCitations()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, 1, l.Count())
}

func TestCitationList_View(t *testing.T) {
	l := NewCitationList(nil)
	assert.Contains(t, l.View(), "No citations")

	l.SetDimensions(120, 20)
	l.SetCitations(testCitations())
	view := l.View()

	assert.Contains(t, view, "Citations (3)")
	assert.Contains(t, view, "Harbour Point / Acme Ltd - 12. Repairs (p. 7)")
	assert.Contains(t, view, "keep the roof in good repair.")
	assert.Contains(t, view, "TENANT")
	assert.Contains(t, view, "Dock 9")
}

func TestCitationList_ViewScrollsToSelection(t *testing.T) {
	l := NewCitationList(nil)
	l.SetDimensions(120, 2)
	l.SetCitations(testCitations())
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.Contains(t, view, "Dock 9")
	assert.NotContains(t, view, "12. Repairs")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 50)

	assert.Equal(t, "short", truncate("short", 30))
	assert.Len(t, truncate(long, 30), 30)
	assert.True(t, strings.HasSuffix(truncate(long, 30), "..."))
	assert.Len(t, truncate(long, 5), 20, "minimum width applies")
}

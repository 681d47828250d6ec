// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewLeases is the lease picker shown at start-up.
	ViewLeases ViewType = iota
	// ViewChat is the question and answer transcript.
	ViewChat
	// ViewCitation shows one cited clause in full.
	ViewCitation
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewLeases:
		return "leases"
	case ViewChat:
		return "chat"
	case ViewCitation:
		return "citation"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// LeasesLoaded carries the leases available for scoping.
type LeasesLoaded struct {
	Leases []domain.LeaseDetail
	Err    error
}

// ScopeSelected starts a conversation. A nil Lease means the whole portfolio.
type ScopeSelected struct {
	Lease *domain.LeaseDetail
}

// QuestionAsked is sent when the user submits a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the answer to a question back to the model.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// CitationSelected opens a cited clause.
type CitationSelected struct {
	Citation domain.Citation
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

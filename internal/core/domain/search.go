package domain

// Retrieval defaults used by the query orchestrator.
const (
	DefaultTopK          = 10
	DefaultMinSimilarity = 0.25
	DefaultCitationLimit = 8
	CitationSnippetChars = 300
)

// ClauseSearchRequest configures a vector search over clauses.
type ClauseSearchRequest struct {
	// Query is the natural-language text to embed.
	Query string

	// Filter is applied exactly before any similarity scoring.
	Filter ClauseFilter

	// TopK bounds the number of results. Non-positive means DefaultTopK.
	TopK int

	// MinSimilarity is the relevance floor.
	MinSimilarity float64
}

// ClauseHit is one scored search result.
type ClauseHit struct {
	View       ClauseView
	Similarity float64
}

// QueryMode describes how an answer was produced.
type QueryMode string

// Available query modes.
const (
	// QueryModeClauseRAG means the answer was grounded on retrieved clauses.
	QueryModeClauseRAG QueryMode = "clause_rag"

	// QueryModeNoClauses means retrieval found nothing. Not an error.
	QueryModeNoClauses QueryMode = "no_clauses"

	// QueryModeDocumentRAG means the answer was grounded on document chunks.
	QueryModeDocumentRAG QueryMode = "document_rag"
)

// QueryScope distinguishes single-lease from portfolio questions.
type QueryScope string

// Available scopes.
const (
	ScopeLease     QueryScope = "lease"
	ScopePortfolio QueryScope = "portfolio"
)

// PartySource records how the responsible party was resolved.
type PartySource string

// Available party sources.
const (
	PartySourceExplicit PartySource = "explicit"
	PartySourceVote     PartySource = "vote"
	PartySourceNone     PartySource = "none"
)

// TopicSource records where the topic filter came from.
type TopicSource string

// Available topic sources.
const (
	TopicSourceExplicit TopicSource = "explicit"
	TopicSourceInferred TopicSource = "inferred"
	TopicSourceNone     TopicSource = "none"
)

// QueryRequest is a natural-language question with optional scope filters.
type QueryRequest struct {
	Question   string
	LeaseID    string
	PropertyID string
	TenantName string

	// Topic is an explicit topic filter; inference is skipped when set.
	Topic Topic
}

// Scope returns lease scope when a lease id is given, portfolio otherwise.
func (r QueryRequest) Scope() QueryScope {
	if r.LeaseID != "" {
		return ScopeLease
	}
	return ScopePortfolio
}

// Citation is one retrieved clause returned for display and audit.
type Citation struct {
	ClauseID         string
	LeaseID          string
	PropertyID       string
	PropertyName     string
	TenantName       string
	SectionLabel     string
	Snippet          string
	PageNumber       *int
	Topic            Topic
	ResponsibleParty ResponsibleParty
	Similarity       float64
}

// Answer is the response to a question.
type Answer struct {
	Mode  QueryMode
	Scope QueryScope

	// Text is the generated answer; empty in no_clauses mode.
	Text string

	ResponsibleParty ResponsibleParty
	PartySource      PartySource

	// Topics is the topic filter used by the primary retrieval.
	Topics      []Topic
	TopicSource TopicSource

	// Widened is true when the topic filter was dropped to find results.
	Widened bool

	// Message explains a no_clauses outcome.
	Message string

	Citations []Citation
}

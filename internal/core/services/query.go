package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
	"github.com/custodia-labs/leaserag/internal/logger"
)

// Ensure QueryOrchestrator implements the interface.
var _ driving.QueryService = (*QueryOrchestrator)(nil)

const (
	answerMaxTokens   = 900
	answerTemperature = 0.1
)

// QueryOrchestrator answers lease questions: it infers topics, retrieves
// clauses with fallback widening, asks the LLM, and resolves the
// responsible party.
type QueryOrchestrator struct {
	leases     driven.LeaseStore
	properties driven.PropertyStore
	search     driving.ClauseSearchService
	llm        driven.LLMService
	prompts    driven.PromptStore
	retrieval  domain.RetrievalSettings
}

// QueryOption configures a QueryOrchestrator.
type QueryOption func(*QueryOrchestrator)

// WithRetrievalSettings overrides topK, minimum similarity and citation limit.
// TopK and CitationLimit below one keep the defaults. MinSimilarity is used
// as given, so zero disables the floor; SettingsService fills an unset key
// with domain.DefaultMinSimilarity.
func WithRetrievalSettings(s domain.RetrievalSettings) QueryOption {
	return func(q *QueryOrchestrator) {
		if s.TopK > 0 {
			q.retrieval.TopK = s.TopK
		}
		q.retrieval.MinSimilarity = s.MinSimilarity
		if s.CitationLimit > 0 {
			q.retrieval.CitationLimit = s.CitationLimit
		}
	}
}

// NewQueryOrchestrator creates a query orchestrator. llm may be nil, in
// which case questions that retrieve clauses fail with ErrLLMUnavailable.
func NewQueryOrchestrator(
	leases driven.LeaseStore,
	properties driven.PropertyStore,
	search driving.ClauseSearchService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	opts ...QueryOption,
) *QueryOrchestrator {
	q := &QueryOrchestrator{
		leases:     leases,
		properties: properties,
		search:     search,
		llm:        llm,
		prompts:    prompts,
		retrieval: domain.RetrievalSettings{
			TopK:          domain.DefaultTopK,
			MinSimilarity: domain.DefaultMinSimilarity,
			CitationLimit: domain.DefaultCitationLimit,
		},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// answerPromptData is the data for the answer_question template.
type answerPromptData struct {
	Question           string
	Context            string
	Metadata           string
	Portfolio          bool
	AsksResponsibility bool
}

// Ask answers a question. An empty retrieval returns a no_clauses answer.
func (q *QueryOrchestrator) Ask(ctx context.Context, req domain.QueryRequest) (*domain.Answer, error) {
	logger.Section("Query")
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return nil, fmt.Errorf("ask: %w: empty question", domain.ErrInvalidInput)
	}

	scope := req.Scope()
	var lease *domain.Lease
	if scope == domain.ScopeLease {
		var err error
		lease, err = q.leases.GetLease(ctx, req.LeaseID)
		if err != nil {
			return nil, fmt.Errorf("get lease %s: %w", req.LeaseID, err)
		}
	}

	answer := &domain.Answer{
		Scope:            scope,
		ResponsibleParty: domain.PartyUnknown,
		PartySource:      domain.PartySourceNone,
		TopicSource:      domain.TopicSourceNone,
	}

	// 1. Topic inference
	if req.Topic != "" {
		topic, ok := domain.ParseTopicStrict(string(req.Topic))
		if !ok {
			return nil, fmt.Errorf("ask: %w: unknown topic %q", domain.ErrInvalidInput, req.Topic)
		}
		answer.Topics = []domain.Topic{topic}
		answer.TopicSource = domain.TopicSourceExplicit
	} else if inferred := domain.InferTopics(req.Question); len(inferred) > 0 {
		answer.Topics = inferred
		answer.TopicSource = domain.TopicSourceInferred
	}
	logger.Debug("scope=%s topics=%v (%s)", scope, answer.Topics, answer.TopicSource)

	// 2. Primary retrieval, 3. fallback widening
	filter := domain.ClauseFilter{
		LeaseID:    req.LeaseID,
		PropertyID: req.PropertyID,
		TenantName: req.TenantName,
		Topics:     answer.Topics,
	}
	hits, err := q.retrieve(ctx, req.Question, filter)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 && filter.HasTopicFilter() {
		logger.Debug("no clauses for topics %v, widening", filter.Topics)
		hits, err = q.retrieve(ctx, req.Question, filter.WithoutTopics())
		if err != nil {
			return nil, err
		}
		answer.Widened = true
	}

	// 4. Empty-result contract
	if len(hits) == 0 {
		answer.Mode = domain.QueryModeNoClauses
		answer.Message = noClausesMessage(scope, lease)
		answer.Citations = []domain.Citation{}
		return answer, nil
	}

	// 5. Context assembly, 6. answer synthesis
	if q.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	data := answerPromptData{
		Question:           req.Question,
		Portfolio:          scope == domain.ScopePortfolio,
		AsksResponsibility: asksResponsibility(req.Question),
	}
	if scope == domain.ScopeLease {
		data.Context = leaseContext(hits)
		data.Metadata = q.leaseMetadata(ctx, lease)
	} else {
		data.Context = portfolioContext(hits)
	}

	prompt, err := renderPrompt(q.prompts, driven.PromptAnswerQuestion, data)
	if err != nil {
		return nil, err
	}
	text, err := q.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnswerGeneration, err)
	}

	answer.Mode = domain.QueryModeClauseRAG
	answer.Text = strings.TrimSpace(text)

	// 7. Responsible-party resolution
	if party, ok := ExplicitResponsibleParty(answer.Text); ok {
		answer.ResponsibleParty = party
		answer.PartySource = domain.PartySourceExplicit
	} else {
		answer.ResponsibleParty = VoteResponsibleParty(hits)
		answer.PartySource = domain.PartySourceVote
	}

	// 8. Citation assembly
	answer.Citations = buildCitations(hits, q.retrieval.CitationLimit)
	return answer, nil
}

func (q *QueryOrchestrator) retrieve(ctx context.Context, question string, filter domain.ClauseFilter) ([]domain.ClauseHit, error) {
	hits, err := q.search.Search(ctx, domain.ClauseSearchRequest{
		Query:         question,
		Filter:        filter,
		TopK:          q.retrieval.TopK,
		MinSimilarity: q.retrieval.MinSimilarity,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve clauses: %w", err)
	}
	logger.Debug("retrieved %d clauses", len(hits))
	return hits, nil
}

func noClausesMessage(scope domain.QueryScope, lease *domain.Lease) string {
	if scope == domain.ScopeLease && lease != nil {
		return fmt.Sprintf("No indexed clauses in the lease for %s matched this question. "+
			"Index the lease document or rephrase the question.", lease.TenantName)
	}
	return "No indexed clauses across the portfolio matched this question. " +
		"Index lease documents or narrow the question to a property or tenant."
}

func (q *QueryOrchestrator) leaseMetadata(ctx context.Context, lease *domain.Lease) string {
	if lease == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tenant: %s\n", lease.TenantName)
	if q.properties != nil {
		if p, err := q.properties.GetProperty(ctx, lease.PropertyID); err == nil {
			fmt.Fprintf(&b, "Property: %s\n", p.Name)
			if p.Address != "" {
				fmt.Fprintf(&b, "Address: %s\n", p.Address)
			}
		}
	}
	if !lease.StartDate.IsZero() || !lease.EndDate.IsZero() {
		fmt.Fprintf(&b, "Term: %s to %s\n", formatDate(lease.StartDate), formatDate(lease.EndDate))
	}
	if lease.MonthlyRent > 0 {
		fmt.Fprintf(&b, "Monthly rent: %.2f\n", lease.MonthlyRent)
	}
	return strings.TrimSpace(b.String())
}

// writeClause renders one numbered clause for the prompt context.
func writeClause(b *strings.Builder, n int, c domain.Clause) {
	fmt.Fprintf(b, "[%d] ", n)
	if c.SectionLabel != "" {
		fmt.Fprintf(b, "Section %s | ", c.SectionLabel)
	}
	fmt.Fprintf(b, "Topic: %s | Responsible: %s\n%s\n\n", c.Topic, c.ResponsibleParty, strings.TrimSpace(c.Text))
}

// leaseContext renders hits as one flat numbered list.
func leaseContext(hits []domain.ClauseHit) string {
	var b strings.Builder
	for i, h := range hits {
		writeClause(&b, i+1, h.View.Clause)
	}
	return strings.TrimSpace(b.String())
}

// portfolioContext groups hits by property and tenant in order of first
// appearance. Numbering continues across groups.
func portfolioContext(hits []domain.ClauseHit) string {
	type group struct {
		property, tenant string
		hits             []domain.ClauseHit
	}
	var groups []*group
	index := make(map[string]*group)
	for _, h := range hits {
		key := h.View.PropertyID + "\x00" + strings.ToLower(h.View.TenantName)
		g, ok := index[key]
		if !ok {
			g = &group{property: h.View.PropertyName, tenant: h.View.TenantName}
			index[key] = g
			groups = append(groups, g)
		}
		g.hits = append(g.hits, h)
	}

	var b strings.Builder
	n := 0
	for _, g := range groups {
		fmt.Fprintf(&b, "=== Property: %s | Tenant: %s ===\n", g.property, g.tenant)
		for _, h := range g.hits {
			n++
			writeClause(&b, n, h.View.Clause)
		}
	}
	return strings.TrimSpace(b.String())
}

var (
	partyTag = regexp.MustCompile(`(?im)responsible\s+party\**\s*[:\-]\s*\**\s*([A-Za-z_]+)`)

	responsibilityCue = regexp.MustCompile(`(?i)\b(who|whose|responsib\w*|obligat\w*|liab\w*|pays?|paid|bears?|covers?|maintains?|repairs?|handles?)\b`)
)

// ExplicitResponsibleParty finds a "Responsible Party: X" line in generated
// text. Only the four literal party values are accepted.
func ExplicitResponsibleParty(text string) (domain.ResponsibleParty, bool) {
	for _, m := range partyTag.FindAllStringSubmatch(text, -1) {
		if p, ok := domain.ParseResponsiblePartyStrict(m[1]); ok {
			return p, true
		}
	}
	return "", false
}

// VoteResponsibleParty returns the label with the highest summed similarity.
// UNKNOWN only wins when it is the only label present. Ties go to the label
// seen first.
func VoteResponsibleParty(hits []domain.ClauseHit) domain.ResponsibleParty {
	weights := make(map[domain.ResponsibleParty]float64)
	var order []domain.ResponsibleParty
	for _, h := range hits {
		p := h.View.Clause.ResponsibleParty
		if !p.IsValid() {
			p = domain.PartyUnknown
		}
		if _, seen := weights[p]; !seen {
			order = append(order, p)
		}
		weights[p] += h.Similarity
	}

	best := domain.PartyUnknown
	bestWeight := 0.0
	found := false
	for _, p := range order {
		if p == domain.PartyUnknown {
			continue
		}
		if !found || weights[p] > bestWeight {
			best, bestWeight, found = p, weights[p], true
		}
	}
	return best
}

func asksResponsibility(question string) bool {
	return responsibilityCue.MatchString(question)
}

// buildCitations converts the top hits into citations.
func buildCitations(hits []domain.ClauseHit, limit int) []domain.Citation {
	if limit <= 0 {
		limit = domain.DefaultCitationLimit
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	citations := make([]domain.Citation, len(hits))
	for i, h := range hits {
		c := h.View.Clause
		citations[i] = domain.Citation{
			ClauseID:         c.ID,
			LeaseID:          c.LeaseID,
			PropertyID:       h.View.PropertyID,
			PropertyName:     h.View.PropertyName,
			TenantName:       h.View.TenantName,
			SectionLabel:     c.SectionLabel,
			Snippet:          snippet(c.Text, domain.CitationSnippetChars),
			PageNumber:       c.PageNumber,
			Topic:            c.Topic,
			ResponsibleParty: c.ResponsibleParty,
			Similarity:       h.Similarity,
		}
	}
	return citations
}

// snippet collapses whitespace and cuts text to n runes with an ellipsis.
func snippet(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if len([]rune(flat)) <= n {
		return flat
	}
	return strings.TrimSpace(truncateRunes(flat, n-1)) + "…"
}

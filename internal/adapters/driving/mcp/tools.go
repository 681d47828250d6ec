package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

const defaultSearchLimit = 10

// AskInput is the input schema for the ask_lease_question tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the question about one lease or the portfolio"`
	LeaseID    string `json:"lease_id,omitempty" jsonschema:"restrict the answer to one lease"`
	PropertyID string `json:"property_id,omitempty" jsonschema:"restrict the answer to leases of one property"`
	Tenant     string `json:"tenant,omitempty" jsonschema:"restrict the answer to leases of one tenant"`
	Topic      string `json:"topic,omitempty" jsonschema:"clause topic such as ROOF or CAM; inferred from the question when empty"`
}

// AskOutput is the output schema for the ask_lease_question tool.
type AskOutput struct {
	Mode             string           `json:"mode"`
	Scope            string           `json:"scope"`
	Answer           string           `json:"answer,omitempty"`
	ResponsibleParty string           `json:"responsible_party,omitempty"`
	PartySource      string           `json:"party_source,omitempty"`
	Topics           []string         `json:"topics,omitempty"`
	Widened          bool             `json:"widened"`
	Message          string           `json:"message,omitempty"`
	Citations        []CitationOutput `json:"citations"`
}

// CitationOutput is a clause cited by an answer.
type CitationOutput struct {
	ClauseID         string  `json:"clause_id"`
	LeaseID          string  `json:"lease_id"`
	PropertyName     string  `json:"property_name"`
	TenantName       string  `json:"tenant_name"`
	SectionLabel     string  `json:"section_label,omitempty"`
	PageNumber       *int    `json:"page_number,omitempty"`
	Topic            string  `json:"topic"`
	ResponsibleParty string  `json:"responsible_party"`
	Similarity       float64 `json:"similarity"`
	Snippet          string  `json:"snippet"`
}

// SearchInput is the input schema for the search_clauses tool.
type SearchInput struct {
	Query            string   `json:"query" jsonschema:"text to match against clause text"`
	LeaseID          string   `json:"lease_id,omitempty" jsonschema:"restrict to one lease"`
	PropertyID       string   `json:"property_id,omitempty" jsonschema:"restrict to leases of one property"`
	Tenant           string   `json:"tenant,omitempty" jsonschema:"restrict to leases of one tenant"`
	Topics           []string `json:"topics,omitempty" jsonschema:"restrict to clauses with one of these topics"`
	ResponsibleParty string   `json:"responsible_party,omitempty" jsonschema:"restrict to LANDLORD, TENANT, SHARED or UNKNOWN"`
	Limit            int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	MinSimilarity    *float64 `json:"min_similarity,omitempty" jsonschema:"similarity floor between 0 and 1 (default 0.25)"`
}

// SearchOutput is the output schema for the search_clauses tool.
type SearchOutput struct {
	Results []ClauseOutput `json:"results"`
	Count   int            `json:"count"`
}

// ClauseOutput represents a single ranked clause.
type ClauseOutput struct {
	ClauseID         string  `json:"clause_id"`
	LeaseID          string  `json:"lease_id"`
	PropertyName     string  `json:"property_name"`
	TenantName       string  `json:"tenant_name"`
	SectionLabel     string  `json:"section_label,omitempty"`
	Topic            string  `json:"topic"`
	ResponsibleParty string  `json:"responsible_party"`
	Similarity       float64 `json:"similarity"`
	Text             string  `json:"text"`
}

// ListLeasesInput is the input schema for the list_leases tool.
type ListLeasesInput struct {
	PropertyID string `json:"property_id,omitempty" jsonschema:"only list leases of this property"`
}

// ListLeasesOutput is the output schema for the list_leases tool.
type ListLeasesOutput struct {
	Leases []LeaseOutput `json:"leases"`
	Count  int           `json:"count"`
}

// LeaseOutput summarises a lease.
type LeaseOutput struct {
	ID           string  `json:"id"`
	TenantName   string  `json:"tenant_name"`
	PropertyID   string  `json:"property_id"`
	PropertyName string  `json:"property_name"`
	StartDate    string  `json:"start_date,omitempty"`
	EndDate      string  `json:"end_date,omitempty"`
	MonthlyRent  float64 `json:"monthly_rent"`
	ClauseCount  int     `json:"clause_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_lease_question",
		Description: "Answer a question from indexed lease clauses, with citations and the responsible party",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_clauses",
		Description: "Rank indexed lease clauses by semantic similarity to a query",
	}, s.handleSearch)

	if s.ports.Lease != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_leases",
			Description: "List leases with their property, tenant and clause count",
		}, s.handleListLeases)
	}
}

// handleAsk handles the ask_lease_question tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	req := domain.QueryRequest{
		Question:   input.Question,
		LeaseID:    input.LeaseID,
		PropertyID: input.PropertyID,
		TenantName: input.Tenant,
	}
	if input.Topic != "" {
		topic, ok := domain.ParseTopicStrict(input.Topic)
		if !ok {
			return nil, AskOutput{}, fmt.Errorf("unknown topic %q", input.Topic)
		}
		req.Topic = topic
	}

	answer, err := s.ports.Query.Ask(ctx, req)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	return nil, askOutput(answer), nil
}

func askOutput(a *domain.Answer) AskOutput {
	out := AskOutput{
		Mode:             string(a.Mode),
		Scope:            string(a.Scope),
		Answer:           a.Text,
		ResponsibleParty: string(a.ResponsibleParty),
		PartySource:      string(a.PartySource),
		Widened:          a.Widened,
		Message:          a.Message,
		Citations:        make([]CitationOutput, len(a.Citations)),
	}
	for _, t := range a.Topics {
		out.Topics = append(out.Topics, string(t))
	}
	for i, c := range a.Citations {
		out.Citations[i] = CitationOutput{
			ClauseID:         c.ClauseID,
			LeaseID:          c.LeaseID,
			PropertyName:     c.PropertyName,
			TenantName:       c.TenantName,
			SectionLabel:     c.SectionLabel,
			PageNumber:       c.PageNumber,
			Topic:            string(c.Topic),
			ResponsibleParty: string(c.ResponsibleParty),
			Similarity:       c.Similarity,
			Snippet:          c.Snippet,
		}
	}
	return out
}

// handleSearch handles the search_clauses tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	minSim := domain.DefaultMinSimilarity
	if input.MinSimilarity != nil {
		minSim = *input.MinSimilarity
	}

	filter := domain.ClauseFilter{
		LeaseID:    input.LeaseID,
		PropertyID: input.PropertyID,
		TenantName: input.Tenant,
	}
	for _, raw := range input.Topics {
		topic, ok := domain.ParseTopicStrict(raw)
		if !ok {
			return nil, SearchOutput{}, fmt.Errorf("unknown topic %q", raw)
		}
		filter.Topics = append(filter.Topics, topic)
	}
	if input.ResponsibleParty != "" {
		party, ok := domain.ParseResponsiblePartyStrict(input.ResponsibleParty)
		if !ok {
			return nil, SearchOutput{}, fmt.Errorf("unknown responsible party %q", input.ResponsibleParty)
		}
		filter.ResponsibleParty = party
	}

	hits, err := s.ports.Search.Search(ctx, domain.ClauseSearchRequest{
		Query:         input.Query,
		Filter:        filter,
		TopK:          limit,
		MinSimilarity: minSim,
	})
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	output := SearchOutput{
		Results: make([]ClauseOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		c := h.View.Clause
		output.Results[i] = ClauseOutput{
			ClauseID:         c.ID,
			LeaseID:          c.LeaseID,
			PropertyName:     h.View.PropertyName,
			TenantName:       h.View.TenantName,
			SectionLabel:     c.SectionLabel,
			Topic:            string(c.Topic),
			ResponsibleParty: string(c.ResponsibleParty),
			Similarity:       h.Similarity,
			Text:             c.Text,
		}
	}

	return nil, output, nil
}

// handleListLeases handles the list_leases tool invocation.
func (s *Server) handleListLeases(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListLeasesInput,
) (*mcp.CallToolResult, ListLeasesOutput, error) {
	details, err := s.ports.Lease.ListLeases(ctx, input.PropertyID)
	if err != nil {
		return nil, ListLeasesOutput{}, toolError(err)
	}

	output := ListLeasesOutput{
		Leases: make([]LeaseOutput, len(details)),
		Count:  len(details),
	}
	for i := range details {
		output.Leases[i] = leaseOutput(&details[i])
	}
	return nil, output, nil
}

func leaseOutput(d *domain.LeaseDetail) LeaseOutput {
	return LeaseOutput{
		ID:           d.Lease.ID,
		TenantName:   d.Lease.TenantName,
		PropertyID:   d.Property.ID,
		PropertyName: d.Property.Name,
		StartDate:    formatDate(d.Lease.StartDate),
		EndDate:      formatDate(d.Lease.EndDate),
		MonthlyRent:  d.Lease.MonthlyRent,
		ClauseCount:  d.ClauseCount,
	}
}

// toolError rewrites domain errors into messages an assistant can act on.
// The SDK reports handler errors as tool results with IsError set.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("not found: %w", err)
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fmt.Errorf("no answer model is configured; use search_clauses instead: %w", err)
	case errors.Is(err, domain.ErrAnswerGeneration):
		return fmt.Errorf("the answer model failed: %w", err)
	default:
		return err
	}
}

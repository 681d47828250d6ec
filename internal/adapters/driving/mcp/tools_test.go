package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("maps answer and citations", func(t *testing.T) {
		page := 4
		query := &mockQueryService{
			answer: &domain.Answer{
				Mode:             domain.QueryModeClauseRAG,
				Scope:            domain.ScopeLease,
				Text:             "The tenant repairs the roof.\nResponsible Party: TENANT",
				ResponsibleParty: domain.PartyTenant,
				PartySource:      domain.PartySourceExplicit,
				Topics:           []domain.Topic{domain.TopicRoof},
				Citations: []domain.Citation{{
					ClauseID:         "c-1",
					LeaseID:          "lease-1",
					PropertyName:     "Harbour Point",
					TenantName:       "Acme Ltd",
					SectionLabel:     "12. Repairs",
					Snippet:          "Tenant shall maintain the roof",
					PageNumber:       &page,
					Topic:            domain.TopicRoof,
					ResponsibleParty: domain.PartyTenant,
					Similarity:       0.82,
				}},
			},
		}
		server := newTestServer(&Ports{Query: query})

		_, out, err := server.handleAsk(ctx, nil, AskInput{
			Question: "Who fixes the roof?",
			LeaseID:  "lease-1",
			Topic:    "roof",
		})

		require.NoError(t, err)
		assert.Equal(t, "clause_rag", out.Mode)
		assert.Equal(t, "lease", out.Scope)
		assert.Equal(t, "TENANT", out.ResponsibleParty)
		assert.Equal(t, "explicit", out.PartySource)
		assert.Equal(t, []string{"ROOF"}, out.Topics)
		require.Len(t, out.Citations, 1)
		assert.Equal(t, "c-1", out.Citations[0].ClauseID)
		assert.Equal(t, 4, *out.Citations[0].PageNumber)
		assert.Equal(t, "ROOF", out.Citations[0].Topic)

		assert.Equal(t, "lease-1", query.lastReq.LeaseID)
		assert.Equal(t, domain.TopicRoof, query.lastReq.Topic)
	})

	t.Run("no clauses is not an error", func(t *testing.T) {
		query := &mockQueryService{answer: &domain.Answer{
			Mode:    domain.QueryModeNoClauses,
			Scope:   domain.ScopePortfolio,
			Message: "No relevant clauses were found.",
		}}
		server := newTestServer(&Ports{Query: query})

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "Who pays for parking?", Tenant: "Acme"})

		require.NoError(t, err)
		assert.Equal(t, "no_clauses", out.Mode)
		assert.Empty(t, out.Citations)
		assert.NotEmpty(t, out.Message)
		assert.Equal(t, "Acme", query.lastReq.TenantName)
	})

	t.Run("empty question is rejected", func(t *testing.T) {
		server := newTestServer(&Ports{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "  "})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "question is required")
	})

	t.Run("unknown topic is rejected", func(t *testing.T) {
		server := newTestServer(&Ports{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q", Topic: "gardening"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown topic")
	})

	t.Run("missing llm is explained", func(t *testing.T) {
		query := &mockQueryService{err: fmt.Errorf("query: %w", domain.ErrLLMUnavailable)}
		server := newTestServer(&Ports{Query: query})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Contains(t, err.Error(), "search_clauses")
	})
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked clauses", func(t *testing.T) {
		search := &mockSearchService{hits: []domain.ClauseHit{{
			View: domain.ClauseView{
				Clause: domain.Clause{
					ID:               "c-1",
					LeaseID:          "lease-1",
					Text:             "Landlord shall insure the building.",
					Topic:            domain.TopicInsurance,
					ResponsibleParty: domain.PartyLandlord,
				},
				PropertyName: "Harbour Point",
				TenantName:   "Acme Ltd",
			},
			Similarity: 0.91,
		}}}
		server := newTestServer(&Ports{Search: search})
		floor := 0.4

		_, out, err := server.handleSearch(ctx, nil, SearchInput{
			Query:            "insurance",
			Topics:           []string{"insurance", "casualty"},
			ResponsibleParty: "landlord",
			MinSimilarity:    &floor,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "c-1", out.Results[0].ClauseID)
		assert.Equal(t, "INSURANCE", out.Results[0].Topic)
		assert.Equal(t, "LANDLORD", out.Results[0].ResponsibleParty)
		assert.Equal(t, "Harbour Point", out.Results[0].PropertyName)
		assert.InDelta(t, 0.91, out.Results[0].Similarity, 1e-9)

		assert.Equal(t, defaultSearchLimit, search.lastReq.TopK)
		assert.Equal(t, []domain.Topic{domain.TopicInsurance, domain.TopicCasualty}, search.lastReq.Filter.Topics)
		assert.Equal(t, domain.PartyLandlord, search.lastReq.Filter.ResponsibleParty)
		assert.InDelta(t, 0.4, search.lastReq.MinSimilarity, 1e-9)
	})

	t.Run("explicit limit is passed through", func(t *testing.T) {
		search := &mockSearchService{}
		server := newTestServer(&Ports{Search: search})

		_, out, err := server.handleSearch(ctx, nil, SearchInput{Query: "rent", Limit: 3})

		require.NoError(t, err)
		assert.Equal(t, 0, out.Count)
		assert.Equal(t, 3, search.lastReq.TopK)
		assert.InDelta(t, domain.DefaultMinSimilarity, search.lastReq.MinSimilarity, 1e-9)
	})

	t.Run("zero similarity floor is kept", func(t *testing.T) {
		search := &mockSearchService{}
		server := newTestServer(&Ports{Search: search})
		zero := 0.0

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "rent", MinSimilarity: &zero})

		require.NoError(t, err)
		assert.Zero(t, search.lastReq.MinSimilarity)
	})

	t.Run("invalid filters are rejected", func(t *testing.T) {
		server := newTestServer(&Ports{})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "q", Topics: []string{"nope"}})
		assert.Error(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "q", ResponsibleParty: "lessor"})
		assert.Error(t, err)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("search failed")}
		server := newTestServer(&Ports{Search: search})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleListLeases(t *testing.T) {
	ctx := context.Background()

	t.Run("lists leases", func(t *testing.T) {
		leases := &mockLeaseService{details: []domain.LeaseDetail{{
			Lease: domain.Lease{
				ID:          "lease-1",
				TenantName:  "Acme Ltd",
				StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				MonthlyRent: 9000,
			},
			Property:    domain.Property{ID: "prop-1", Name: "Harbour Point"},
			ClauseCount: 42,
		}}}
		server := newTestServer(&Ports{Lease: leases})

		_, out, err := server.handleListLeases(ctx, nil, ListLeasesInput{PropertyID: "prop-1"})

		require.NoError(t, err)
		require.Equal(t, 1, out.Count)
		assert.Equal(t, "lease-1", out.Leases[0].ID)
		assert.Equal(t, "2024-01-01", out.Leases[0].StartDate)
		assert.Empty(t, out.Leases[0].EndDate)
		assert.Equal(t, 42, out.Leases[0].ClauseCount)
		assert.Equal(t, "prop-1", leases.lastPropertyID)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		leases := &mockLeaseService{err: errors.New("database error")}
		server := newTestServer(&Ports{Lease: leases})

		_, _, err := server.handleListLeases(ctx, nil, ListLeasesInput{})

		assert.Error(t, err)
	})
}

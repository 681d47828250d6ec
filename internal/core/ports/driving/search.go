package driving

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// ClauseSearchService provides exact vector search over indexed clauses.
type ClauseSearchService interface {
	// Search embeds the query, pre-filters candidates and ranks them by
	// cosine similarity.
	Search(ctx context.Context, req domain.ClauseSearchRequest) ([]domain.ClauseHit, error)
}

// QueryService answers natural-language questions about leases.
type QueryService interface {
	// Ask retrieves relevant clauses and synthesises an answer.
	// An empty retrieval is a no_clauses answer, not an error.
	Ask(ctx context.Context, req domain.QueryRequest) (*domain.Answer, error)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
	"github.com/custodia-labs/leaserag/internal/logger"
)

// Ensure ClauseSearchEngine implements the interface.
var _ driving.ClauseSearchService = (*ClauseSearchEngine)(nil)

// ClauseSearchEngine ranks clauses by cosine similarity to a query.
//
// Every non-vector filter is applied by the store first; the remaining
// candidates are all scored in memory. That keeps results exact but makes
// each query O(candidates), which is fine for hundreds to low thousands of
// clauses per scope and needs an ANN index beyond that.
type ClauseSearchEngine struct {
	clauses  driven.ClauseStore
	embedder driven.EmbeddingService
}

// NewClauseSearchEngine creates a search engine.
func NewClauseSearchEngine(clauses driven.ClauseStore, embedder driven.EmbeddingService) *ClauseSearchEngine {
	return &ClauseSearchEngine{clauses: clauses, embedder: embedder}
}

// Search embeds the query and returns the best matching clauses.
// TopK <= 0 uses domain.DefaultTopK. MinSimilarity is used as given.
func (e *ClauseSearchEngine) Search(ctx context.Context, req domain.ClauseSearchRequest) ([]domain.ClauseHit, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("search clauses: %w: empty query", domain.ErrInvalidInput)
	}
	if e.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	topK := req.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := e.clauses.FindClauses(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("find clauses: %w", err)
	}
	logger.Debug("search: %d candidates, topK=%d, minSim=%.2f", len(candidates), topK, req.MinSimilarity)

	mismatched := 0
	ranked := rankBySimilarity(vec, candidates, func(v domain.ClauseView) []float32 {
		if len(v.Clause.Embedding) != len(vec) {
			mismatched++
			return nil
		}
		return v.Clause.Embedding
	}, req.MinSimilarity, topK)
	if mismatched > 0 {
		logger.Warn("search: %d clauses have embeddings of a different dimension; re-index them", mismatched)
	}

	hits := make([]domain.ClauseHit, len(ranked))
	for i, r := range ranked {
		hits[i] = domain.ClauseHit{View: r.item, Similarity: r.score}
	}
	return hits, nil
}

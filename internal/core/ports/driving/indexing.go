package driving

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// IndexingService turns lease documents into classified, embedded clauses.
type IndexingService interface {
	// IndexLease extracts, segments, classifies and embeds the documents and
	// replaces every clause of the lease with the result. When every chunk
	// fails to embed, the lease keeps its clauses and the summary is returned
	// with an error wrapping domain.ErrEmbeddingUnavailable.
	IndexLease(ctx context.Context, leaseID string, docs ...domain.RawDocument) (*domain.IndexSummary, error)

	// IndexLeaseText indexes already-extracted text.
	IndexLeaseText(ctx context.Context, leaseID, text string) (*domain.IndexSummary, error)

	// Status returns the in-process indexing state of a lease.
	Status(ctx context.Context, leaseID string) (*domain.IndexStatus, error)
}

package driving

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// DocumentService manages uploaded lease documents for whole-document Q&A.
type DocumentService interface {
	// Upload normalises, chunks and embeds a document for a lease.
	Upload(ctx context.Context, leaseID string, raw *domain.RawDocument) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns the documents of a lease. An empty lease id lists all.
	List(ctx context.Context, leaseID string) ([]domain.Document, error)

	// GetChunks returns the stored chunks of a document.
	GetChunks(ctx context.Context, documentID string) ([]domain.DocumentChunk, error)

	// Delete removes a document and its chunks.
	Delete(ctx context.Context, documentID string) error

	// Ask answers a question from the document's own chunks.
	Ask(ctx context.Context, documentID, question string) (*domain.Answer, error)
}

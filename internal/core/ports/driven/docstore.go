package driven

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// DocumentStore persists uploaded documents and their generic chunks.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document, replacing any existing ones.
	SaveChunks(ctx context.Context, chunks []domain.DocumentChunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.DocumentChunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns documents for a lease. An empty lease id lists all.
	ListDocuments(ctx context.Context, leaseID string) ([]domain.Document, error)
}

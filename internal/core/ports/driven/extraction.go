package driven

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// Normaliser extracts plain text from one family of lease file formats.
type Normaliser interface {
	// SupportedMIMETypes lists the formats this normaliser reads.
	SupportedMIMETypes() []string

	// Priority orders normalisers sharing a MIME type; the highest wins.
	// Format readers use 50-89 and plain-text fallbacks 1-9.
	Priority() int

	// Normalise returns the document text. PDF text keeps form feeds
	// between pages so page numbers survive segmentation.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult wraps the extracted document.
type NormaliseResult struct {
	Document domain.Document
}

// NormaliserRegistry picks a normaliser by MIME type, falling back to the
// file extension when the upload carries none.
type NormaliserRegistry interface {
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
	Register(normaliser Normaliser)
	SupportedMIMETypes() []string
}

// PostProcessor is one stage of text processing after extraction.
// A producing stage (segmenter, chunker) receives nil chunks; a refining
// stage receives and returns the previous stage's output.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline turns a normalised document into clause or
// document chunks by running its stages in order.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}

package domain

import "time"

// Document is an uploaded lease file after normalisation.
// It feeds the generic whole-document Q&A pipeline.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// LeaseID links to the owning Lease.
	LeaseID string

	// FileName is the original file name.
	FileName string

	// Title is the human-readable title.
	Title string

	// MIMEType is the content type the document was normalised from.
	MIMEType string

	// Content is the full text content after normalisation.
	// Pages are separated by form feeds when the source is paged.
	Content string

	// Metadata contains normaliser-specific key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}

// DocumentChunk is a generic, unclassified slice of a document.
type DocumentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// PageNumber is the 1-based page, or nil for unpaged sources.
	PageNumber *int

	// Embedding is the vector representation for semantic search.
	Embedding []float32
}

// Chunk is a segment of raw text produced by a post-processor, before
// classification or embedding.
type Chunk struct {
	// Text is the chunk text.
	Text string

	// SectionLabel is the heading the chunk belongs to, if any.
	SectionLabel string

	// PageNumber is the 1-based page, or nil when the text had no page breaks.
	PageNumber *int

	// Position is the ordinal position within the document.
	Position int
}

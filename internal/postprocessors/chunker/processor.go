// Package chunker provides a fixed-size text chunking processor for
// whole-document Q&A.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into fixed-size, overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Windows end on the last whitespace in their second half when there is one.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("chunk: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(doc.Content) == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	content := []rune(doc.Content)
	paged := strings.ContainsRune(doc.Content, '\f')
	contentLen := len(content)

	chunks := make([]domain.Chunk, 0, contentLen/(p.chunkSize-p.overlap)+1)
	page := 1
	counted := 0

	for start := 0; start < contentLen; {
		end := start + p.chunkSize
		if end >= contentLen {
			end = contentLen
		} else if cut := lastSpace(content[start+p.chunkSize/2 : end]); cut >= 0 {
			end = start + p.chunkSize/2 + cut + 1
		}

		for ; counted < start; counted++ {
			if content[counted] == '\f' {
				page++
			}
		}
		// A chunk starting on a page break belongs to the next page.
		startPage := page
		for i := start; i < end && (content[i] == '\f' || unicode.IsSpace(content[i])); i++ {
			if content[i] == '\f' {
				startPage++
			}
		}

		text := strings.TrimSpace(strings.ReplaceAll(string(content[start:end]), "\f", "\n"))
		if text != "" {
			chunk := domain.Chunk{
				Text:     text,
				Position: len(chunks),
			}
			if paged {
				pageNum := startPage
				chunk.PageNumber = &pageNum
			}
			chunks = append(chunks, chunk)
		}

		if end == contentLen {
			break
		}
		next := end - p.overlap
		if next <= start {
			next = end
		}
		// Start the overlap on a word boundary.
		for next < end && !unicode.IsSpace(content[next-1]) {
			next++
		}
		start = next
	}

	return chunks, nil
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}

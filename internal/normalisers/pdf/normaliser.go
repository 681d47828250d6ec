// Package pdf provides a Normaliser for PDF leases. Text is extracted page by
// page and pages are joined with form feeds so page numbers survive chunking.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/logger"
	"github.com/custodia-labs/leaserag/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// PageSource yields the plain text of each page.
type PageSource interface {
	NumPage() int
	PageText(page int) (string, error)
}

// OpenFunc opens PDF bytes as a PageSource.
type OpenFunc func(content []byte) (PageSource, error)

// Normaliser handles PDF documents.
type Normaliser struct {
	open OpenFunc
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithOpener replaces the PDF reader. Used in tests.
func WithOpener(open OpenFunc) Option {
	return func(n *Normaliser) {
		n.open = open
	}
}

// New creates a new PDF normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{open: openReader}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts text from every page. A page that fails to decode is
// left empty so the remaining page numbers stay correct.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (result *driven.NormaliseResult, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("read pdf %s: %w: %v", raw.FileName, domain.ErrInvalidInput, r)
		}
	}()

	src, err := n.open(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w: %v", raw.FileName, domain.ErrInvalidInput, err)
	}

	total := src.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		text, err := src.PageText(i)
		if err != nil {
			logger.Warn("pdf %s: page %d: %v", raw.FileName, i, err)
			text = ""
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	doc := normalisers.NewDocument(raw, normalisers.Title(raw), strings.Join(pages, "\f"), "pdf")
	doc.Metadata["page_count"] = total
	return &driven.NormaliseResult{Document: doc}, nil
}

// readerSource adapts ledongthuc/pdf.
type readerSource struct {
	r *pdf.Reader
}

func openReader(content []byte) (PageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	return &readerSource{r: r}, nil
}

func (s *readerSource) NumPage() int {
	return s.r.NumPage()
}

func (s *readerSource) PageText(page int) (string, error) {
	p := s.r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// mimeByExtension maps file extensions to the MIME types normalisers register.
var mimeByExtension = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".htm":      "text/html",
	".html":     "text/html",
	".xhtml":    "application/xhtml+xml",
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DetectMIMEType returns the MIME type for a file name, or "" when unknown.
func DetectMIMEType(fileName string) string {
	return mimeByExtension[strings.ToLower(filepath.Ext(fileName))]
}

// Registry selects the highest-priority normaliser for a MIME type.
type Registry struct {
	mu     sync.RWMutex
	byMIME map[string][]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byMIME: make(map[string][]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser under each MIME type it supports.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mime := range n.SupportedMIMETypes() {
		list := append(r.byMIME[mime], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byMIME[mime] = list
	}
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}

// Normalise detects the MIME type when missing and runs the best normaliser.
// Extraction that yields only whitespace returns domain.ErrNoText.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := *raw
	if doc.MIMEType == "" {
		doc.MIMEType = DetectMIMEType(doc.FileName)
	}
	// Drop parameters such as "; charset=utf-8".
	if i := strings.IndexByte(doc.MIMEType, ';'); i >= 0 {
		doc.MIMEType = strings.TrimSpace(doc.MIMEType[:i])
	}

	r.mu.RLock()
	candidates := r.byMIME[doc.MIMEType]
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("normalise %s (%q): %w", doc.FileName, doc.MIMEType, domain.ErrUnsupportedType)
	}

	result, err := candidates[0].Normalise(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", doc.FileName, err)
	}
	if strings.TrimSpace(result.Document.Content) == "" {
		return nil, fmt.Errorf("normalise %s: %w", doc.FileName, domain.ErrNoText)
	}
	return result, nil
}

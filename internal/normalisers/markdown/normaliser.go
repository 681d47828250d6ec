package markdown

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown leases.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise parses the Markdown and keeps its text. Headings stay on their
// own line so clause segmentation still sees them.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src := bytes.ReplaceAll(raw.Content, []byte("\r\n"), []byte("\n"))
	root := n.md.Parser().Parse(text.NewReader(src))

	content, heading := plainText(root, src)
	title := heading
	if title == "" {
		title = normalisers.Title(raw)
	}

	doc := normalisers.NewDocument(raw, title, content, "markdown")
	return &driven.NormaliseResult{Document: doc}, nil
}

// plainText walks the AST and returns the text plus the first H1.
func plainText(root ast.Node, src []byte) (string, string) {
	var out strings.Builder
	var title strings.Builder
	inTitle := false
	titleDone := false

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch v := node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			if entering {
				return ast.WalkSkipChildren, nil
			}
		case *ast.Heading:
			if v.Level == 1 && !titleDone {
				inTitle = entering
				titleDone = !entering
			}
		case *ast.Text:
			if !entering {
				break
			}
			seg := v.Segment.Value(src)
			out.Write(seg)
			if inTitle {
				title.Write(seg)
			}
			if v.SoftLineBreak() || v.HardLineBreak() {
				out.WriteByte('\n')
			}
		case *ast.String:
			if entering {
				out.Write(v.Value)
			}
		case *ast.AutoLink:
			if entering {
				out.Write(v.Label(src))
			}
		}

		if !entering && node.Type() == ast.TypeBlock && node.Kind() != ast.KindDocument {
			out.WriteString("\n\n")
		}
		return ast.WalkContinue, nil
	})

	return collapseBlankLines(out.String()), strings.TrimSpace(title.String())
}

// collapseBlankLines trims lines and keeps at most one empty line between blocks.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(kept) > 0 {
				kept = append(kept, "")
			}
			blank = true
			continue
		}
		blank = false
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips markup and returns the readable text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src := string(raw.Content)
	title := pageTitle(src)
	if title == "" {
		title = normalisers.Title(raw)
	}

	doc := normalisers.NewDocument(raw, title, stripHTML(src), "html")
	return &driven.NormaliseResult{Document: doc}, nil
}

const pageBreakToken = "\x00pagebreak\x00"

var (
	titleTag   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	comments   = regexp.MustCompile(`(?s)<!--.*?-->`)
	pageBreak  = regexp.MustCompile(`(?i)<[^>]+page-break-(before|after)\s*:\s*always[^>]*>`)
	blockTags  = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article|ol|ul)\b[^>]*>`)
	cellTags   = regexp.MustCompile(`(?i)</t[dh]>`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
	spaces     = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// droppedTags are removed with their content.
var droppedTags = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
	regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
	regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
}

// pageTitle returns the decoded <title>, or "".
func pageTitle(src string) string {
	m := titleTag.FindStringSubmatch(src)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// stripHTML removes tags. Elements styled with a page break become form feeds.
func stripHTML(src string) string {
	src = comments.ReplaceAllString(src, "")
	for _, re := range droppedTags {
		src = re.ReplaceAllString(src, "")
	}
	src = pageBreak.ReplaceAllString(src, pageBreakToken)
	src = blockTags.ReplaceAllString(src, "\n")
	src = cellTags.ReplaceAllString(src, " ")
	src = anyTag.ReplaceAllString(src, "")
	src = html.UnescapeString(src)
	src = spaces.ReplaceAllString(src, " ")

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	out := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	out = strings.ReplaceAll(out, pageBreakToken, "\f")
	return strings.TrimSpace(out)
}

package segmenter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure Segmenter implements the interface.
var _ driven.PostProcessor = (*Segmenter)(nil)

// Size bounds, in characters (Unicode code points).
const (
	DefaultMaxChars  = 1200
	MinChunkChars    = 80
	MinDocumentChars = 100
	MinAlphaRatio    = 0.3

	// minMaxChars keeps the upper bound meaningfully above the lower one.
	minMaxChars = 2 * MinChunkChars
)

// Segmenter is the heading-aware clause chunker.
type Segmenter struct {
	maxChars int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithMaxChars sets the maximum chunk size. Values below 160 are ignored.
func WithMaxChars(n int) Option {
	return func(s *Segmenter) {
		if n >= minMaxChars {
			s.maxChars = n
		}
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the processor name.
func (s *Segmenter) Name() string {
	return "segmenter"
}

// MaxChars returns the configured chunk size bound.
func (s *Segmenter) MaxChars() int {
	return s.maxChars
}

// Process segments the document content. Input chunks are ignored.
func (s *Segmenter) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("segment: %w", domain.ErrInvalidInput)
	}
	return s.Segment(doc.Content), nil
}

type line struct {
	text string
	page int
}

type paragraph struct {
	text string
	page int
}

type section struct {
	label string
	lines []line
}

type piece struct {
	text string
	page int
}

// Segment splits text into ordered chunks. Output is deterministic for a
// given input and bound.
func (s *Segmenter) Segment(text string) []domain.Chunk {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinDocumentChars {
		return nil
	}
	paged := strings.Contains(text, "\f")

	var chunks []domain.Chunk
	for _, sec := range splitSections(splitLines(text)) {
		for _, p := range s.pack(paragraphs(sec.lines)) {
			if !keep(p.text) {
				continue
			}
			c := domain.Chunk{
				Text:         p.text,
				SectionLabel: sec.label,
				Position:     len(chunks),
			}
			if paged {
				page := p.page
				c.PageNumber = &page
			}
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// splitLines trims lines and assigns each a page from the form feeds seen.
func splitLines(text string) []line {
	raw := strings.Split(text, "\n")
	lines := make([]line, 0, len(raw))
	page := 1
	for _, r := range raw {
		leading := len(r) - len(strings.TrimLeft(r, "\f"))
		total := strings.Count(r, "\f")
		lines = append(lines, line{
			text: strings.TrimSpace(strings.ReplaceAll(r, "\f", " ")),
			page: page + leading,
		})
		page += total
	}
	return lines
}

// splitSections starts a new section at every heading line. The heading
// line stays in the section body.
func splitSections(lines []line) []section {
	var (
		sections    []section
		current     section
		majorPrefix string
	)
	for _, l := range lines {
		p, ok := matchHeading(l.text)
		if !ok {
			current.lines = append(current.lines, l)
			continue
		}
		if len(current.lines) > 0 {
			sections = append(sections, current)
		}
		var label string
		switch p.kind {
		case kindSubClause:
			prefix, _ := labelFor(l.text, p)
			label = strings.TrimSpace(majorPrefix + " " + prefix)
		case kindAttestation:
			label = ""
		default:
			majorPrefix, label = labelFor(l.text, p)
		}
		current = section{label: label, lines: []line{l}}
	}
	if len(current.lines) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// paragraphs groups non-blank lines separated by blank lines.
func paragraphs(lines []line) []paragraph {
	var (
		out  []paragraph
		buf  []string
		page int
	)
	flush := func() {
		if len(buf) > 0 {
			out = append(out, paragraph{text: strings.Join(buf, "\n"), page: page})
			buf = nil
		}
	}
	for _, l := range lines {
		if l.text == "" {
			flush()
			continue
		}
		if len(buf) == 0 {
			page = l.page
		}
		buf = append(buf, l.text)
	}
	flush()
	return out
}

const paragraphSep = "\n\n"

// pack greedily fills chunks with whole paragraphs, falling back to
// sentences for paragraphs that exceed the bound on their own.
func (s *Segmenter) pack(paras []paragraph) []piece {
	var (
		out     []piece
		cur     strings.Builder
		curPage int
		curLen  int
	)
	flush := func() {
		if curLen > 0 {
			out = append(out, piece{text: cur.String(), page: curPage})
			cur.Reset()
			curLen = 0
		}
	}
	for _, p := range paras {
		n := utf8.RuneCountInString(p.text)
		if n > s.maxChars {
			flush()
			for _, t := range s.packSentences(p.text) {
				out = append(out, piece{text: t, page: p.page})
			}
			continue
		}
		if curLen > 0 && curLen+len(paragraphSep)+n > s.maxChars {
			flush()
		}
		if curLen == 0 {
			curPage = p.page
		} else {
			cur.WriteString(paragraphSep)
			curLen += len(paragraphSep)
		}
		cur.WriteString(p.text)
		curLen += n
	}
	flush()
	return out
}

var sentenceEnd = regexp.MustCompile(`[.!?;]["'”’)\]]*\s+`)

// splitSentences breaks text after sentence terminators.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, m := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start:m[1]]); s != "" {
			out = append(out, s)
		}
		start = m[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// packSentences greedily joins sentences with spaces up to the bound.
// A single sentence over the bound is wrapped on word boundaries.
func (s *Segmenter) packSentences(text string) []string {
	var units []string
	for _, sentence := range splitSentences(text) {
		if utf8.RuneCountInString(sentence) > s.maxChars {
			units = append(units, wrapWords(sentence, s.maxChars)...)
			continue
		}
		units = append(units, sentence)
	}
	return greedyJoin(units, " ", s.maxChars)
}

// wrapWords splits text into runs of whole words no longer than limit.
// A word longer than limit is cut.
func wrapWords(text string, limit int) []string {
	var units []string
	for _, w := range strings.Fields(text) {
		for utf8.RuneCountInString(w) > limit {
			r := []rune(w)
			units = append(units, string(r[:limit]))
			w = string(r[limit:])
		}
		if w != "" {
			units = append(units, w)
		}
	}
	return greedyJoin(units, " ", limit)
}

func greedyJoin(units []string, sep string, limit int) []string {
	var (
		out    []string
		cur    []string
		curLen int
	)
	sepLen := utf8.RuneCountInString(sep)
	for _, u := range units {
		n := utf8.RuneCountInString(u)
		if len(cur) > 0 && curLen+sepLen+n > limit {
			out = append(out, strings.Join(cur, sep))
			cur, curLen = nil, 0
		}
		if len(cur) > 0 {
			curLen += sepLen
		}
		cur = append(cur, u)
		curLen += n
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, sep))
	}
	return out
}

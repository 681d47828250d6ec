package segmenter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type headingKind int

const (
	kindNone headingKind = iota
	kindMajor
	kindSubClause
	kindAttestation
)

type headingPattern struct {
	re *regexp.Regexp
	// prefixTokens is how many leading fields form the numbering marker.
	prefixTokens int
	kind         headingKind
}

var headingPatterns = []headingPattern{
	{regexp.MustCompile(`(?i)^article\s+([0-9]+|[ivxlcdm]+)\b`), 2, kindMajor},
	{regexp.MustCompile(`(?i)^section\s+\d+(\.\d+)*\b`), 2, kindMajor},
	{regexp.MustCompile(`^§\s*\d+(\.\d+)*`), 1, kindMajor},
	{regexp.MustCompile(`^\d+(\.\d+)+\.?\s+\S`), 1, kindMajor},
	{regexp.MustCompile(`^\d+\.?\s+[A-Z][A-Z0-9 ,&'/\-]{3,}(?:[.:]|$)`), 1, kindMajor},
	{regexp.MustCompile(`^(?:EXHIBIT|Exhibit|SCHEDULE|Schedule|APPENDIX|Appendix)\s+(?:[A-Z]{1,2}|\d+(?:\.\d+)*)\b`), 2, kindMajor},
	{regexp.MustCompile(`^\(([a-z]|[ivx]+)\)\s+\S`), 1, kindSubClause},
	{regexp.MustCompile(`^([a-z]|[ivx]+)\)\s+\S`), 1, kindSubClause},
	{regexp.MustCompile(`(?i)^in witness whereof\b`), 0, kindAttestation},
}

const maxLabelChars = 80

// matchHeading classifies a trimmed line.
func matchHeading(line string) (headingPattern, bool) {
	for _, p := range headingPatterns {
		if p.re.MatchString(line) {
			return p, true
		}
	}
	return headingPattern{}, false
}

// labelFor derives a section label from a heading line: the numbering
// marker followed by the heading title, cut at the first sentence end.
func labelFor(line string, p headingPattern) (prefix, label string) {
	fields := strings.Fields(line)
	n := p.prefixTokens
	if n > len(fields) {
		n = len(fields)
	}
	prefix = strings.TrimRight(strings.Join(fields[:n], " "), ".:")
	rest := strings.Join(fields[n:], " ")
	if i := strings.IndexAny(rest, ".:;"); i >= 0 {
		rest = rest[:i]
	}
	rest = truncateWords(strings.TrimSpace(rest), maxLabelChars)
	if rest == "" {
		return prefix, prefix
	}
	if prefix == "" {
		return prefix, rest
	}
	return prefix, prefix + " " + rest
}

// truncateWords shortens s to at most limit runes on a word boundary.
func truncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		next := utf8.RuneCountInString(w)
		if b.Len() > 0 {
			next++
		}
		if utf8.RuneCountInString(b.String())+next > limit {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}

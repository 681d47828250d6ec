package segmenter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	attestationStart = regexp.MustCompile(
		`(?i)^\s*(in witness whereof|\[?signature pages? follows?\]?|signed,? sealed and delivered)`)

	signatureLine = regexp.MustCompile(
		`(?i)^\s*(by|name|title|its|date|dated|witness|attest|signature|print name|notary public|` +
			`my commission expires|landlord|tenant|lessor|lessee)\s*[:_]|^[\s_\-.]{5,}$|^\s*/s/`)
)

// keep reports whether a packed chunk survives the post-filter.
func keep(text string) bool {
	if utf8.RuneCountInString(text) < MinChunkChars {
		return false
	}
	if alphaRatio(text) < MinAlphaRatio {
		return false
	}
	return !isBoilerplate(text)
}

func alphaRatio(text string) float64 {
	total, letters := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}

// isBoilerplate matches attestation paragraphs and blocks made almost
// entirely of signature lines.
func isBoilerplate(text string) bool {
	if attestationStart.MatchString(text) {
		return true
	}
	lines, sig := 0, 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines++
		if signatureLine.MatchString(line) {
			sig++
		}
	}
	return lines >= 2 && sig*5 >= lines*4
}

// Package textutil normalizes the mixed full-width/half-width Japanese text
// returned by the PMDA search pages and CSV exports.
package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	// Word characters plus kanji, hiragana and katakana (including the
	// prolonged sound mark). Everything else is dropped when building
	// field-lookup keys.
	keyRe = regexp.MustCompile(`[^\w一-龥ぁ-んァ-ヶー]`)
)

// Normalize applies NFKC (folding full-width ASCII, half-width kana and
// ideographic spaces) and collapses runs of whitespace to a single space.
func Normalize(s string) string {
	t := norm.NFKC.String(s)
	t = spaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// NormalizeKey reduces a field heading to its word/kana/kanji characters so
// that headings like 成分・分量 and 成分分量 compare equal.
func NormalizeKey(s string) string {
	return keyRe.ReplaceAllString(s, "")
}

// CollapseSpace collapses horizontal whitespace within each line while
// preserving line breaks, and drops blank lines.
func CollapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaceRe.ReplaceAllString(strings.ReplaceAll(line, "　", " "), " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

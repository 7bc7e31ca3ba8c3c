// Package textnorm folds curriculum free text into a comparable form.
//
// Normalize lower-cases, strips diacritical marks, and collapses whitespace.
// NormalizeLabel does the same for column headers and additionally drops
// punctuation. Fold keeps a byte map back to the original string so callers
// can cut snippets out of the unnormalized text.
//
// All functions are total: nil-like input ("") yields "".
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newStripper returns a transformer that removes nonspacing marks.
// Transformers carry state, so each call builds its own chain.
func newStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize case-folds s, removes diacritics (á→a, ñ→n, ü→u, ...),
// collapses internal whitespace runs to one space, and trims.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(stripMarks(strings.ToLower(s))), " ")
}

// NormalizeLabel normalizes a column header: Normalize plus removal of every
// rune that is not a letter, digit, or space.
func NormalizeLabel(s string) string {
	n := Normalize(s)
	if n == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, n)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Folded is a lower-cased, mark-free copy of a string that remembers where
// each of its bytes came from in the original.
type Folded struct {
	// Text is the folded string. Whitespace is kept as-is.
	Text string

	// offsets[i] is the byte offset in the original string of the rune
	// that produced byte i of Text. len(offsets) == len(Text)+1; the last
	// entry is len(original).
	offsets []int
}

// Fold folds s rune by rune so positions can be mapped back.
func Fold(s string) Folded {
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)

	for i, r := range s {
		f := stripMarks(strings.ToLower(string(r)))
		for j := 0; j < len(f); j++ {
			offsets = append(offsets, i)
		}
		b.WriteString(f)
	}
	offsets = append(offsets, len(s))

	return Folded{Text: b.String(), offsets: offsets}
}

// Original maps a byte offset in Text to a byte offset in the source string.
func (f Folded) Original(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos >= len(f.offsets) {
		return f.offsets[len(f.offsets)-1]
	}
	return f.offsets[pos]
}

func stripMarks(s string) string {
	out, _, err := transform.String(newStripper(), s)
	if err != nil {
		return s
	}
	return out
}

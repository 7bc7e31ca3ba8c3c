// Package matcher detects dictionary themes in free text.
//
// A keyword matches as a word prefix: "sostenib" finds "sostenible" and
// "sostenibilidad". Matching is case and accent insensitive because both
// sides go through textnorm first.
package matcher

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/textnorm"
)

// DefaultContextWindow is the snippet radius, in characters, used by the CLI.
const DefaultContextWindow = 100

const ellipsis = "..."

// Options controls a match.
type Options struct {
	// ContextWindow is how many characters of the original text to keep on
	// each side of the first match. Zero disables snippets.
	ContextWindow int
}

// Result is the outcome for one theme.
type Result struct {
	Present bool     `json:"present"`
	Count   int      `json:"count"`
	Forms   []string `json:"forms,omitempty"`
	Context string   `json:"context,omitempty"`
}

type keyword struct {
	re *regexp.Regexp

	// runes is the length of the normalized keyword; snippets span it
	// rather than the matched form.
	runes int
}

type theme struct {
	id       string
	keywords []keyword
}

// Matcher holds the compiled patterns of one dictionary snapshot. It is
// safe for concurrent use.
type Matcher struct {
	themes []theme
	opts   Options
}

// New compiles every keyword of dict.
func New(dict *taxonomy.Dictionary, opts Options) *Matcher {
	m := &Matcher{opts: opts}
	for _, t := range dict.Themes() {
		ct := theme{id: t.ID}
		for _, kw := range t.Keywords {
			norm := textnorm.Normalize(kw)
			if norm == "" {
				continue
			}
			ct.keywords = append(ct.keywords, keyword{re: compile(norm), runes: utf8.RuneCountInString(norm)})
		}
		m.themes = append(m.themes, ct)
	}
	return m
}

// compile builds the prefix pattern for a normalized keyword. Group 1 is
// the matched surface form. Word characters are Unicode-aware so that
// letters without a decomposition (ø, ß) still count as part of a word.
func compile(norm string) *regexp.Regexp {
	parts := strings.Split(norm, " ")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])(` + strings.Join(parts, `[\s\p{Z}]+`) + `[\p{L}\p{N}_]*)`)
}

// Match is a one-shot convenience for ad hoc inspection.
func Match(text string, dict *taxonomy.Dictionary, opts Options) map[string]Result {
	return New(dict, opts).Match(text)
}

// Match runs every theme against text. Every theme of the dictionary has
// an entry in the result, present or not.
func (m *Matcher) Match(text string) map[string]Result {
	results := m.match(textnorm.Normalize(text))
	if m.opts.ContextWindow <= 0 || text == "" {
		return results
	}

	var folded *textnorm.Folded
	for _, t := range m.themes {
		r := results[t.id]
		if !r.Present {
			continue
		}
		if folded == nil {
			f := textnorm.Fold(text)
			folded = &f
		}
		r.Context = m.context(t, text, *folded)
		results[t.id] = r
	}
	return results
}

// MatchNormalized matches text that is already normalized. No context is
// produced.
func (m *Matcher) MatchNormalized(normalized string) map[string]Result {
	return m.match(normalized)
}

func (m *Matcher) match(normalized string) map[string]Result {
	results := make(map[string]Result, len(m.themes))
	for _, t := range m.themes {
		if normalized == "" {
			results[t.id] = Result{}
			continue
		}

		forms := make(map[string]struct{})
		for _, kw := range t.keywords {
			for _, loc := range kw.re.FindAllStringSubmatchIndex(normalized, -1) {
				forms[normalized[loc[2]:loc[3]]] = struct{}{}
			}
		}

		r := Result{Present: len(forms) > 0, Count: len(forms)}
		if r.Present {
			r.Forms = make([]string, 0, len(forms))
			for f := range forms {
				r.Forms = append(r.Forms, f)
			}
			sort.Strings(r.Forms)
		}
		results[t.id] = r
	}
	return results
}

// context cuts a window around the first occurrence of the first keyword
// of t that matches the folded text. The window starts at the keyword and
// spans the keyword's own length, so a long inflected form is cut short.
func (m *Matcher) context(t theme, original string, folded textnorm.Folded) string {
	for _, kw := range t.keywords {
		loc := kw.re.FindStringSubmatchIndex(folded.Text)
		if loc == nil {
			continue
		}
		return window(original, folded.Original(loc[2]), kw.runes, m.opts.ContextWindow)
	}
	return ""
}

// window returns n runes before start and width+n runes from start, with
// an ellipsis on each edge that was cut. Surrounding whitespace is trimmed.
func window(original string, start, width, n int) string {
	from := start
	for i := 0; i < n && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(original[:from])
		from -= size
	}
	to := start
	for i := 0; i < width+n && to < len(original); i++ {
		_, size := utf8.DecodeRuneInString(original[to:])
		to += size
	}

	var b strings.Builder
	if from > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(original[from:to])
	if to < len(original) {
		b.WriteString(ellipsis)
	}
	return strings.TrimSpace(b.String())
}

// MatchedThemes returns the IDs of present themes in dictionary order.
func MatchedThemes(dict *taxonomy.Dictionary, results map[string]Result) []string {
	var ids []string
	for _, id := range dict.IDs() {
		if results[id].Present {
			ids = append(ids, id)
		}
	}
	return ids
}

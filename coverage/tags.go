package coverage

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/curriculens/textnorm"
)

// MinTagLength is the shortest tag kept, in characters.
const MinTagLength = 4

var (
	tagSeparators = regexp.MustCompile(`[,;\r\n]+`)

	// Leading enumeration markers: "1.", "2)", "1.2", "a.", "b)", "-", "•".
	enumPrefix = regexp.MustCompile(`^(?:\d+(?:\.\d+)+[.)]?|\d+[.)]|[A-Za-z][.)]|[-–•*·])\s*`)
)

// SplitTags splits a thematic-core field into cleaned tags.
func SplitTags(raw string) []string {
	var tags []string
	for _, part := range tagSeparators.Split(raw, -1) {
		tag := strings.TrimSpace(enumPrefix.ReplaceAllString(strings.TrimSpace(part), ""))
		if utf8.RuneCountInString(tag) < MinTagLength {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// TagCount is one row of the raw-tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// tagCounter groups tags by their normalized form and keeps the first
// spelling seen for display.
type tagCounter struct {
	display map[string]string
	counts  map[string]int
	order   []string
}

func newTagCounter() *tagCounter {
	return &tagCounter{display: make(map[string]string), counts: make(map[string]int)}
}

func (c *tagCounter) add(tag string) string {
	key := textnorm.Normalize(tag)
	if _, ok := c.counts[key]; !ok {
		c.display[key] = tag
		c.order = append(c.order, key)
	}
	c.counts[key]++
	return key
}

// sorted returns counts descending, ties in first-seen order.
func (c *tagCounter) sorted() []TagCount {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	out := make([]TagCount, len(keys))
	for i, k := range keys {
		out[i] = TagCount{Tag: c.display[k], Count: c.counts[k]}
	}
	return out
}

// Diversity is the normalized Shannon entropy of the tag distribution.
type Diversity struct {
	// Entropy is H in bits.
	Entropy float64 `json:"entropy"`

	// Index is H / log2(k) × 100, within [0, 100].
	Index float64 `json:"index"`

	Computed bool   `json:"computed"`
	Reason   string `json:"reason,omitempty"`
}

// DiversityIndex computes Diversity over tag frequencies. With fewer than
// two distinct tags the index is 0 and Computed is false.
func DiversityIndex(counts []int) Diversity {
	k, total := 0, 0
	for _, c := range counts {
		if c > 0 {
			k++
			total += c
		}
	}
	if k < 2 {
		return Diversity{Reason: "fewer than 2 distinct tags"}
	}

	var h float64
	equal := true
	first := -1
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		if first < 0 {
			first = c
		} else if c != first {
			equal = false
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}

	d := Diversity{Entropy: h, Computed: true}
	if equal {
		d.Index = 100
		return d
	}
	// Only a perfectly even distribution reaches 100.
	d.Index = math.Max(0, math.Min(math.Nextafter(100, 0), h/math.Log2(float64(k))*100))
	return d
}

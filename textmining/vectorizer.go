package textmining

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/curriculens/textnorm"
)

var (
	// ErrEmptyVocabulary is returned when no term survives filtering.
	ErrEmptyVocabulary = errors.New("empty vocabulary after filtering")

	// ErrDocumentFrequencyBounds is returned when MaxDF admits fewer
	// documents than MinDF requires.
	ErrDocumentFrequencyBounds = errors.New("max document frequency is below min document frequency")
)

// Tokens are runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer turns documents into term vectors. Terms are word n-grams
// built after stop words are removed.
type Vectorizer struct {
	NgramMin int `yaml:"ngram_min" json:"ngram_min"`
	NgramMax int `yaml:"ngram_max" json:"ngram_max"`

	// MaxFeatures keeps the terms with the highest corpus frequency.
	// Zero keeps all.
	MaxFeatures int `yaml:"max_features" json:"max_features"`

	// MinDF is the minimum number of documents a term must appear in.
	MinDF int `yaml:"min_df" json:"min_df"`

	// MaxDF is the maximum share of documents a term may appear in.
	// Zero means 1.0.
	MaxDF float64 `yaml:"max_df" json:"max_df"`

	StopWords []string `yaml:"-" json:"-"`
}

// Validate checks the parameters.
func (v Vectorizer) Validate() error {
	if v.NgramMin < 1 || v.NgramMax < v.NgramMin {
		return fmt.Errorf("invalid n-gram range %d..%d", v.NgramMin, v.NgramMax)
	}
	if v.MaxFeatures < 0 || v.MinDF < 0 {
		return fmt.Errorf("max_features and min_df must not be negative")
	}
	if v.MaxDF < 0 || v.MaxDF > 1 {
		return fmt.Errorf("max_df must be within 0..1, got %.2f", v.MaxDF)
	}
	return nil
}

// Analyze returns the terms of one document in order of appearance.
func (v Vectorizer) Analyze(doc string) []string {
	return v.analyze(doc, stopSet(v.StopWords))
}

func stopSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[textnorm.Normalize(w)] = struct{}{}
	}
	return set
}

func (v Vectorizer) analyze(doc string, stop map[string]struct{}) []string {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(textnorm.Normalize(doc), -1) {
		if _, skip := stop[tok]; !skip {
			tokens = append(tokens, tok)
		}
	}

	lo, hi := max(v.NgramMin, 1), max(v.NgramMax, v.NgramMin, 1)
	var terms []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// CountMatrix holds raw term counts, one row per document. Vocabulary is
// sorted.
type CountMatrix struct {
	Vocabulary []string
	Counts     [][]float64
	DocFreq    []int
}

// Count fits a vocabulary on docs and returns the term counts.
func (v Vectorizer) Count(docs []string) (*CountMatrix, error) {
	stop := stopSet(v.StopWords)
	perDoc := make([]map[string]int, len(docs))
	df := make(map[string]int)
	tf := make(map[string]int)

	for i, doc := range docs {
		perDoc[i] = make(map[string]int)
		for _, term := range v.analyze(doc, stop) {
			perDoc[i][term]++
			tf[term]++
		}
		for term := range perDoc[i] {
			df[term]++
		}
	}

	minDoc := float64(max(v.MinDF, 1))
	maxShare := v.MaxDF
	if maxShare == 0 {
		maxShare = 1
	}
	maxDoc := maxShare * float64(len(docs))
	if maxDoc < minDoc {
		return nil, fmt.Errorf("%w: %.1f < %.0f documents", ErrDocumentFrequencyBounds, maxDoc, minDoc)
	}

	var vocab []string
	for term, n := range df {
		if float64(n) >= minDoc && float64(n) <= maxDoc {
			vocab = append(vocab, term)
		}
	}
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	if v.MaxFeatures > 0 && len(vocab) > v.MaxFeatures {
		sort.Slice(vocab, func(i, j int) bool {
			if tf[vocab[i]] != tf[vocab[j]] {
				return tf[vocab[i]] > tf[vocab[j]]
			}
			return vocab[i] < vocab[j]
		})
		vocab = vocab[:v.MaxFeatures]
	}
	sort.Strings(vocab)

	m := &CountMatrix{
		Vocabulary: vocab,
		Counts:     make([][]float64, len(docs)),
		DocFreq:    make([]int, len(vocab)),
	}
	for j, term := range vocab {
		m.DocFreq[j] = df[term]
	}
	for i := range docs {
		row := make([]float64, len(vocab))
		for j, term := range vocab {
			row[j] = float64(perDoc[i][term])
		}
		m.Counts[i] = row
	}
	return m, nil
}

// TFIDF fits docs and returns L2-normalized tf-idf rows. IDF is smoothed:
// ln((1+n)/(1+df)) + 1.
func (v Vectorizer) TFIDF(docs []string) (*CountMatrix, error) {
	m, err := v.Count(docs)
	if err != nil {
		return nil, err
	}

	n := float64(len(docs))
	idf := make([]float64, len(m.Vocabulary))
	for j, d := range m.DocFreq {
		idf[j] = math.Log((1+n)/(1+float64(d))) + 1
	}

	for _, row := range m.Counts {
		var norm float64
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for j := range row {
			row[j] /= norm
		}
	}
	return m, nil
}

// ColumnSums adds each term's column over all documents.
func (m *CountMatrix) ColumnSums() []float64 {
	sums := make([]float64, len(m.Vocabulary))
	for _, row := range m.Counts {
		for j, x := range row {
			sums[j] += x
		}
	}
	return sums
}

// Cosine is the cosine similarity of two vectors; 0 if either is zero.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Package textmining computes term weights, n-grams and subject similarity
// over curriculum text.
//
// Every function returns a result with Computed=false and a Reason when the
// corpus is too small or too uniform, instead of an error.
package textmining

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/curriculens/curriculum"
)

// Options configure the four analyses.
type Options struct {
	Terms           Vectorizer `yaml:"terms" json:"terms"`
	TopTerms        int        `yaml:"top_terms" json:"top_terms"`
	ProgramTopTerms int        `yaml:"program_top_terms" json:"program_top_terms"`

	// MinProgramRecords skips per-program terms for smaller programs.
	MinProgramRecords int `yaml:"min_program_records" json:"min_program_records"`

	Similarity Vectorizer `yaml:"similarity" json:"similarity"`

	// MinSubjects is the fewest subjects similarity is computed for. Values
	// below MinSimilaritySubjects are raised to it.
	MinSubjects int `yaml:"min_subjects" json:"min_subjects"`

	NGrams    Vectorizer `yaml:"ngrams" json:"ngrams"`
	TopNGrams int        `yaml:"top_ngrams" json:"top_ngrams"`

	StopWords []string `yaml:"stop_words,omitempty" json:"stop_words,omitempty"`
}

// DefaultOptions mirrors the thresholds the reports were calibrated on.
func DefaultOptions() Options {
	return Options{
		Terms:             Vectorizer{NgramMin: 1, NgramMax: 3, MaxFeatures: 100, MinDF: 2, MaxDF: 0.8},
		TopTerms:          30,
		ProgramTopTerms:   20,
		MinProgramRecords: 5,
		Similarity:        Vectorizer{NgramMin: 1, NgramMax: 1, MaxFeatures: 50, MinDF: 1, MaxDF: 1},
		MinSubjects:       3,
		NGrams:            Vectorizer{NgramMin: 2, NgramMax: 3, MaxFeatures: 30, MinDF: 3, MaxDF: 1},
		TopNGrams:         20,
		StopWords:         SpanishStopWords(),
	}
}

// Validate checks every vectorizer.
func (o Options) Validate() error {
	for _, v := range []Vectorizer{o.Terms, o.Similarity, o.NGrams} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o Options) with(v Vectorizer) Vectorizer {
	v.StopWords = o.StopWords
	return v
}

// Document is one record of text tagged with its origin.
type Document struct {
	Program string
	Subject string
	Text    string
}

// Documents converts activities, one document per activity.
func Documents(activities []curriculum.Activity) []Document {
	docs := make([]Document, len(activities))
	for i, a := range activities {
		docs[i] = Document{Program: a.Program, Subject: a.Subject, Text: a.AnalyzableText()}
	}
	return docs
}

func texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}

// Term is a weighted term.
type Term struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// TermRanking is the outcome of a term-weighting pass.
type TermRanking struct {
	Terms      []Term `json:"terms"`
	Vocabulary int    `json:"vocabulary"`
	Computed   bool   `json:"computed"`
	Reason     string `json:"reason,omitempty"`
}

// ProgramTerms is a TermRanking for one program.
type ProgramTerms struct {
	Program string `json:"program"`
	Records int    `json:"records"`
	TermRanking
}

// TopTerms ranks terms by their tf-idf summed over documents.
func TopTerms(docs []string, v Vectorizer, n int) TermRanking {
	if len(docs) == 0 {
		return TermRanking{Reason: "no documents"}
	}
	m, err := v.TFIDF(docs)
	if err != nil {
		return TermRanking{Reason: err.Error()}
	}

	sums := m.ColumnSums()
	terms := make([]Term, len(m.Vocabulary))
	for j, t := range m.Vocabulary {
		terms[j] = Term{Term: t, Score: sums[j]}
	}
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Score > terms[j].Score })
	if n > 0 && len(terms) > n {
		terms = terms[:n]
	}
	return TermRanking{Terms: terms, Vocabulary: len(m.Vocabulary), Computed: true}
}

// TopTermsByProgram runs TopTerms per program, in order of first
// appearance. Programs with fewer than MinProgramRecords documents are
// skipped.
func TopTermsByProgram(docs []Document, opts Options) []ProgramTerms {
	var order []string
	groups := make(map[string][]string)
	for _, d := range docs {
		if _, ok := groups[d.Program]; !ok {
			order = append(order, d.Program)
		}
		groups[d.Program] = append(groups[d.Program], d.Text)
	}

	var out []ProgramTerms
	for _, p := range order {
		if len(groups[p]) < opts.MinProgramRecords {
			continue
		}
		out = append(out, ProgramTerms{
			Program:     p,
			Records:     len(groups[p]),
			TermRanking: TopTerms(groups[p], opts.with(opts.Terms), opts.ProgramTopTerms),
		})
	}
	return out
}

// Pair is two subjects and their similarity.
type Pair struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// Similarity is the subject × subject cosine matrix.
type Similarity struct {
	Subjects []string    `json:"subjects"`
	Matrix   [][]float64 `json:"matrix"`
	Top      Pair        `json:"top"`
	Computed bool        `json:"computed"`
	Reason   string      `json:"reason,omitempty"`
}

// MinSimilaritySubjects is the floor for Options.MinSubjects.
const MinSimilaritySubjects = 3

// SubjectSimilarity concatenates documents per subject (sorted by name,
// blank subjects ignored) and compares the resulting tf-idf vectors.
func SubjectSimilarity(docs []Document, opts Options) Similarity {
	bySubject := make(map[string][]string)
	for _, d := range docs {
		if d.Subject == "" {
			continue
		}
		bySubject[d.Subject] = append(bySubject[d.Subject], d.Text)
	}

	subjects := make([]string, 0, len(bySubject))
	for s := range bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	minSubjects := max(opts.MinSubjects, MinSimilaritySubjects)
	if len(subjects) < minSubjects {
		return Similarity{Subjects: subjects, Reason: fmt.Sprintf("fewer than %d subjects", minSubjects)}
	}

	blobs := make([]string, len(subjects))
	for i, s := range subjects {
		blobs[i] = strings.Join(bySubject[s], " ")
	}
	m, err := opts.with(opts.Similarity).TFIDF(blobs)
	if err != nil {
		return Similarity{Subjects: subjects, Reason: err.Error()}
	}

	sim := Similarity{Subjects: subjects, Matrix: make([][]float64, len(subjects)), Computed: true}
	for i := range subjects {
		sim.Matrix[i] = make([]float64, len(subjects))
		for j := range subjects {
			sim.Matrix[i][j] = Cosine(m.Counts[i], m.Counts[j])
		}
	}

	best := Pair{Score: -1}
	for i := range subjects {
		for j := i + 1; j < len(subjects); j++ {
			if sim.Matrix[i][j] > best.Score {
				best = Pair{A: subjects[i], B: subjects[j], Score: sim.Matrix[i][j]}
			}
		}
	}
	sim.Top = best
	return sim
}

// NGram is a word sequence with its corpus frequency.
type NGram struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// NGramRanking lists the most frequent n-grams.
type NGramRanking struct {
	NGrams   []NGram `json:"ngrams"`
	Computed bool    `json:"computed"`
	Reason   string  `json:"reason,omitempty"`
}

// NGrams counts n-grams over docs and ranks them by raw frequency, ties
// alphabetical.
func NGrams(docs []string, v Vectorizer, n int) NGramRanking {
	if len(docs) == 0 {
		return NGramRanking{Reason: "no documents"}
	}
	m, err := v.Count(docs)
	if err != nil {
		return NGramRanking{Reason: err.Error()}
	}

	sums := m.ColumnSums()
	grams := make([]NGram, len(m.Vocabulary))
	for j, t := range m.Vocabulary {
		grams[j] = NGram{Text: t, Count: int(sums[j])}
	}
	sort.SliceStable(grams, func(i, j int) bool { return grams[i].Count > grams[j].Count })
	if n > 0 && len(grams) > n {
		grams = grams[:n]
	}
	return NGramRanking{NGrams: grams, Computed: true}
}

// Result bundles all text analytics of a run.
type Result struct {
	Global     TermRanking    `json:"global"`
	ByProgram  []ProgramTerms `json:"by_program"`
	Similarity Similarity     `json:"similarity"`
	NGrams     NGramRanking   `json:"ngrams"`
}

// Analyze runs every analysis over docs.
func Analyze(docs []Document, opts Options) *Result {
	all := texts(docs)
	return &Result{
		Global:     TopTerms(all, opts.with(opts.Terms), opts.TopTerms),
		ByProgram:  TopTermsByProgram(docs, opts),
		Similarity: SubjectSimilarity(docs, opts),
		NGrams:     NGrams(all, opts.with(opts.NGrams), opts.TopNGrams),
	}
}

// Package coverage aggregates keyword matches and author-written thematic
// tags over a consolidated set of activities.
package coverage

import (
	"sort"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/matcher"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/textnorm"
)

// Defaults for Options.
const (
	DefaultTopTags       = 30
	DefaultTagMatrixSize = 20
)

// Field names reported in detections.
const (
	FieldOutcome   = "Outcome"
	FieldCores     = "Cores"
	FieldIndicator = "Indicator"
	FieldSubject   = "Subject"
)

// Options tunes Aggregate.
type Options struct {
	// Programs are always present in the matrices, in this order, even when
	// none of their activities survived loading.
	Programs []string

	// TopTags caps Result.TopTags. Zero means DefaultTopTags.
	TopTags int

	// TagMatrixSize is how many of the most frequent tags form the columns
	// of the program × tag matrix. Zero means DefaultTagMatrixSize.
	TagMatrixSize int

	// ContextWindow, when positive, adds a snippet to each detection.
	ContextWindow int
}

// ThemeTotal summarizes one theme across the corpus.
type ThemeTotal struct {
	Theme    string `json:"theme"`
	Label    string `json:"label"`
	Mentions int    `json:"mentions"`

	// Programs is how many programs have at least one match.
	Programs int `json:"programs"`

	// Percentage is Programs over all programs, ×100.
	Percentage float64 `json:"percentage"`
}

// Detection is one theme found in one activity, kept for drill-down.
type Detection struct {
	Program string   `json:"program"`
	Subject string   `json:"subject"`
	Theme   string   `json:"theme"`
	Count   int      `json:"count"`
	Forms   []string `json:"forms"`
	Fields  []string `json:"fields,omitempty"`
	Context string   `json:"context,omitempty"`
}

// SubjectDensity is the number of cleaned tags declared for a subject.
type SubjectDensity struct {
	Subject string `json:"subject"`
	Tags    int    `json:"tags"`
}

// Result is everything Aggregate derives. It is rebuilt on every call.
type Result struct {
	Records int `json:"records"`

	// Matrix is program × theme; each cell sums the per-record match
	// counts of that program and theme.
	Matrix *Matrix `json:"matrix"`

	Themes  []ThemeTotal `json:"themes"`
	Present []string     `json:"present"`
	Gaps    []string     `json:"gaps"`

	Tags               []TagCount `json:"tags"`
	TopTags            []TagCount `json:"top_tags"`
	UniqueTags         int        `json:"unique_tags"`
	TagMentions        int        `json:"tag_mentions"`
	MeanMentionsPerTag float64    `json:"mean_mentions_per_tag"`
	Diversity          Diversity  `json:"diversity"`
	TagMatrix          *Matrix    `json:"tag_matrix"`

	Density     []SubjectDensity `json:"density"`
	MeanDensity float64          `json:"mean_density"`

	Detections []Detection `json:"detections"`
}

// Aggregate runs dict over activities.
func Aggregate(activities []curriculum.Activity, dict *taxonomy.Dictionary, opts Options) *Result {
	if opts.TopTags <= 0 {
		opts.TopTags = DefaultTopTags
	}
	if opts.TagMatrixSize <= 0 {
		opts.TagMatrixSize = DefaultTagMatrixSize
	}

	programs := programOrder(opts.Programs, activities)
	themeIDs := dict.IDs()
	m := matcher.New(dict, matcher.Options{ContextWindow: opts.ContextWindow})

	res := &Result{
		Records: len(activities),
		Matrix:  newMatrix(programs, themeIDs),
	}

	tags := newTagCounter()
	recordTags := make([][]string, len(activities))
	subjectTags := make(map[string]int)
	var subjects []string

	for i, a := range activities {
		p := indexOf(programs, a.Program)

		var results map[string]matcher.Result
		if opts.ContextWindow > 0 {
			results = m.Match(a.AnalyzableText())
		} else {
			results = m.MatchNormalized(textnorm.Normalize(a.AnalyzableText()))
		}

		var fields map[string]map[string]matcher.Result
		for c, id := range themeIDs {
			r := results[id]
			if !r.Present {
				continue
			}
			res.Matrix.add(p, c, r.Count)

			if fields == nil {
				fields = fieldResults(m, a)
			}
			res.Detections = append(res.Detections, Detection{
				Program: a.Program,
				Subject: a.Subject,
				Theme:   id,
				Count:   r.Count,
				Forms:   r.Forms,
				Fields:  foundIn(fields, id),
				Context: r.Context,
			})
		}

		for _, tag := range SplitTags(a.ThematicCores) {
			recordTags[i] = append(recordTags[i], tags.add(tag))
		}
		if a.Subject != "" {
			if _, ok := subjectTags[a.Subject]; !ok {
				subjects = append(subjects, a.Subject)
			}
			subjectTags[a.Subject] += len(recordTags[i])
		}
	}

	for _, id := range themeIDs {
		theme, _ := dict.Theme(id)
		total := ThemeTotal{
			Theme:    id,
			Label:    theme.DisplayLabel(),
			Mentions: res.Matrix.ColumnSum(id),
			Programs: res.Matrix.ProgramsWith(id),
		}
		if len(programs) > 0 {
			total.Percentage = float64(total.Programs) / float64(len(programs)) * 100
		}
		res.Themes = append(res.Themes, total)
		if total.Mentions > 0 {
			res.Present = append(res.Present, id)
		} else {
			res.Gaps = append(res.Gaps, id)
		}
	}

	res.Tags = tags.sorted()
	res.UniqueTags = len(res.Tags)
	counts := make([]int, len(res.Tags))
	for i, tc := range res.Tags {
		counts[i] = tc.Count
		res.TagMentions += tc.Count
	}
	if res.UniqueTags > 0 {
		res.MeanMentionsPerTag = float64(res.TagMentions) / float64(res.UniqueTags)
	}
	res.TopTags = res.Tags[:min(opts.TopTags, len(res.Tags))]
	res.Diversity = DiversityIndex(counts)
	res.TagMatrix = tagMatrix(programs, activities, recordTags, tags, res.Tags, opts.TagMatrixSize)

	res.Density, res.MeanDensity = density(subjects, subjectTags)

	return res
}

// programOrder lists declared programs first, then programs as they
// appear in activities.
func programOrder(declared []string, activities []curriculum.Activity) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range declared {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, a := range activities {
		if !seen[a.Program] {
			seen[a.Program] = true
			out = append(out, a.Program)
		}
	}
	return out
}

func fieldResults(m *matcher.Matcher, a curriculum.Activity) map[string]map[string]matcher.Result {
	return map[string]map[string]matcher.Result{
		FieldOutcome:   m.MatchNormalized(textnorm.Normalize(a.Outcome)),
		FieldCores:     m.MatchNormalized(textnorm.Normalize(a.ThematicCores)),
		FieldIndicator: m.MatchNormalized(textnorm.Normalize(a.Indicator)),
		FieldSubject:   m.MatchNormalized(textnorm.Normalize(a.Subject)),
	}
}

// foundIn lists the fields where theme matched on its own. A keyword that
// only matches across a field boundary yields no field.
func foundIn(fields map[string]map[string]matcher.Result, theme string) []string {
	var out []string
	for _, f := range []string{FieldOutcome, FieldCores, FieldIndicator, FieldSubject} {
		if fields[f][theme].Present {
			out = append(out, f)
		}
	}
	return out
}

func tagMatrix(programs []string, activities []curriculum.Activity, recordTags [][]string,
	tags *tagCounter, sorted []TagCount, size int) *Matrix {
	n := min(size, len(sorted))
	keys := make([]string, n)
	labels := make([]string, n)
	col := make(map[string]int, n)
	for i := 0; i < n; i++ {
		keys[i] = textnorm.Normalize(sorted[i].Tag)
		labels[i] = tags.display[keys[i]]
		col[keys[i]] = i
	}

	m := newMatrix(programs, labels)
	for i, a := range activities {
		p := indexOf(programs, a.Program)
		for _, key := range recordTags[i] {
			if c, ok := col[key]; ok {
				m.add(p, c, 1)
			}
		}
	}
	return m
}

func density(subjects []string, counts map[string]int) ([]SubjectDensity, float64) {
	out := make([]SubjectDensity, len(subjects))
	total := 0
	for i, s := range subjects {
		out[i] = SubjectDensity{Subject: s, Tags: counts[s]}
		total += counts[s]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tags > out[j].Tags })

	if len(out) == 0 {
		return out, 0
	}
	return out, float64(total) / float64(len(out))
}

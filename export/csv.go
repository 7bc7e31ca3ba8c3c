package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/curriculens/analysis"
	"github.com/c360studio/curriculens/coverage"
	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/quality"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\xef\xbb\xbf"

// Table is a CSV-ready table.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables flattens r into the tables the CSV export writes.
func Tables(r *analysis.Result) []Table {
	tables := []Table{themeTable(r), qualityTable(r), validationTable(r), microTable(r), warningTable(r)}
	if r.Coverage != nil {
		tables = append(tables,
			matrixTable("theme_matrix", "program", r.Coverage.Matrix),
			matrixTable("tag_matrix", "program", r.Coverage.TagMatrix),
			tagTable(r.Coverage.Tags),
			detectionTable(r.Coverage.Detections),
		)
	}
	return tables
}

func f1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func themeTable(r *analysis.Result) Table {
	t := Table{Name: "themes", Header: []string{"theme", "label", "mentions", "programs", "program_percentage"}}
	if r.Coverage == nil {
		return t
	}
	for _, th := range r.Coverage.Themes {
		t.Rows = append(t.Rows, []string{th.Theme, th.Label, strconv.Itoa(th.Mentions), strconv.Itoa(th.Programs), f1(th.Percentage)})
	}
	return t
}

func qualityTable(r *analysis.Result) Table {
	t := Table{Name: "quality", Header: []string{
		"program", "score", "completeness", "complexity", "balance", "methodology", "coverage",
		"balanced", "coherence_rate", "credits", "activities",
	}}
	for _, p := range r.Programs {
		q := p.Quality
		if q == nil {
			continue
		}
		t.Rows = append(t.Rows, []string{
			p.Program, f1(q.Score),
			f1(q.Components.Completeness), f1(q.Components.Complexity), f1(q.Components.Balance),
			f1(q.Components.Methodology), f1(q.Components.Coverage),
			strconv.FormatBool(q.Balance.Balanced), f1(q.Coherence.Rate),
			f1(p.Workload.Credits), strconv.Itoa(p.Workload.Activities),
		})
	}
	return t
}

func validationTable(r *analysis.Result) Table {
	t := Table{Name: "validation", Header: []string{
		"program", "score", "competencies", "valid_competencies", "competency_score",
		"outcomes", "measurable_outcomes", "coherent_outcomes", "outcome_score", "issues",
	}}
	for _, p := range r.Programs {
		if p.Quality == nil {
			continue
		}
		v := p.Quality.Validation
		t.Rows = append(t.Rows, []string{
			p.Program, f1(v.Score),
			strconv.Itoa(v.Competencies), strconv.Itoa(v.ValidCompetencies), f1(v.CompetencyScore),
			strconv.Itoa(v.Outcomes), strconv.Itoa(v.MeasurableOutcomes), strconv.Itoa(v.CoherentOutcomes),
			f1(v.OutcomeScore), issueSummary(v.Issues),
		})
	}
	return t
}

// issueSummary renders issue counts as "too_short=2; no_purpose=1" in a
// stable order.
func issueSummary(issues map[quality.Issue]int) string {
	keys := make([]string, 0, len(issues))
	for i := range issues {
		keys = append(keys, string(i))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Itoa(issues[quality.Issue(k)]))
	}
	return strings.Join(parts, "; ")
}

func microTable(r *analysis.Result) Table {
	t := Table{Name: "micro", Header: []string{"program", "dimension", "label", "count", "percentage"}}
	for _, p := range r.Programs {
		for _, dim := range []struct {
			name   string
			shares []curriculum.Share
		}{
			{"typology", p.Micro.Typology},
			{"component", p.Micro.Components},
			{"learning_activity", p.Micro.Methods},
		} {
			for _, s := range dim.shares {
				t.Rows = append(t.Rows, []string{p.Program, dim.name, s.Label, strconv.Itoa(s.Count), f1(s.Percentage)})
			}
		}
	}
	return t
}

func warningTable(r *analysis.Result) Table {
	t := Table{Name: "warnings", Header: []string{"program", "sheet", "row", "field", "message"}}
	for _, w := range r.Warnings {
		row := ""
		if w.Row > 0 {
			row = strconv.Itoa(w.Row)
		}
		t.Rows = append(t.Rows, []string{w.Program, w.Sheet, row, w.Field, w.Message})
	}
	return t
}

func matrixTable(name, corner string, m *coverage.Matrix) Table {
	t := Table{Name: name, Header: []string{corner}}
	if m == nil {
		return t
	}
	t.Header = append(t.Header, m.Columns...)
	for i, p := range m.Programs {
		row := []string{p}
		for _, n := range m.Counts[i] {
			row = append(row, strconv.Itoa(n))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func tagTable(tags []coverage.TagCount) Table {
	t := Table{Name: "tags", Header: []string{"tag", "count"}}
	for _, tc := range tags {
		t.Rows = append(t.Rows, []string{tc.Tag, strconv.Itoa(tc.Count)})
	}
	return t
}

func detectionTable(ds []coverage.Detection) Table {
	t := Table{Name: "detections", Header: []string{"program", "subject", "theme", "count", "forms", "fields", "context"}}
	for _, d := range ds {
		t.Rows = append(t.Rows, []string{
			d.Program, d.Subject, d.Theme, strconv.Itoa(d.Count),
			strings.Join(d.Forms, "; "), strings.Join(d.Fields, "; "), d.Context,
		})
	}
	return t
}

// WriteCSV writes one table with a UTF-8 byte order mark.
func WriteCSV(w io.Writer, t Table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeCSVFiles(dir string, r *analysis.Result) ([]string, error) {
	var written []string
	for _, t := range Tables(r) {
		path := filepath.Join(dir, BaseName+"-"+t.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		if err := WriteCSV(f, t); err != nil {
			f.Close()
			return written, err
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

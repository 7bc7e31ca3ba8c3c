package export

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/c360studio/curriculens/analysis"
	"github.com/c360studio/curriculens/coverage"
)

// ReportTitle is the title of the HTML and Markdown reports.
const ReportTitle = "Curriculum analysis report"

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"f1":      func(v float64) string { return f1(v) },
	"rfc3339": func(t time.Time) string { return t.Format(time.RFC3339) },
	"cell":    func(m *coverage.Matrix, row, col int) int { return m.Counts[row][col] },
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{with .Result}}
<h2>Summary</h2>
<ul>
<li>Run: {{.RunID}} ({{rfc3339 .StartedAt}})</li>
<li>Programs: {{len .Programs}}</li>
<li>Records: {{.Records}}</li>
{{with .Coverage}}<li>Themes present: {{len .Present}}, gaps: {{len .Gaps}}</li>
<li>Tag diversity: {{if .Diversity.Computed}}{{f1 .Diversity.Index}}{{else}}not computed ({{.Diversity.Reason}}){{end}}</li>{{end}}
</ul>
{{with .Coverage}}
<h2>Theme coverage</h2>
<table>
<thead><tr><th>Theme</th><th>Label</th><th>Mentions</th><th>Programs</th><th>% programs</th></tr></thead>
<tbody>
{{range .Themes}}<tr><td>{{.Theme}}</td><td>{{.Label}}</td><td>{{.Mentions}}</td><td>{{.Programs}}</td><td>{{f1 .Percentage}}</td></tr>
{{end}}</tbody>
</table>
{{if .Gaps}}<p>Themes with no mentions: {{range $i, $g := .Gaps}}{{if $i}}, {{end}}{{$g}}{{end}}</p>{{end}}
{{with $m := .Matrix}}{{if $m.Programs}}
<h2>Program × theme matrix</h2>
<table>
<thead><tr><th>Program</th>{{range $m.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range $i, $p := $m.Programs}}<tr><td>{{$p}}</td>{{range $j, $c := $m.Columns}}<td>{{cell $m $i $j}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}{{end}}
{{if .TopTags}}
<h2>Top tags</h2>
<table>
<thead><tr><th>Tag</th><th>Count</th></tr></thead>
<tbody>
{{range .TopTags}}<tr><td>{{.Tag}}</td><td>{{.Count}}</td></tr>
{{end}}</tbody>
</table>
{{end}}
{{end}}
{{if .Programs}}
<h2>Quality</h2>
<table>
<thead><tr><th>Program</th><th>Score</th><th>Completeness</th><th>Complexity</th><th>Balance</th><th>Methodology</th><th>Coverage</th><th>Coherence</th></tr></thead>
<tbody>
{{range .Programs}}{{with .Quality}}<tr><td>{{.Program}}</td><td>{{f1 .Score}}</td><td>{{f1 .Components.Completeness}}</td><td>{{f1 .Components.Complexity}}</td><td>{{f1 .Components.Balance}}</td><td>{{f1 .Components.Methodology}}</td><td>{{f1 .Components.Coverage}}</td><td>{{f1 .Coherence.Rate}}</td></tr>
{{end}}{{end}}</tbody>
</table>
<h2>Drafting review</h2>
<table>
<thead><tr><th>Program</th><th>Score</th><th>Valid competencies</th><th>Measurable outcomes</th><th>Coherent outcomes</th></tr></thead>
<tbody>
{{range .Programs}}{{$p := .Program}}{{with .Quality}}{{with .Validation}}<tr><td>{{$p}}</td><td>{{f1 .Score}}</td><td>{{.ValidCompetencies}}/{{.Competencies}}</td><td>{{.MeasurableOutcomes}}/{{.Outcomes}}</td><td>{{.CoherentOutcomes}}/{{.Outcomes}}</td></tr>
{{end}}{{end}}{{end}}</tbody>
</table>
<h2>Micro strategies</h2>
<table>
<thead><tr><th>Program</th><th>Dimension</th><th>Label</th><th>Count</th><th>Share</th></tr></thead>
<tbody>
{{range .Programs}}{{$p := .Program}}{{range .Micro.Typology}}<tr><td>{{$p}}</td><td>Typology</td><td>{{.Label}}</td><td>{{.Count}}</td><td>{{f1 .Percentage}}</td></tr>
{{end}}{{range .Micro.Components}}<tr><td>{{$p}}</td><td>Component</td><td>{{.Label}}</td><td>{{.Count}}</td><td>{{f1 .Percentage}}</td></tr>
{{end}}{{range .Micro.Methods}}<tr><td>{{$p}}</td><td>Learning activity</td><td>{{.Label}}</td><td>{{.Count}}</td><td>{{f1 .Percentage}}</td></tr>
{{end}}{{end}}</tbody>
</table>
{{end}}
{{with .TextMining}}
<h2>Text mining</h2>
{{if .Global.Computed}}
<h3>Top terms</h3>
<table>
<thead><tr><th>Term</th><th>TF-IDF</th></tr></thead>
<tbody>
{{range .Global.Terms}}<tr><td>{{.Term}}</td><td>{{printf "%.3f" .Score}}</td></tr>
{{end}}</tbody>
</table>
{{else}}<p>Top terms not computed: {{.Global.Reason}}</p>{{end}}
{{if .Similarity.Computed}}<p>Most similar subjects: {{.Similarity.Top.A}} and {{.Similarity.Top.B}} ({{printf "%.3f" .Similarity.Top.Score}})</p>
{{else}}<p>Subject similarity not computed: {{.Similarity.Reason}}</p>{{end}}
{{if .NGrams.Computed}}
<h3>Frequent n-grams</h3>
<table>
<thead><tr><th>N-gram</th><th>Count</th></tr></thead>
<tbody>
{{range .NGrams.NGrams}}<tr><td>{{.Text}}</td><td>{{.Count}}</td></tr>
{{end}}</tbody>
</table>
{{end}}
{{end}}
{{if .Warnings}}
<h2>Warnings</h2>
<ul>
{{range .Warnings}}<li>{{.String}}</li>
{{end}}</ul>
{{end}}
{{end}}
</body>
</html>
`))

type reportData struct {
	Title  string
	Result *analysis.Result
}

// WriteHTML renders r as a standalone HTML page.
func WriteHTML(w io.Writer, r *analysis.Result) error {
	return reportTemplate.Execute(w, reportData{Title: ReportTitle, Result: r})
}

func renderHTML(r *analysis.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHTMLFile(dir string, r *analysis.Result) ([]string, error) {
	data, err := renderHTML(r)
	if err != nil {
		return nil, err
	}
	path := reportPath(dir, ".html")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

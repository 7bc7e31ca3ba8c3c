package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/matcher"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/textnorm"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"separators", "Costos, Presupuesto;Auditoría\nFinanzas", []string{"Costos", "Presupuesto", "Auditoría", "Finanzas"}},
		{"enumeration", "1. Costos\n2) Presupuesto\na. Ética profesional\n- Balance\n• Riesgos\n1.2 Subtema", []string{"Costos", "Presupuesto", "Ética profesional", "Balance", "Riesgos", "Subtema"}},
		{"short fragments dropped", "IA, ODS, 1. TIC, ética", []string{"ética"}},
		{"repeated separators", ",,;\n\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.raw))
		})
	}
}

func TestDiversityIndex(t *testing.T) {
	tests := []struct {
		name     string
		counts   []int
		computed bool
		index    float64
	}{
		{"none", nil, false, 0},
		{"single", []int{7}, false, 0},
		{"zeros ignored", []int{3, 0}, false, 0},
		{"even", []int{4, 4, 4, 4}, true, 100},
		{"two even", []int{1, 1}, true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DiversityIndex(tt.counts)
			assert.Equal(t, tt.computed, d.Computed)
			assert.Equal(t, tt.index, d.Index)
		})
	}

	skewed := DiversityIndex([]int{10, 1, 1})
	assert.True(t, skewed.Computed)
	assert.Greater(t, skewed.Index, 0.0)
	assert.Less(t, skewed.Index, 100.0)

	nearly := DiversityIndex([]int{1000000, 1000001})
	assert.Less(t, nearly.Index, 100.0, "only exactly equal frequencies reach 100")
}

func TestDiversityIndex_Bounds(t *testing.T) {
	inputs := [][]int{{1, 2}, {1, 2, 3, 4, 5}, {100, 1}, {5, 5, 6}, {1, 1, 1, 97}}
	for _, counts := range inputs {
		d := DiversityIndex(counts)
		assert.GreaterOrEqual(t, d.Index, 0.0)
		assert.LessOrEqual(t, d.Index, 100.0)
	}
}

func activity(program, subject, outcome, cores string) curriculum.Activity {
	return curriculum.Activity{
		Program:       program,
		Subject:       subject,
		KnowledgeType: curriculum.Theory,
		Outcome:       outcome,
		ThematicCores: cores,
	}
}

func TestAggregate_TwoProgramScenario(t *testing.T) {
	dict := taxonomy.DefaultDictionary()
	acts := []curriculum.Activity{
		activity("Ingenieria", "Proyectos", "Analizar el impacto ambiental y la sostenibilidad en proyectos", ""),
		activity("Historia", "Archivo", "Describir fuentes primarias del siglo XIX", ""),
	}

	res := Aggregate(acts, dict, Options{})

	assert.GreaterOrEqual(t, res.Matrix.Get("Ingenieria", "SOSTENIBILIDAD"), 1)
	assert.Equal(t, 0, res.Matrix.Get("Historia", "SOSTENIBILIDAD"))
	assert.NotContains(t, res.Gaps, "SOSTENIBILIDAD")
	assert.Contains(t, res.Present, "SOSTENIBILIDAD")
	assert.Contains(t, res.Gaps, "INTELIGENCIA_ARTIFICIAL")
	assert.Contains(t, res.Gaps, "GESTION_CAMBIO")

	for _, tt := range res.Themes {
		if tt.Theme == "SOSTENIBILIDAD" {
			assert.Equal(t, 1, tt.Programs)
			assert.Equal(t, 50.0, tt.Percentage)
		}
	}
}

func TestAggregate_RowSumsEqualRecordCounts(t *testing.T) {
	dict := taxonomy.DefaultDictionary()
	acts := []curriculum.Activity{
		activity("A", "S1", "Economía circular y liderazgo ético", "Sostenibilidad; Ética"),
		activity("A", "S2", "Uso de inteligencia artificial y big data", "Innovación"),
		activity("B", "S3", "", ""),
		activity("B", "S3", "Calidad y mejora continua", "Procesos, Normas ISO"),
	}

	res := Aggregate(acts, dict, Options{})
	m := matcher.New(dict, matcher.Options{})

	want := map[string]int{}
	for _, a := range acts {
		for _, r := range m.MatchNormalized(textnorm.Normalize(a.AnalyzableText())) {
			want[a.Program] += r.Count
		}
	}
	for _, p := range []string{"A", "B"} {
		assert.Equal(t, want[p], res.Matrix.RowSum(p), p)
	}
	for _, row := range res.Matrix.Counts {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0)
		}
	}
	assert.Equal(t, 4, res.Records, "records without text are still counted")
}

func TestAggregate_DeclaredProgramWithoutRecords(t *testing.T) {
	dict := taxonomy.DefaultDictionary()
	acts := []curriculum.Activity{activity("A", "S", "sostenibilidad", "")}

	res := Aggregate(acts, dict, Options{Programs: []string{"Vacio", "A"}})

	require.Equal(t, []string{"Vacio", "A"}, res.Matrix.Programs)
	assert.Equal(t, 0, res.Matrix.RowSum("Vacio"))
	assert.Len(t, res.Matrix.Counts[0], dict.Len())
}

func TestAggregate_EmptyCorpus(t *testing.T) {
	dict := taxonomy.DefaultDictionary()
	res := Aggregate(nil, dict, Options{})

	assert.Empty(t, res.Matrix.Programs)
	assert.Len(t, res.Gaps, dict.Len())
	assert.False(t, res.Diversity.Computed)
	assert.Empty(t, res.Tags)
	assert.Zero(t, res.MeanDensity)
}

func TestAggregate_TagsAndDensity(t *testing.T) {
	dict := taxonomy.DefaultDictionary()
	acts := []curriculum.Activity{
		activity("A", "Contabilidad", "", "1. Costos; 2. Presupuesto"),
		activity("A", "Contabilidad", "", "costos\nAuditoría"),
		activity("B", "Finanzas", "", "Riesgos"),
		activity("B", "", "", "Riesgos, IA"),
	}

	res := Aggregate(acts, dict, Options{TopTags: 2, TagMatrixSize: 1})

	require.Len(t, res.Tags, 4)
	assert.Equal(t, TagCount{Tag: "Costos", Count: 2}, res.Tags[0], "case and accents fold into one tag")
	assert.Equal(t, TagCount{Tag: "Riesgos", Count: 2}, res.Tags[1])
	assert.Len(t, res.TopTags, 2)
	assert.Equal(t, 4, res.UniqueTags)
	assert.Equal(t, 6, res.TagMentions)
	assert.InDelta(t, 1.5, res.MeanMentionsPerTag, 1e-9)
	assert.True(t, res.Diversity.Computed)

	require.Equal(t, []string{"Costos"}, res.TagMatrix.Columns)
	assert.Equal(t, 2, res.TagMatrix.Get("A", "Costos"))
	assert.Equal(t, 0, res.TagMatrix.Get("B", "Costos"))

	require.Len(t, res.Density, 2)
	assert.Equal(t, SubjectDensity{Subject: "Contabilidad", Tags: 4}, res.Density[0])
	assert.Equal(t, SubjectDensity{Subject: "Finanzas", Tags: 1}, res.Density[1])
	assert.InDelta(t, 2.5, res.MeanDensity, 1e-9)
}

func TestAggregate_Detections(t *testing.T) {
	dict := taxonomy.DefaultDictionary()
	acts := []curriculum.Activity{{
		Program:       "A",
		Subject:       "Gestión ambiental",
		Outcome:       "Formular proyectos sostenibles",
		ThematicCores: "Economía circular",
		Indicator:     "Presenta un informe",
	}}

	res := Aggregate(acts, dict, Options{ContextWindow: 10})

	var found *Detection
	for i := range res.Detections {
		if res.Detections[i].Theme == "SOSTENIBILIDAD" {
			found = &res.Detections[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Gestión ambiental", found.Subject)
	assert.Equal(t, []string{FieldOutcome, FieldCores, FieldSubject}, found.Fields)
	assert.Equal(t, []string{"ambiental", "economia circular", "sostenibles"}, found.Forms)
	assert.NotEmpty(t, found.Context)
}

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/taxonomy"
)

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr error
	}{
		{"default", DefaultWeights(), nil},
		{"exact", Weights{0.2, 0.2, 0.2, 0.2, 0.2}, nil},
		{"sum 0.995", Weights{0.2, 0.2, 0.2, 0.2, 0.195}, nil},
		{"sum 1.005", Weights{0.2, 0.2, 0.2, 0.2, 0.205}, nil},
		{"sum 1.01 boundary", Weights{0.2, 0.2, 0.2, 0.2, 0.21}, nil},
		{"sum 0.95", Weights{0.2, 0.2, 0.2, 0.2, 0.15}, ErrWeightsSum},
		{"sum 1.05", Weights{0.2, 0.2, 0.2, 0.2, 0.25}, ErrWeightsSum},
		{"negative", Weights{0.5, 0.5, 0.2, 0.0, -0.2}, ErrNegativeWeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.NoError(t, DefaultCompletenessWeights().Validate())
	assert.ErrorIs(t, CompletenessWeights{0.5, 0.5, 0.5, 0}.Validate(), ErrWeightsSum)
}

func TestBalanceFromPercentages(t *testing.T) {
	assert.True(t, BalanceFromPercentages(33.3, 33.3, 33.4).Balanced)
	assert.False(t, BalanceFromPercentages(80, 10, 10).Balanced)

	b := BalanceFromPercentages(80, 10, 10)
	assert.InDelta(t, 33.0, b.Deviation, 0.05)
}

func outcome(k curriculum.KnowledgeType, verb, domain, ref string) curriculum.LearningOutcome {
	return curriculum.LearningOutcome{KnowledgeType: k, Verb: verb, DomainLevel: domain, CompetencyRef: ref}
}

func TestBalanceOf(t *testing.T) {
	outs := []curriculum.LearningOutcome{
		outcome(curriculum.Theory, "", "", ""),
		outcome(curriculum.Theory, "", "", ""),
		outcome(curriculum.TheoryPractice, "", "", ""),
		outcome(curriculum.Disposition, "", "", ""),
		outcome(curriculum.KnowledgeUnknown, "", "", ""),
	}

	b := BalanceOf(outs)
	assert.Equal(t, 50.0, b.Theory)
	assert.Equal(t, 25.0, b.TheoryPractice)
	assert.Equal(t, 25.0, b.Disposition)
	assert.Equal(t, 4, b.Counted)
	assert.Equal(t, 1, b.Excluded)
	assert.InDelta(t, 11.8, b.Deviation, 1e-9)
	assert.False(t, b.Balanced)

	empty := BalanceOf(nil)
	assert.True(t, empty.Balanced)
	assert.Zero(t, empty.Deviation)
}

func TestComplexityOf(t *testing.T) {
	tax := taxonomy.DefaultCognitiveTaxonomy()
	rules := taxonomy.DefaultDomainRules()

	outs := []curriculum.LearningOutcome{
		outcome(curriculum.Theory, "definir", "", ""),
		outcome(curriculum.Theory, "aplicar", "", ""),
		outcome(curriculum.Theory, "evaluar", "Comprender", ""),
		outcome(curriculum.Theory, "idear", "Diseñar soluciones", ""),
	}

	c := ComplexityOf(outs, tax, rules)
	assert.Equal(t, 25.0, c.Basic)
	assert.Equal(t, 25.0, c.Intermediate)
	assert.Equal(t, 50.0, c.Advanced)
	assert.Equal(t, 3.8, c.MeanLevel)
	assert.Equal(t, 56.0, c.Index)
	assert.Equal(t, [6]int{1, 0, 1, 0, 1, 1}, c.Levels)

	assert.Equal(t, Complexity{}, ComplexityOf(nil, tax, rules))
}

func TestCompetencyCoverageOf(t *testing.T) {
	comps := []curriculum.Competency{
		{ID: "1", Text: "Gestionar organizaciones"},
		{ID: "2", Text: "Liderar equipos"},
		{ID: "3", Text: "Evaluar proyectos"},
	}
	outs := []curriculum.LearningOutcome{
		outcome(curriculum.Theory, "", "", "1"),
		outcome(curriculum.Theory, "", "", "1. Gestionar organizaciones"),
		outcome(curriculum.Theory, "", "", "liderar equipos"),
		outcome(curriculum.Theory, "", "", "Otra cosa"),
	}

	cov := CompetencyCoverageOf(comps, outs)
	assert.Equal(t, 3, cov.Total)
	assert.Equal(t, 2, cov.Covered)
	assert.Equal(t, 66.7, cov.Percentage)
	assert.Equal(t, 1.5, cov.MeanOutcomes)
	assert.Equal(t, 1, cov.Unmatched)

	none := CompetencyCoverageOf(comps, nil)
	assert.Equal(t, 3, none.Total)
	assert.Zero(t, none.Percentage)
}

func TestMethodologyOf(t *testing.T) {
	labels := []string{"ABP", "abp", "Clase magistral", "Estudio de caso", "", "Simulación", "Lectura dirigida"}

	m := MethodologyOf(labels, taxonomy.DefaultActiveMethodologies())
	assert.Equal(t, 6, m.Labels)
	assert.Equal(t, 5, m.Distinct)
	require.NotEmpty(t, m.Top)
	assert.Equal(t, LabelCount{Label: "ABP", Count: 2}, m.Top[0])
	assert.Len(t, m.Top, 5)
	assert.Equal(t, 66.7, m.ActivePercentage)

	assert.Equal(t, Methodology{}, MethodologyOf(nil, nil))
}

func TestCompletenessOf(t *testing.T) {
	tables := curriculum.Tables{
		Competencies: curriculum.NewTable("c", 1, []string{"a", "b"}, [][]string{{"x", "y"}}),
		Outcomes:     curriculum.NewTable("o", 1, []string{"a", "b"}, [][]string{{"x", ""}}),
	}

	c := CompletenessOf(tables, DefaultCompletenessWeights())
	assert.Equal(t, 100.0, c.Competencies)
	assert.Equal(t, 50.0, c.Outcomes)
	assert.Zero(t, c.MesoStrategies)
	assert.Equal(t, 50.0, c.Total)
}

func TestCheckVerbCoherence(t *testing.T) {
	tax := taxonomy.DefaultCognitiveTaxonomy()
	rules := taxonomy.DefaultDomainRules()

	ok := CheckVerbCoherence(tax, rules, "Analizar", "Análisis")
	assert.True(t, ok.Coherent)

	bad := CheckVerbCoherence(tax, rules, "definir", "Evaluación")
	assert.False(t, bad.Coherent)
	assert.Equal(t, taxonomy.LevelRecall, bad.Expected)
	assert.Equal(t, taxonomy.LevelEvaluate, bad.Declared)
	assert.Contains(t, bad.Message, "declared as Evaluate")

	recall := CheckVerbCoherence(tax, rules, "listar", "Recordar")
	assert.True(t, recall.Coherent)

	unknown := CheckVerbCoherence(tax, rules, "cocinar", "Aplicación")
	assert.False(t, unknown.Coherent)
	assert.Zero(t, unknown.Expected)
}

func sampleProgram() *curriculum.Program {
	comps := curriculum.NewTable(curriculum.SheetCompetencies, 2,
		[]string{curriculum.ColCompetencyID, curriculum.ColCompetencyText},
		[][]string{{"1", "Gestionar organizaciones sostenibles"}, {"2", "Liderar equipos"}})
	outs := curriculum.NewTable(curriculum.SheetOutcomes, 1,
		[]string{curriculum.ColOutcomeCompetency, curriculum.ColOutcomeKnowledgeType, curriculum.ColOutcomeVerb,
			curriculum.ColOutcomeDomainLevel, curriculum.ColOutcomeText},
		[][]string{
			{"1", "Saber", "Analizar", "Análisis", "Analizar el impacto ambiental"},
			{"1", "SaberHacer", "Diseñar", "Creación", "Diseñar planes"},
			{"2", "SaberSer", "Evaluar", "Evaluación", "Evaluar el liderazgo"},
		})
	micro := curriculum.NewTable(curriculum.SheetMicroStrategies, 1,
		[]string{curriculum.ColSubject, curriculum.ColKnowledgeType, curriculum.ColStrategy},
		[][]string{{"Gestión", "Saber", "ABP"}, {"Gestión", "SaberHacer", "Taller"}})

	return curriculum.NewProgram("Admin", "", curriculum.Tables{
		Competencies: comps, Outcomes: outs, MicroStrategies: micro,
	}, nil)
}

func TestScore(t *testing.T) {
	r, err := Score(sampleProgram(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Admin", r.Program)
	assert.True(t, r.Balance.Balanced)
	assert.Equal(t, 100.0, r.Coverage.Percentage)
	assert.Equal(t, 2, r.Methodology.Distinct)
	assert.Equal(t, 100.0, r.Methodology.ActivePercentage)
	assert.Equal(t, 100.0, r.Coherence.Rate)

	assert.Equal(t, 16.0, r.Components.Methodology)
	assert.Equal(t, BalanceScore(r.Balance), r.Components.Balance)
	assert.Equal(t, Composite(r.Components, DefaultWeights()), r.Score)
	assert.GreaterOrEqual(t, r.Score, 0.0)
	assert.LessOrEqual(t, r.Score, 100.0)
	assert.Equal(t, 3, r.Summary.Outcomes)

	// Short competencies without taxonomy verbs; short but coherent outcomes.
	assert.Zero(t, r.Validation.ValidCompetencies)
	assert.Equal(t, 3, r.Validation.CoherentOutcomes)
	assert.Zero(t, r.Validation.MeasurableOutcomes)
	assert.Equal(t, 50.0, r.Validation.OutcomeScore)
	assert.Equal(t, 25.0, r.Validation.Score)
}

func TestScore_EmptyProgram(t *testing.T) {
	p := curriculum.NewProgram("Vacio", "", curriculum.Tables{}, nil)

	r, err := Score(p, DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, r.Completeness.Total)
	assert.Zero(t, r.Complexity.Index)
	assert.Zero(t, r.Coverage.Percentage)
	assert.Equal(t, 100.0, r.Components.Balance)
	assert.Equal(t, 15.0, r.Score)
}

func TestScore_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Weights.Coverage = 0.5
	_, err := Score(sampleProgram(), opts)
	assert.ErrorIs(t, err, ErrWeightsSum)

	opts = DefaultOptions()
	opts.Taxonomy = nil
	_, err = Score(sampleProgram(), opts)
	assert.ErrorIs(t, err, ErrNilTaxonomy)
}

func TestComposite(t *testing.T) {
	c := Components{Completeness: 100, Complexity: 100, Balance: 100, Methodology: 100, Coverage: 100}
	assert.Equal(t, 100.0, Composite(c, DefaultWeights()))

	assert.Equal(t, 0.0, BalanceScore(Balance{Deviation: 40}))
	assert.Equal(t, 100.0, MethodologyScore(Methodology{Distinct: 20}))
}

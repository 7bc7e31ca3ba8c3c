package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/taxonomy"
)

func TestValidateCompetency(t *testing.T) {
	tax := taxonomy.DefaultCognitiveTaxonomy()

	tests := []struct {
		name      string
		text      string
		valid     bool
		issues    []Issue
		purpose   bool
		condition bool
	}{
		{
			name:      "complete",
			text:      "Analizar estados financieros para tomar decisiones empresariales considerando el contexto económico",
			valid:     true,
			purpose:   true,
			condition: true,
		},
		{
			name:    "purpose phrase",
			text:    "Diseñar planes de mercadeo con el fin de crecer",
			valid:   true,
			purpose: true,
		},
		{
			name:    "no taxonomy verb is one allowed issue",
			text:    "Gestionar estados financieros para tomar decisiones",
			valid:   true,
			issues:  []Issue{IssueNoVerb},
			purpose: true,
		},
		{
			name:   "no purpose is one allowed issue",
			text:   "Evaluar proyectos de inversión en empresas",
			valid:  true,
			issues: []Issue{IssueNoPurpose},
		},
		{
			name:   "purpose must be a whole word",
			text:   "Analizar cómo separar residuos en la planta",
			valid:  true,
			issues: []Issue{IssueNoPurpose},
		},
		{
			name:   "too short and no purpose",
			text:   "Analizar estados financieros",
			issues: []Issue{IssueTooShort, IssueNoPurpose},
		},
		{
			name:    "too long without verb",
			text:    "Revisar " + strings.Repeat("datos ", 48) + "para decidir",
			issues:  []Issue{IssueNoVerb, IssueTooLong},
			purpose: true,
		},
		{
			name:   "empty",
			text:   "  ",
			issues: []Issue{IssueEmpty},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ValidateCompetency(tt.text, tax)
			assert.Equal(t, tt.valid, c.Valid)
			assert.Equal(t, tt.issues, c.Issues)
			assert.Equal(t, tt.purpose, c.HasPurpose)
			assert.Equal(t, tt.condition, c.HasCondition)
		})
	}
}

func TestValidateOutcome(t *testing.T) {
	tax := taxonomy.DefaultCognitiveTaxonomy()

	tests := []struct {
		name       string
		text       string
		observable bool
		measurable bool
		issues     []Issue
	}{
		{
			name:       "observable and specific",
			text:       "Analizar los estados financieros de la empresa",
			observable: true,
			measurable: true,
		},
		{
			name:   "non-observable opening verb",
			text:   "Conocer y analizar los estados financieros",
			issues: []Issue{IssueNotObservable},
		},
		{
			name:       "non-observable verb later is allowed",
			text:       "Analizar casos para luego comprender el mercado",
			observable: true,
			measurable: true,
		},
		{
			name:   "no taxonomy verb",
			text:   "Gestionar los recursos de la empresa",
			issues: []Issue{IssueNotObservable},
		},
		{
			name:       "too general",
			text:       "Analizar estados",
			observable: true,
			issues:     []Issue{IssueTooShort},
		},
		{
			name:   "empty",
			text:   "",
			issues: []Issue{IssueEmpty},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ValidateOutcome(tt.text, tax)
			assert.Equal(t, tt.observable, o.Observable)
			assert.Equal(t, tt.measurable, o.Measurable)
			assert.Equal(t, tt.issues, o.Issues)
		})
	}
}

func TestValidateProgram(t *testing.T) {
	comps := curriculum.NewTable(curriculum.SheetCompetencies, 1,
		[]string{curriculum.ColCompetencyID, curriculum.ColCompetencyText},
		[][]string{
			{"C1", "Analizar estados financieros para tomar decisiones empresariales"},
			{"C2", "Liderar equipos"},
		})
	outs := curriculum.NewTable(curriculum.SheetOutcomes, 1,
		[]string{curriculum.ColOutcomeCompetency, curriculum.ColOutcomeKnowledgeType, curriculum.ColOutcomeVerb,
			curriculum.ColOutcomeDomainLevel, curriculum.ColOutcomeText},
		[][]string{
			{"C1", "Saber", "Analizar", "Análisis", "Analizar los estados financieros de la empresa"},
			{"C2", "SaberSer", "Conocer", "Evaluación", "Conocer el liderazgo"},
		})
	p := curriculum.NewProgram("Admin", "", curriculum.Tables{Competencies: comps, Outcomes: outs}, nil)

	v := ValidateProgram(p, taxonomy.DefaultCognitiveTaxonomy(), taxonomy.DefaultDomainRules())

	assert.Equal(t, 2, v.Competencies)
	assert.Equal(t, 1, v.ValidCompetencies)
	assert.Equal(t, 50.0, v.CompetencyScore)
	assert.Equal(t, 1, v.MeasurableOutcomes)
	assert.Equal(t, 1, v.CoherentOutcomes)
	assert.Equal(t, 50.0, v.OutcomeScore)
	assert.Equal(t, 50.0, v.Score)

	require.Len(t, v.CompetencyChecks, 2)
	assert.Equal(t, "C2", v.CompetencyChecks[1].ID)
	require.Len(t, v.OutcomeChecks, 2)
	assert.False(t, v.OutcomeChecks[1].Coherence.Coherent)
	assert.Equal(t, map[Issue]int{
		IssueNoVerb:        1,
		IssueTooShort:      2,
		IssueNoPurpose:     1,
		IssueNotObservable: 1,
	}, v.Issues)

	empty := ValidateProgram(curriculum.NewProgram("Vacio", "", curriculum.Tables{}, nil),
		taxonomy.DefaultCognitiveTaxonomy(), taxonomy.DefaultDomainRules())
	assert.Zero(t, empty.Score)
	assert.Nil(t, empty.Issues)
}

func TestIssue_Text(t *testing.T) {
	for _, i := range []Issue{IssueEmpty, IssueNoVerb, IssueTooShort, IssueNoPurpose, IssueTooLong, IssueNotObservable} {
		assert.NotEqual(t, string(i), i.Message(), i)
	}
	assert.Empty(t, IssueEmpty.Suggestion())
	assert.NotEmpty(t, IssueNoPurpose.Suggestion())
}

package curriculum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnowledgeType(t *testing.T) {
	tests := []struct {
		input string
		want  KnowledgeType
	}{
		{"Saber", Theory},
		{"saber", Theory},
		{"SaberHacer", TheoryPractice},
		{"Saber Hacer", TheoryPractice},
		{"saber-hacer", TheoryPractice},
		{"Saberhacer", TheoryPractice},
		{"Teórico práctico", TheoryPractice},
		{"SaberSer", Disposition},
		{" SABER SER ", Disposition},
		{"Actitudinal", Disposition},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKnowledgeType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "Saber Convivir", "otro"} {
		_, err := ParseKnowledgeType(bad)
		assert.ErrorIs(t, err, ErrUnknownKnowledgeType, bad)
	}
}

func TestKnowledgeType_Text(t *testing.T) {
	data, err := json.Marshal(map[string]KnowledgeType{"k": TheoryPractice})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"TheoryPractice"}`, string(data))

	var back map[string]KnowledgeType
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, TheoryPractice, back["k"])

	assert.Equal(t, "SaberSer", Disposition.Label())
	assert.Equal(t, "Unknown", KnowledgeUnknown.String())
}

func TestTable(t *testing.T) {
	tbl := NewTable("sheet", 2, []string{"No.", "Redacción competencia", "Tipo"}, [][]string{
		{"1", " Gestionar recursos ", ""},
		{"", "", ""},
		{"2", "Liderar equipos"},
	})

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Gestionar recursos", tbl.Value(0, "redaccion competencia"))
	assert.Equal(t, "", tbl.Value(1, "Tipo"), "short rows are padded")
	assert.Equal(t, "", tbl.Value(0, "missing"))
	assert.Equal(t, -1, tbl.Column("missing"))
	assert.Equal(t, 4, tbl.SourceRow(1))
	assert.InDelta(t, 4.0/6.0, tbl.FillRatio(), 1e-9)

	assert.Zero(t, Table{}.FillRatio())
	assert.Zero(t, NewTable("x", 1, []string{"a"}, nil).FillRatio())
}

func microTable(rows ...[]string) Table {
	cols := []string{ColSubject, ColSemester, ColKnowledgeType, ColOutcome, ColIndicator,
		ColThematicCores, ColCredits, ColDirectHours, ColIndependentHours, ColStrategy}
	return NewTable(SheetMicroStrategies, 1, cols, rows)
}

func TestParseActivities(t *testing.T) {
	tbl := microTable(
		[]string{"Contabilidad", "1", "Saber", "Analizar estados", "Indicador", "1. Costos; 2. Balance", "3", "48", "96", "ABP"},
		[]string{"Contabilidad", "1", "", "sin tipo", "", "", "", "", "", ""},
		[]string{"Ética", "2.0", "Saber Ser", "Reflexionar", "", "", "2,5", "x", "", "Debate"},
		[]string{"Finanzas", "tercero", "Convivir", "", "", "", "", "", "", ""},
	)

	var w Warnings
	acts := ParseActivities("Admin", tbl, &w)

	require.Len(t, acts, 2)
	first := acts[0]
	assert.Equal(t, "Admin", first.Program)
	assert.Equal(t, Theory, first.KnowledgeType)
	require.NotNil(t, first.Semester)
	assert.Equal(t, 1, *first.Semester)
	require.NotNil(t, first.Credits)
	assert.Equal(t, 3.0, *first.Credits)
	assert.Equal(t, "ABP", first.Strategy)
	assert.Equal(t, "Analizar estados Indicador 1. Costos; 2. Balance Contabilidad", first.AnalyzableText())

	second := acts[1]
	assert.Equal(t, Disposition, second.KnowledgeType)
	require.NotNil(t, second.Semester)
	assert.Equal(t, 2, *second.Semester)
	require.NotNil(t, second.Credits)
	assert.Equal(t, 2.5, *second.Credits)
	assert.Nil(t, second.DirectHours)

	items := w.Items()
	require.Len(t, items, 3)
	assert.Equal(t, ColKnowledgeType, items[0].Field)
	assert.Equal(t, 3, items[0].Row)
	assert.Equal(t, ColDirectHours, items[1].Field)
	assert.Equal(t, ColKnowledgeType, items[2].Field)
	assert.Contains(t, items[2].Message, "excluded")
}

func TestParseOutcomesAndCompetencies(t *testing.T) {
	comps := NewTable(SheetCompetencies, 2,
		[]string{ColCompetencyID, ColCompetencyVerb, ColCompetencyText, ColCompetencyType},
		[][]string{
			{"C1", "Gestionar", "Gestionar organizaciones sostenibles", "Específica"},
			{"", "Liderar", "", ""},
		})
	outs := NewTable(SheetOutcomes, 1,
		[]string{ColOutcomeCompetency, ColOutcomeKnowledgeType, ColOutcomeVerb, ColOutcomeDomainLevel, ColOutcomeText},
		[][]string{
			{"C1", "Saber", "Evaluar", "Evaluación", "Evaluar el impacto"},
			{"C1", "Otro", "Crear", "", "Crear un plan"},
		})

	var w Warnings
	p := NewProgram("Admin", "FormatRA_Admin_PBOG.xlsx", Tables{Competencies: comps, Outcomes: outs}, &w)

	require.Len(t, p.Competencies, 1)
	assert.Equal(t, "C1", p.Competencies[0].ID)
	require.Len(t, p.Outcomes, 2)
	assert.Equal(t, Theory, p.Outcomes[0].KnowledgeType)
	assert.Equal(t, KnowledgeUnknown, p.Outcomes[1].KnowledgeType)
	assert.Empty(t, p.Activities)
	assert.Equal(t, 2, w.Len())
}

func TestParseNumbers(t *testing.T) {
	f, ok := ParseFloat("3,5")
	assert.True(t, ok)
	assert.Equal(t, 3.5, f)

	_, ok = ParseFloat("1,000.5")
	assert.False(t, ok)

	_, ok = ParseFloat("NaN")
	assert.False(t, ok)

	n, ok := ParseInt("4.0")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = ParseInt("4.5")
	assert.False(t, ok)

	for _, huge := range []string{"1e19", "-1e19", "9223372036854775807", "1e300"} {
		_, ok = ParseInt(huge)
		assert.False(t, ok, huge)
	}
	n, ok = ParseInt("-1000000")
	assert.True(t, ok)
	assert.Equal(t, -1000000, n)
}

func TestParseActivities_SemesterOutOfRange(t *testing.T) {
	tbl := microTable(
		[]string{"Contabilidad", "1e20", "Saber", "Analizar estados", "", "", "", "", "", ""},
	)

	var w Warnings
	acts := ParseActivities("Admin", tbl, &w)

	require.Len(t, acts, 1)
	assert.Nil(t, acts[0].Semester)
	items := w.Items()
	require.Len(t, items, 1)
	assert.Equal(t, ColSemester, items[0].Field)
	assert.Contains(t, items[0].Message, "1e20")
}

func TestWarnings_NilSafe(t *testing.T) {
	var w *Warnings
	w.Addf("p", "s", 1, "f", "msg")
	assert.Zero(t, w.Len())
	assert.Nil(t, w.Items())

	warn := Warning{Program: "Admin", Sheet: "S", Row: 4, Field: "F", Message: "bad"}
	assert.Equal(t, "Admin/S:4 [F]: bad", warn.String())
}

func TestSummarizeWorkload(t *testing.T) {
	one, two := 1, 2
	three, four := 3.0, 4.0
	h32, h64 := 32.0, 64.0

	acts := []Activity{
		{Program: "A", Subject: "Mat", Semester: &one, Credits: &three, DirectHours: &h32, IndependentHours: &h64},
		{Program: "A", Subject: "Mat", Semester: &one, Credits: &three, DirectHours: &h32},
		{Program: "A", Subject: "Fis", Semester: &two, Credits: &four},
		{Program: "B", Subject: "Otra", Credits: &four},
	}

	wl := SummarizeWorkload("A", acts)
	assert.Equal(t, 3, wl.Activities)
	assert.Equal(t, 2, wl.Subjects)
	assert.Equal(t, 7.0, wl.Credits)
	assert.Equal(t, 64.0, wl.DirectHours)
	assert.Equal(t, 1.0, wl.IndependentRatio)
	assert.Equal(t, []int{1, 2}, wl.Semesters())
	assert.Equal(t, 2, wl.BySemester[1])
}

func TestClassifyActivity(t *testing.T) {
	methods := DefaultActivityMethods()

	assert.Equal(t, []string{"Taller", "Caso de estudio", "Trabajo colaborativo"},
		ClassifyActivity("Análisis de casos en equipo durante el taller", methods))
	assert.Equal(t, []string{"Clase magistral", "Investigación"},
		ClassifyActivity("Exposición del docente e INVESTIGACIÓN dirigida", methods))
	assert.Empty(t, ClassifyActivity("Lectura individual", methods))
	assert.Empty(t, ClassifyActivity("", methods))
}

func TestSummarizeMicro(t *testing.T) {
	cols := []string{ColSubject, ColKnowledgeType, ColTypology, ColInstitutional, ColDisciplinary,
		ColElective, ColLearningActivity}
	tbl := NewTable(SheetMicroStrategies, 1, cols, [][]string{
		{"Contabilidad", "Saber", "Teórica", "", "X", "", "Taller de costos en equipo"},
		{"Contabilidad", "SaberHacer", "teorica", "", "X", "", "Estudio de caso"},
		{"Cátedra", "SaberSer", "Teórico-práctica", "1", "", "", ""},
		{"Electiva", "Saber", "", "", "", "x", "Debate y taller"},
	})

	var w Warnings
	acts := ParseActivities("Admin", tbl, &w)
	require.Len(t, acts, 4)
	assert.Equal(t, []Component{ComponentDisciplinary}, acts[0].Components)
	assert.Equal(t, "Taller de costos en equipo", acts[0].LearningActivity)

	other := Activity{Program: "Otro", Typology: "Teórica", LearningActivity: "taller"}
	mp := SummarizeMicro("Admin", append(acts, other), DefaultActivityMethods())

	assert.Equal(t, 4, mp.Activities)
	assert.Equal(t, []Share{
		{Label: "Teórica", Count: 2, Percentage: 50},
		{Label: "Teórico-práctica", Count: 1, Percentage: 25},
	}, mp.Typology)
	assert.Equal(t, []Share{
		{Label: "Institucional", Count: 1, Percentage: 25},
		{Label: "Disciplinar", Count: 2, Percentage: 50},
		{Label: "Electivo", Count: 1, Percentage: 25},
	}, mp.Components)

	assert.Equal(t, 3, mp.Described)
	assert.Equal(t, []Share{
		{Label: "Taller", Count: 2, Percentage: 66.7},
		{Label: "Caso de estudio", Count: 1, Percentage: 33.3},
		{Label: "Debate", Count: 1, Percentage: 33.3},
		{Label: "Trabajo colaborativo", Count: 1, Percentage: 33.3},
	}, mp.Methods)

	empty := SummarizeMicro("Nadie", acts, DefaultActivityMethods())
	assert.Zero(t, empty.Activities)
	assert.Len(t, empty.Components, 3)
	assert.Empty(t, empty.Methods)
}

// Package curriculum defines the typed records the analysis consumes.
//
// Loaders hand over raw sheets as Tables; the Parse functions here validate
// every row once and turn it into a typed record. Problems on a single row
// become Warnings and never abort a program.
package curriculum

import (
	"math"
	"strconv"
	"strings"
)

// Sheet names as they appear in the program workbooks.
const (
	SheetCompetencies    = "Paso 2 Redacción competen"
	SheetOutcomes        = "Paso 3 Redacción RA"
	SheetMesoStrategies  = "Paso 4 Estrategias mesocurricu"
	SheetMicroStrategies = "Paso 5 Estrategias micro"
)

// Competency sheet columns.
const (
	ColCompetencyID        = "No."
	ColCompetencyVerb      = "Verbo competencia"
	ColCompetencyObject    = "Objeto conceptual"
	ColCompetencyPurpose   = "Finalidad"
	ColCompetencyCondition = "Condición de contexto o referencia"
	ColCompetencyText      = "Redacción competencia"
	ColCompetencyType      = "Tipo de competencia"
)

// Learning outcome sheet columns.
const (
	ColOutcomeCompetency    = "Competencia por desarrollar"
	ColOutcomeNumber        = "Número de resultado"
	ColOutcomeKnowledgeType = "TipoSaber"
	ColOutcomeKnowledge     = "SaberAsociado"
	ColOutcomeTaxonomy      = "Taxonomía"
	ColOutcomeDomain        = "Dominio Asociado"
	ColOutcomeDomainLevel   = "Nivel Dominio"
	ColOutcomeVerb          = "Verbo RA"
	ColOutcomeText          = "Resultados Aprendizaje"
)

// Meso strategy sheet columns.
const (
	ColMesoOutcome     = "Resultado de aprendizaje"
	ColMesoStrategy    = "Estrategia del programa"
	ColMesoDescription = "Descripción"
	ColMesoIndicator   = "Indicador de Impacto de la Estrategia"
	ColMesoFeedback    = "Acciones de retroalimentación para los estudiantes"
	ColMesoInstruments = "Instrumentos de medición"
)

// Micro strategy (activity) sheet columns.
const (
	ColSubject          = "Nombre asignatura o módulo"
	ColSemester         = "Semestre"
	ColKnowledgeType    = "Tipo de Saber"
	ColOutcome          = "Resultado de aprendizaje"
	ColIndicator        = "Indicadores de logro asignatura o módulo"
	ColThematicCores    = "Núcleos temáticos"
	ColCredits          = "Créditos"
	ColDirectHours      = "Número de horas trabajo directo"
	ColIndependentHours = "Número de horas trabajo independiente"
	ColStrategy         = "Estrategias de enseñanza aprendizaje"
	ColLearningActivity = "Actividades de aprendizaje"
	ColTypology         = "Tipología"
	ColInstitutional    = "B.Institucional"
	ColDisciplinary     = "B.Disciplinar"
	ColElective         = "B.Electivo"
)

// ExpectedColumns lists, per sheet, the headers used to locate the header
// row of a sheet.
var ExpectedColumns = map[string][]string{
	SheetCompetencies: {
		ColCompetencyID, ColCompetencyVerb, ColCompetencyObject, ColCompetencyPurpose,
		ColCompetencyCondition, ColCompetencyText, ColCompetencyType,
	},
	SheetOutcomes: {
		ColOutcomeCompetency, ColOutcomeNumber, ColOutcomeKnowledgeType, ColOutcomeKnowledge,
		ColOutcomeTaxonomy, ColOutcomeDomain, ColOutcomeDomainLevel, ColOutcomeVerb, ColOutcomeText,
	},
	SheetMesoStrategies: {
		ColMesoOutcome, ColMesoStrategy, ColMesoDescription, ColMesoIndicator,
		ColMesoFeedback, ColMesoInstruments,
	},
	SheetMicroStrategies: {
		ColSubject, ColSemester, ColKnowledgeType, ColOutcome, ColIndicator, ColThematicCores,
		ColCredits, ColDirectHours, ColIndependentHours, ColStrategy,
	},
}

// Activity is one consolidated row of a program's micro strategy sheet.
type Activity struct {
	Program          string        `json:"program"`
	Subject          string        `json:"subject"`
	Semester         *int          `json:"semester,omitempty"`
	KnowledgeType    KnowledgeType `json:"knowledge_type"`
	Outcome          string        `json:"outcome"`
	Indicator        string        `json:"indicator"`
	ThematicCores    string        `json:"thematic_cores"`
	Credits          *float64      `json:"credits,omitempty"`
	DirectHours      *float64      `json:"direct_hours,omitempty"`
	IndependentHours *float64      `json:"independent_hours,omitempty"`
	Strategy         string        `json:"strategy,omitempty"`
	LearningActivity string        `json:"learning_activity,omitempty"`
	Typology         string        `json:"typology,omitempty"`
	Components       []Component   `json:"components,omitempty"`
}

// AnalyzableText joins the fields thematic detection reads.
func (a Activity) AnalyzableText() string {
	return joinNonEmpty(a.Outcome, a.Indicator, a.ThematicCores, a.Subject)
}

// Competency is one row of the competency sheet.
type Competency struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
	Verb string `json:"verb,omitempty"`
}

// LearningOutcome is one row of the learning outcome sheet.
type LearningOutcome struct {
	CompetencyRef string        `json:"competency_ref"`
	Number        string        `json:"number,omitempty"`
	KnowledgeType KnowledgeType `json:"knowledge_type"`
	Verb          string        `json:"verb"`
	DomainLevel   string        `json:"domain_level,omitempty"`
	Domain        string        `json:"domain,omitempty"`
	Taxonomy      string        `json:"taxonomy,omitempty"`
	Text          string        `json:"text"`
}

// Tables are the raw sheets of one program, kept for completeness scoring.
type Tables struct {
	Competencies    Table `json:"competencies"`
	Outcomes        Table `json:"outcomes"`
	MesoStrategies  Table `json:"meso_strategies"`
	MicroStrategies Table `json:"micro_strategies"`
}

// Program is everything loaded for one academic program.
type Program struct {
	Name         string            `json:"name"`
	SourceFile   string            `json:"source_file,omitempty"`
	Tables       Tables            `json:"-"`
	Competencies []Competency      `json:"competencies"`
	Outcomes     []LearningOutcome `json:"outcomes"`
	Activities   []Activity        `json:"activities"`
}

// NewProgram parses every table of a program into typed records.
func NewProgram(name, sourceFile string, tables Tables, w *Warnings) *Program {
	return &Program{
		Name:         name,
		SourceFile:   sourceFile,
		Tables:       tables,
		Competencies: ParseCompetencies(name, tables.Competencies, w),
		Outcomes:     ParseOutcomes(name, tables.Outcomes, w),
		Activities:   ParseActivities(name, tables.MicroStrategies, w),
	}
}

// ParseCompetencies reads the competency sheet. Rows without an ID and
// without text are skipped.
func ParseCompetencies(program string, t Table, w *Warnings) []Competency {
	var out []Competency
	for i := range t.Rows {
		c := Competency{
			ID:   t.Value(i, ColCompetencyID),
			Text: t.Value(i, ColCompetencyText),
			Type: t.Value(i, ColCompetencyType),
			Verb: t.Value(i, ColCompetencyVerb),
		}
		if c.ID == "" && c.Text == "" {
			w.Addf(program, t.Name, t.SourceRow(i), ColCompetencyText, "competency without id or text skipped")
			continue
		}
		out = append(out, c)
	}
	return out
}

// ParseOutcomes reads the learning outcome sheet. An unrecognized knowledge
// type leaves the outcome as KnowledgeUnknown, which balance skips.
func ParseOutcomes(program string, t Table, w *Warnings) []LearningOutcome {
	var out []LearningOutcome
	for i := range t.Rows {
		o := LearningOutcome{
			CompetencyRef: t.Value(i, ColOutcomeCompetency),
			Number:        t.Value(i, ColOutcomeNumber),
			Verb:          t.Value(i, ColOutcomeVerb),
			DomainLevel:   t.Value(i, ColOutcomeDomainLevel),
			Domain:        t.Value(i, ColOutcomeDomain),
			Taxonomy:      t.Value(i, ColOutcomeTaxonomy),
			Text:          t.Value(i, ColOutcomeText),
		}
		if raw := t.Value(i, ColOutcomeKnowledgeType); raw != "" {
			k, err := ParseKnowledgeType(raw)
			if err != nil {
				w.Addf(program, t.Name, t.SourceRow(i), ColOutcomeKnowledgeType, "%v; excluded from knowledge balance", err)
			}
			o.KnowledgeType = k
		} else {
			w.Addf(program, t.Name, t.SourceRow(i), ColOutcomeKnowledgeType, "missing knowledge type; excluded from knowledge balance")
		}
		out = append(out, o)
	}
	return out
}

// ParseActivities reads the micro strategy sheet. Rows whose knowledge
// type is missing or unrecognized are excluded. Unparseable numbers are
// dropped from the record with a warning.
func ParseActivities(program string, t Table, w *Warnings) []Activity {
	var out []Activity
	for i := range t.Rows {
		row := t.SourceRow(i)

		raw := t.Value(i, ColKnowledgeType)
		if raw == "" {
			w.Addf(program, t.Name, row, ColKnowledgeType, "missing knowledge type; row excluded")
			continue
		}
		k, err := ParseKnowledgeType(raw)
		if err != nil {
			w.Addf(program, t.Name, row, ColKnowledgeType, "%v; row excluded", err)
			continue
		}

		a := Activity{
			Program:       program,
			Subject:       t.Value(i, ColSubject),
			KnowledgeType: k,
			Outcome:       t.Value(i, ColOutcome),
			Indicator:     t.Value(i, ColIndicator),
			ThematicCores: t.Value(i, ColThematicCores),
			Strategy:      t.Value(i, ColStrategy),

			LearningActivity: t.Value(i, ColLearningActivity),
			Typology:         t.Value(i, ColTypology),
		}
		for _, cc := range componentColumns {
			if t.Value(i, cc.column) != "" {
				a.Components = append(a.Components, cc.component)
			}
		}

		if v := t.Value(i, ColSemester); v != "" {
			if n, ok := ParseInt(v); ok {
				a.Semester = &n
			} else {
				w.Addf(program, t.Name, row, ColSemester, "semester %q is not a whole number in range", v)
			}
		}
		a.Credits = parseOptionalFloat(program, t, i, ColCredits, w)
		a.DirectHours = parseOptionalFloat(program, t, i, ColDirectHours, w)
		a.IndependentHours = parseOptionalFloat(program, t, i, ColIndependentHours, w)

		out = append(out, a)
	}
	return out
}

func parseOptionalFloat(program string, t Table, i int, col string, w *Warnings) *float64 {
	v := t.Value(i, col)
	if v == "" {
		return nil
	}
	f, ok := ParseFloat(v)
	if !ok {
		w.Addf(program, t.Name, t.SourceRow(i), col, "unparseable number %q", v)
		return nil
	}
	return &f
}

// ParseFloat accepts "3", "3.5" and the decimal comma "3,5".
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt accepts integers and integral floats ("3.0", as spreadsheets
// often store them) that fit in an int.
func ParseInt(s string) (int, bool) {
	f, ok := ParseFloat(s)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
	if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

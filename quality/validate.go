package quality

import (
	"strings"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/textnorm"
)

// Issue is a drafting problem found by ValidateCompetency or
// ValidateOutcome.
type Issue string

const (
	IssueEmpty         Issue = "empty"
	IssueNoVerb        Issue = "no_taxonomy_verb"
	IssueTooShort      Issue = "too_short"
	IssueNoPurpose     Issue = "no_purpose"
	IssueTooLong       Issue = "too_long"
	IssueNotObservable Issue = "not_observable"
)

// Drafting limits, in words.
const (
	MinCompetencyWords = 5
	MaxCompetencyWords = 50
	MinOutcomeWords    = 5

	// AllowedCompetencyIssues is how many issues a competency may carry
	// and still count as valid.
	AllowedCompetencyIssues = 1
)

// Message describes the issue for a report reader.
func (i Issue) Message() string {
	switch i {
	case IssueEmpty:
		return "text is empty"
	case IssueNoVerb:
		return "no taxonomy verb found"
	case IssueTooShort:
		return "too short to name a conceptual object"
	case IssueNoPurpose:
		return "no explicit purpose"
	case IssueTooLong:
		return "too long to assess"
	case IssueNotObservable:
		return "verb is not observable"
	default:
		return string(i)
	}
}

// Suggestion tells the author how to fix the issue, or "".
func (i Issue) Suggestion() string {
	switch i {
	case IssueNoVerb:
		return "start with a taxonomy verb such as analizar, evaluar or crear"
	case IssueNoPurpose:
		return "add the purpose with \"para...\" or \"con el fin de...\""
	case IssueTooLong:
		return "simplify or split into narrower competencies"
	case IssueNotObservable:
		return "avoid conocer, entender or saber"
	case IssueTooShort:
		return "name the object and scope"
	default:
		return ""
	}
}

var (
	purposePhrases   = []string{"para", "con el fin de", "con el proposito de", "a fin de"}
	conditionPhrases = []string{"en contexto", "en el contexto", "considerando", "teniendo en cuenta"}

	// nonObservableVerbs may not appear among the first
	// nonObservableLead words of an outcome.
	nonObservableVerbs = map[string]bool{
		"saber": true, "conocer": true, "entender": true, "aprender": true, "comprender": true,
	}
)

const nonObservableLead = 3

// CompetencyCheck is the structural review of one competency statement:
// verb, conceptual object, purpose and context condition.
type CompetencyCheck struct {
	ID    string `json:"id,omitempty"`
	Valid bool   `json:"valid"`
	Words int    `json:"words"`

	HasVerb      bool `json:"has_verb"`
	HasObject    bool `json:"has_object"`
	HasPurpose   bool `json:"has_purpose"`
	HasCondition bool `json:"has_condition"`

	Issues []Issue `json:"issues,omitempty"`
}

// ValidateCompetency reviews one competency. A competency is valid with at
// most AllowedCompetencyIssues issues; an empty one never is. The context
// condition is reported but raises no issue.
func ValidateCompetency(text string, tax *taxonomy.CognitiveTaxonomy) CompetencyCheck {
	var c CompetencyCheck
	words := normalizedWords(text)
	if len(words) == 0 {
		c.Issues = []Issue{IssueEmpty}
		return c
	}
	c.Words = len(strings.Fields(text))

	c.HasVerb = hasTaxonomyVerb(words, tax)
	if !c.HasVerb {
		c.Issues = append(c.Issues, IssueNoVerb)
	}
	c.HasObject = c.Words >= MinCompetencyWords
	if !c.HasObject {
		c.Issues = append(c.Issues, IssueTooShort)
	}
	c.HasPurpose = containsPhrase(words, purposePhrases)
	if !c.HasPurpose {
		c.Issues = append(c.Issues, IssueNoPurpose)
	}
	c.HasCondition = containsPhrase(words, conditionPhrases)
	if c.Words > MaxCompetencyWords {
		c.Issues = append(c.Issues, IssueTooLong)
	}

	c.Valid = len(c.Issues) <= AllowedCompetencyIssues
	return c
}

// OutcomeCheck is the measurability review of one learning outcome.
type OutcomeCheck struct {
	Number     string `json:"number,omitempty"`
	Measurable bool   `json:"measurable"`
	Observable bool   `json:"observable"`
	Words      int    `json:"words"`

	Issues    []Issue   `json:"issues,omitempty"`
	Coherence Coherence `json:"coherence"`
}

// ValidateOutcome reviews one outcome statement. It is observable when it
// carries a taxonomy verb and none of the non-observable verbs (conocer,
// entender...) opens it; it is measurable when it is also specific enough.
func ValidateOutcome(text string, tax *taxonomy.CognitiveTaxonomy) OutcomeCheck {
	var o OutcomeCheck
	words := normalizedWords(text)
	if len(words) == 0 {
		o.Issues = []Issue{IssueEmpty}
		return o
	}
	o.Words = len(strings.Fields(text))

	vague := false
	for _, w := range words[:min(nonObservableLead, len(words))] {
		if nonObservableVerbs[w] {
			vague = true
			break
		}
	}
	o.Observable = hasTaxonomyVerb(words, tax) && !vague
	if !o.Observable {
		o.Issues = append(o.Issues, IssueNotObservable)
	}
	if o.Words < MinOutcomeWords {
		o.Issues = append(o.Issues, IssueTooShort)
	}

	o.Measurable = o.Observable && len(o.Issues) == 0
	return o
}

// Validation is the drafting review of a whole program. Score is the mean
// of CompetencyScore and OutcomeScore. It is reported next to the
// composite and not weighted into it.
type Validation struct {
	Score float64 `json:"score"`

	Competencies      int     `json:"competencies"`
	ValidCompetencies int     `json:"valid_competencies"`
	CompetencyScore   float64 `json:"competency_score"`

	Outcomes           int `json:"outcomes"`
	MeasurableOutcomes int `json:"measurable_outcomes"`
	CoherentOutcomes   int `json:"coherent_outcomes"`

	// OutcomeScore counts measurability and verb coherence equally.
	OutcomeScore float64 `json:"outcome_score"`

	Issues map[Issue]int `json:"issues,omitempty"`

	CompetencyChecks []CompetencyCheck `json:"competency_checks,omitempty"`
	OutcomeChecks    []OutcomeCheck    `json:"outcome_checks,omitempty"`
}

// ValidateProgram reviews every competency and outcome of p.
func ValidateProgram(p *curriculum.Program, tax *taxonomy.CognitiveTaxonomy, rules taxonomy.DomainRules) Validation {
	v := Validation{
		Competencies: len(p.Competencies),
		Outcomes:     len(p.Outcomes),
		Issues:       make(map[Issue]int),
	}

	for _, comp := range p.Competencies {
		c := ValidateCompetency(comp.Text, tax)
		c.ID = comp.ID
		if c.Valid {
			v.ValidCompetencies++
		}
		for _, i := range c.Issues {
			v.Issues[i]++
		}
		v.CompetencyChecks = append(v.CompetencyChecks, c)
	}

	for _, out := range p.Outcomes {
		o := ValidateOutcome(out.Text, tax)
		o.Number = out.Number
		o.Coherence = CheckVerbCoherence(tax, rules, out.Verb, out.DomainLevel)
		if o.Measurable {
			v.MeasurableOutcomes++
		}
		if o.Coherence.Coherent {
			v.CoherentOutcomes++
		}
		for _, i := range o.Issues {
			v.Issues[i]++
		}
		v.OutcomeChecks = append(v.OutcomeChecks, o)
	}

	if v.Competencies > 0 {
		v.CompetencyScore = float64(v.ValidCompetencies) / float64(v.Competencies) * 100
	}
	if v.Outcomes > 0 {
		v.OutcomeScore = float64(v.MeasurableOutcomes+v.CoherentOutcomes) / float64(2*v.Outcomes) * 100
	}
	v.Score = round1(v.CompetencyScore*0.5 + v.OutcomeScore*0.5)
	v.CompetencyScore = round1(v.CompetencyScore)
	v.OutcomeScore = round1(v.OutcomeScore)
	if len(v.Issues) == 0 {
		v.Issues = nil
	}
	return v
}

func normalizedWords(text string) []string {
	return strings.Fields(textnorm.NormalizeLabel(text))
}

func hasTaxonomyVerb(words []string, tax *taxonomy.CognitiveTaxonomy) bool {
	for _, w := range words {
		if _, ok := tax.LevelOf(w); ok {
			return true
		}
	}
	return false
}

// containsPhrase reports whether any phrase occurs as whole words.
func containsPhrase(words []string, phrases []string) bool {
	padded := " " + strings.Join(words, " ") + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

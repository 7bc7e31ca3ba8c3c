package quality

import (
	"fmt"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/taxonomy"
)

// Coherence compares the level implied by an outcome's verb with the level
// its author declared.
type Coherence struct {
	Coherent bool           `json:"coherent"`
	Expected taxonomy.Level `json:"expected,omitempty"`
	Declared taxonomy.Level `json:"declared,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// declaredRules extends the domain rules with a recall signal, which the
// level fallback never needs but a declared level may name.
func declaredRules(rules taxonomy.DomainRules) taxonomy.DomainRules {
	out := append(taxonomy.DomainRules(nil), rules...)
	return append(out, taxonomy.DomainRule{Pattern: "record", Level: taxonomy.LevelRecall})
}

// CheckVerbCoherence reports whether verb and the declared domain level
// agree. Both must resolve for the pair to be coherent.
func CheckVerbCoherence(tax *taxonomy.CognitiveTaxonomy, rules taxonomy.DomainRules, verb, domainLevel string) Coherence {
	var c Coherence
	expected, okVerb := tax.LevelOf(verb)
	declared, okDecl := declaredRules(rules).Resolve(domainLevel)
	if okVerb {
		c.Expected = expected
	}
	if okDecl {
		c.Declared = declared
	}

	switch {
	case !okVerb:
		c.Message = fmt.Sprintf("verb %q is not in the taxonomy", verb)
	case !okDecl:
		c.Message = fmt.Sprintf("declared level %q names no level", domainLevel)
	case expected != declared:
		c.Message = fmt.Sprintf("verb %q is %s but declared as %s", verb, expected, declared)
	default:
		c.Coherent = true
	}
	return c
}

// CoherenceSummary aggregates CheckVerbCoherence over a program. It is
// informational and not part of the composite score.
type CoherenceSummary struct {
	Checked  int     `json:"checked"`
	Coherent int     `json:"coherent"`
	Rate     float64 `json:"rate"`

	Issues []string `json:"issues,omitempty"`
}

// CoherenceOf checks every outcome.
func CoherenceOf(outcomes []curriculum.LearningOutcome, tax *taxonomy.CognitiveTaxonomy, rules taxonomy.DomainRules) CoherenceSummary {
	var s CoherenceSummary
	for _, o := range outcomes {
		s.Checked++
		c := CheckVerbCoherence(tax, rules, o.Verb, o.DomainLevel)
		if c.Coherent {
			s.Coherent++
			continue
		}
		if c.Expected != 0 && c.Declared != 0 {
			s.Issues = append(s.Issues, c.Message)
		}
	}
	if s.Checked > 0 {
		s.Rate = round1(float64(s.Coherent) / float64(s.Checked) * 100)
	}
	return s
}

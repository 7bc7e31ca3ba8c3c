package quality

import (
	"math"
	"sort"
	"strings"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/taxonomy"
	"github.com/c360studio/curriculens/textnorm"
)

// BalanceThreshold is the deviation, in percentage points, below which the
// knowledge-type distribution counts as balanced.
const BalanceThreshold = 10.0

// Balance is the distribution of outcomes across knowledge types.
type Balance struct {
	Theory         float64 `json:"theory"`
	TheoryPractice float64 `json:"theory_practice"`
	Disposition    float64 `json:"disposition"`

	// Deviation is the population standard deviation of the three
	// percentages.
	Deviation float64 `json:"deviation"`
	Balanced  bool    `json:"balanced"`

	Counted  int `json:"counted"`
	Excluded int `json:"excluded,omitempty"`
}

// BalanceOf computes Balance over outcomes. Outcomes without a recognized
// knowledge type are excluded. No outcomes yields zeros, balanced.
func BalanceOf(outcomes []curriculum.LearningOutcome) Balance {
	counts := make(map[curriculum.KnowledgeType]int)
	excluded := 0
	for _, o := range outcomes {
		if o.KnowledgeType == curriculum.KnowledgeUnknown {
			excluded++
			continue
		}
		counts[o.KnowledgeType]++
	}

	total := len(outcomes) - excluded
	if total == 0 {
		return Balance{Balanced: true, Excluded: excluded}
	}

	pct := func(k curriculum.KnowledgeType) float64 {
		return round1(float64(counts[k]) / float64(total) * 100)
	}
	b := BalanceFromPercentages(pct(curriculum.Theory), pct(curriculum.TheoryPractice), pct(curriculum.Disposition))
	b.Counted = total
	b.Excluded = excluded
	return b
}

// BalanceFromPercentages derives deviation and the balanced flag from the
// three percentages.
func BalanceFromPercentages(theory, theoryPractice, disposition float64) Balance {
	values := []float64{theory, theoryPractice, disposition}
	mean := (theory + theoryPractice + disposition) / 3
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	dev := math.Sqrt(sq / 3)

	return Balance{
		Theory:         theory,
		TheoryPractice: theoryPractice,
		Disposition:    disposition,
		Deviation:      round1(dev),
		Balanced:       dev < BalanceThreshold,
	}
}

// Complexity buckets outcomes by cognitive level.
type Complexity struct {
	Basic        float64 `json:"basic"`
	Intermediate float64 `json:"intermediate"`
	Advanced     float64 `json:"advanced"`
	MeanLevel    float64 `json:"mean_level"`

	// Index is (MeanLevel-1)/5 × 100.
	Index float64 `json:"index"`

	// Levels counts outcomes per level, index 0 is level 1.
	Levels [6]int `json:"levels"`
}

// ComplexityOf resolves each outcome's level and buckets it: Basic 1-2,
// Intermediate 3-4, Advanced 5-6.
func ComplexityOf(outcomes []curriculum.LearningOutcome, tax *taxonomy.CognitiveTaxonomy, rules taxonomy.DomainRules) Complexity {
	var c Complexity
	if len(outcomes) == 0 {
		return c
	}

	var basic, inter, adv, sum int
	for _, o := range outcomes {
		l := taxonomy.ResolveLevel(tax, rules, o.Verb, o.DomainLevel)
		c.Levels[l-1]++
		sum += int(l)
		switch {
		case l <= taxonomy.LevelUnderstand:
			basic++
		case l <= taxonomy.LevelAnalyze:
			inter++
		default:
			adv++
		}
	}

	n := float64(len(outcomes))
	c.Basic = round1(float64(basic) / n * 100)
	c.Intermediate = round1(float64(inter) / n * 100)
	c.Advanced = round1(float64(adv) / n * 100)
	c.MeanLevel = round1(float64(sum) / n)
	c.Index = round1((c.MeanLevel - 1) / 5 * 100)
	return c
}

// CompetencyCoverage is the share of competencies with at least one
// learning outcome.
type CompetencyCoverage struct {
	Total      int     `json:"total"`
	Covered    int     `json:"covered"`
	Percentage float64 `json:"percentage"`

	// MeanOutcomes is outcomes per covered competency.
	MeanOutcomes float64 `json:"mean_outcomes"`

	// Unmatched counts outcomes whose reference names no competency.
	Unmatched int `json:"unmatched"`
}

// CompetencyCoverageOf links outcomes to competencies by ID or by text.
func CompetencyCoverageOf(competencies []curriculum.Competency, outcomes []curriculum.LearningOutcome) CompetencyCoverage {
	cov := CompetencyCoverage{Total: len(competencies)}
	if len(competencies) == 0 || len(outcomes) == 0 {
		cov.Unmatched = len(outcomes)
		return cov
	}

	perComp := make([]int, len(competencies))
	linked := 0
	for _, o := range outcomes {
		i := findCompetency(competencies, o.CompetencyRef)
		if i < 0 {
			cov.Unmatched++
			continue
		}
		perComp[i]++
		linked++
	}

	for _, n := range perComp {
		if n > 0 {
			cov.Covered++
		}
	}
	cov.Percentage = round1(float64(cov.Covered) / float64(cov.Total) * 100)
	if cov.Covered > 0 {
		cov.MeanOutcomes = round1(float64(linked) / float64(cov.Covered))
	}
	return cov
}

// findCompetency matches a reference against IDs ("C1", "1") and texts.
// A reference that starts with an ID followed by a word ("1. Gestionar")
// also matches.
func findCompetency(competencies []curriculum.Competency, ref string) int {
	r := textnorm.NormalizeLabel(ref)
	if r == "" {
		return -1
	}
	for i, c := range competencies {
		id := textnorm.NormalizeLabel(c.ID)
		if id != "" && (r == id || strings.HasPrefix(r, id+" ")) {
			return i
		}
		if text := textnorm.NormalizeLabel(c.Text); text != "" && r == text {
			return i
		}
	}
	return -1
}

// LabelCount is a strategy label with its frequency.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Methodology describes the teaching strategies in use.
type Methodology struct {
	Distinct int          `json:"distinct"`
	Top      []LabelCount `json:"top"`

	// ActivePercentage is the share of labels naming an active methodology.
	ActivePercentage float64 `json:"active_percentage"`
	Labels           int     `json:"labels"`
}

// TopStrategies is how many labels Methodology.Top keeps.
const TopStrategies = 5

// MethodologyOf counts distinct strategy labels and the share that match
// an active-methodology keyword. Labels are compared after normalization.
func MethodologyOf(labels []string, activeKeywords []string) Methodology {
	var m Methodology

	keywords := make([]string, 0, len(activeKeywords))
	for _, k := range activeKeywords {
		if n := textnorm.Normalize(k); n != "" {
			keywords = append(keywords, n)
		}
	}

	counts := make(map[string]int)
	display := make(map[string]string)
	var order []string
	active := 0
	for _, l := range labels {
		key := textnorm.Normalize(l)
		if key == "" {
			continue
		}
		m.Labels++
		if _, ok := counts[key]; !ok {
			display[key] = strings.TrimSpace(l)
			order = append(order, key)
		}
		counts[key]++
		for _, k := range keywords {
			if strings.Contains(key, k) {
				active++
				break
			}
		}
	}

	m.Distinct = len(order)
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for _, k := range order[:min(TopStrategies, len(order))] {
		m.Top = append(m.Top, LabelCount{Label: display[k], Count: counts[k]})
	}
	if m.Labels > 0 {
		m.ActivePercentage = round1(float64(active) / float64(m.Labels) * 100)
	}
	return m
}

// StrategyLabels reads the teaching strategy of every micro strategy row.
// When the sheet has no strategy column the activities are used instead.
func StrategyLabels(p *curriculum.Program) []string {
	t := p.Tables.MicroStrategies
	if col := t.Column(curriculum.ColStrategy); col >= 0 {
		labels := make([]string, 0, t.Len())
		for _, row := range t.Rows {
			labels = append(labels, row[col])
		}
		return labels
	}
	labels := make([]string, 0, len(p.Activities))
	for _, a := range p.Activities {
		labels = append(labels, a.Strategy)
	}
	return labels
}

// Completeness is the fill ratio of each sheet, ×100, plus the weighted
// total.
type Completeness struct {
	Competencies    float64 `json:"competencies"`
	Outcomes        float64 `json:"outcomes"`
	MesoStrategies  float64 `json:"meso_strategies"`
	MicroStrategies float64 `json:"micro_strategies"`
	Total           float64 `json:"total"`
}

// CompletenessOf measures non-blank cells. A missing sheet counts as 0.
func CompletenessOf(t curriculum.Tables, w CompletenessWeights) Completeness {
	c := Completeness{
		Competencies:    t.Competencies.FillRatio() * 100,
		Outcomes:        t.Outcomes.FillRatio() * 100,
		MesoStrategies:  t.MesoStrategies.FillRatio() * 100,
		MicroStrategies: t.MicroStrategies.FillRatio() * 100,
	}
	c.Total = c.Competencies*w.Competencies +
		c.Outcomes*w.Outcomes +
		c.MesoStrategies*w.MesoStrategies +
		c.MicroStrategies*w.MicroStrategies

	c.Competencies = round1(c.Competencies)
	c.Outcomes = round1(c.Outcomes)
	c.MesoStrategies = round1(c.MesoStrategies)
	c.MicroStrategies = round1(c.MicroStrategies)
	c.Total = round1(c.Total)
	return c
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

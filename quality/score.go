// Package quality computes per-program curriculum quality indicators and
// the weighted composite score.
//
// Each indicator has its own function and can be queried on its own; Score
// runs all five and combines them.
package quality

import (
	"errors"
	"math"

	"github.com/c360studio/curriculens/curriculum"
	"github.com/c360studio/curriculens/taxonomy"
)

// ErrNilTaxonomy is returned when Options carries no cognitive taxonomy.
var ErrNilTaxonomy = errors.New("quality options: nil cognitive taxonomy")

// Scaling of the indicators that are not already on 0..100.
const (
	// MethodologyPointsPerStrategy maps distinct strategies to 0..100;
	// 13 or more strategies score 100.
	MethodologyPointsPerStrategy = 8.0

	// BalancePenalty is the score lost per point of deviation.
	BalancePenalty = 5.0
)

// Options configure Score.
type Options struct {
	Weights             Weights
	CompletenessWeights CompletenessWeights
	Taxonomy            *taxonomy.CognitiveTaxonomy
	DomainRules         taxonomy.DomainRules
	ActiveMethodologies []string
}

// DefaultOptions uses the built-in weights and vocabularies.
func DefaultOptions() Options {
	return Options{
		Weights:             DefaultWeights(),
		CompletenessWeights: DefaultCompletenessWeights(),
		Taxonomy:            taxonomy.DefaultCognitiveTaxonomy(),
		DomainRules:         taxonomy.DefaultDomainRules(),
		ActiveMethodologies: taxonomy.DefaultActiveMethodologies(),
	}
}

// Validate checks weights and required vocabularies.
func (o Options) Validate() error {
	if err := o.Weights.Validate(); err != nil {
		return err
	}
	if err := o.CompletenessWeights.Validate(); err != nil {
		return err
	}
	if o.Taxonomy == nil {
		return ErrNilTaxonomy
	}
	return nil
}

// Components are the five indicators on a 0..100 scale, as they enter the
// composite.
type Components struct {
	Completeness float64 `json:"completeness"`
	Complexity   float64 `json:"complexity"`
	Balance      float64 `json:"balance"`
	Methodology  float64 `json:"methodology"`
	Coverage     float64 `json:"coverage"`
}

// Summary counts the rows behind a report.
type Summary struct {
	Competencies    int `json:"competencies"`
	Outcomes        int `json:"outcomes"`
	MesoStrategies  int `json:"meso_strategies"`
	MicroStrategies int `json:"micro_strategies"`
	Activities      int `json:"activities"`
}

// Report is the quality assessment of one program.
type Report struct {
	Program string  `json:"program"`
	Score   float64 `json:"score"`
	Weights Weights `json:"weights"`

	Components   Components         `json:"components"`
	Balance      Balance            `json:"balance"`
	Complexity   Complexity         `json:"complexity"`
	Coverage     CompetencyCoverage `json:"coverage"`
	Methodology  Methodology        `json:"methodology"`
	Completeness Completeness       `json:"completeness"`

	Coherence  CoherenceSummary `json:"coherence"`
	Validation Validation       `json:"validation"`
	Summary    Summary          `json:"summary"`
}

// Score computes every indicator for p and the composite. A program with
// empty sheets yields zero indicators, never an error; only invalid
// options fail.
func Score(p *curriculum.Program, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &Report{
		Program:      p.Name,
		Weights:      opts.Weights,
		Balance:      BalanceOf(p.Outcomes),
		Complexity:   ComplexityOf(p.Outcomes, opts.Taxonomy, opts.DomainRules),
		Coverage:     CompetencyCoverageOf(p.Competencies, p.Outcomes),
		Methodology:  MethodologyOf(StrategyLabels(p), opts.ActiveMethodologies),
		Completeness: CompletenessOf(p.Tables, opts.CompletenessWeights),
		Coherence:    CoherenceOf(p.Outcomes, opts.Taxonomy, opts.DomainRules),
		Validation:   ValidateProgram(p, opts.Taxonomy, opts.DomainRules),
		Summary: Summary{
			Competencies:    len(p.Competencies),
			Outcomes:        len(p.Outcomes),
			MesoStrategies:  p.Tables.MesoStrategies.Len(),
			MicroStrategies: p.Tables.MicroStrategies.Len(),
			Activities:      len(p.Activities),
		},
	}

	r.Components = Components{
		Completeness: r.Completeness.Total,
		Complexity:   r.Complexity.Index,
		Balance:      BalanceScore(r.Balance),
		Methodology:  MethodologyScore(r.Methodology),
		Coverage:     r.Coverage.Percentage,
	}
	r.Score = Composite(r.Components, opts.Weights)
	return r, nil
}

// BalanceScore is max(0, 100 − deviation × 5).
func BalanceScore(b Balance) float64 {
	return math.Max(0, math.Min(100, 100-b.Deviation*BalancePenalty))
}

// MethodologyScore is min(100, distinct × 8).
func MethodologyScore(m Methodology) float64 {
	return math.Min(100, float64(m.Distinct)*MethodologyPointsPerStrategy)
}

// Composite is the weighted sum of the components, rounded to one decimal.
func Composite(c Components, w Weights) float64 {
	return round1(c.Completeness*w.Completeness +
		c.Complexity*w.Complexity +
		c.Balance*w.Balance +
		c.Methodology*w.Methodology +
		c.Coverage*w.Coverage)
}

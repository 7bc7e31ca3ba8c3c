package quality

import (
	"errors"
	"fmt"
	"math"
)

// WeightTolerance is how far the weight sum may drift from 1.0.
const WeightTolerance = 0.01

var (
	// ErrWeightsSum is returned when composite weights do not sum to 1.0.
	ErrWeightsSum = errors.New("quality weights must sum to 1.0")

	// ErrNegativeWeight is returned for a weight below zero.
	ErrNegativeWeight = errors.New("quality weight is negative")
)

// Weights combine the five indicators into the composite score.
type Weights struct {
	Completeness float64 `yaml:"completeness" json:"completeness"`
	Complexity   float64 `yaml:"complexity" json:"complexity"`
	Balance      float64 `yaml:"balance" json:"balance"`
	Methodology  float64 `yaml:"methodology" json:"methodology"`
	Coverage     float64 `yaml:"coverage" json:"coverage"`
}

// DefaultWeights returns the built-in composite weights.
func DefaultWeights() Weights {
	return Weights{
		Completeness: 0.25,
		Complexity:   0.25,
		Balance:      0.15,
		Methodology:  0.15,
		Coverage:     0.20,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Completeness + w.Complexity + w.Balance + w.Methodology + w.Coverage
}

// Validate checks that no weight is negative and that the sum is within
// WeightTolerance of 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"completeness": w.Completeness,
		"complexity":   w.Complexity,
		"balance":      w.Balance,
		"methodology":  w.Methodology,
		"coverage":     w.Coverage,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s=%.3f", ErrNegativeWeight, name, v)
		}
	}
	// 1e-9 absorbs float error at the boundary.
	if sum := w.Sum(); math.Abs(sum-1) > WeightTolerance+1e-9 {
		return fmt.Errorf("%w: got %.3f", ErrWeightsSum, sum)
	}
	return nil
}

// CompletenessWeights weigh the fill ratio of each sheet.
type CompletenessWeights struct {
	Competencies    float64 `yaml:"competencies" json:"competencies"`
	Outcomes        float64 `yaml:"outcomes" json:"outcomes"`
	MesoStrategies  float64 `yaml:"meso_strategies" json:"meso_strategies"`
	MicroStrategies float64 `yaml:"micro_strategies" json:"micro_strategies"`
}

// DefaultCompletenessWeights favors competencies and outcomes.
func DefaultCompletenessWeights() CompletenessWeights {
	return CompletenessWeights{
		Competencies:    0.3,
		Outcomes:        0.4,
		MesoStrategies:  0.15,
		MicroStrategies: 0.15,
	}
}

// Validate applies the same sum rule as Weights.
func (w CompletenessWeights) Validate() error {
	sum := w.Competencies + w.Outcomes + w.MesoStrategies + w.MicroStrategies
	if w.Competencies < 0 || w.Outcomes < 0 || w.MesoStrategies < 0 || w.MicroStrategies < 0 {
		return fmt.Errorf("%w: completeness", ErrNegativeWeight)
	}
	if math.Abs(sum-1) > WeightTolerance+1e-9 {
		return fmt.Errorf("%w: completeness weights got %.3f", ErrWeightsSum, sum)
	}
	return nil
}

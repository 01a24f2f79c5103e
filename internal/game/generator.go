package game

import (
	"fmt"
	"math"
	"math/rand"
)

// probSumTolerance is how far the three outcome probabilities may drift
// from 1.0 before the configuration is rejected.
const probSumTolerance = 1e-6

// Probabilities holds the categorical distribution of the wheel.
type Probabilities struct {
	Red   float64 `yaml:"red" json:"red"`
	Black float64 `yaml:"black" json:"black"`
	White float64 `yaml:"white" json:"white"`
}

// DefaultProbabilities returns the observed wheel distribution:
// 7 red and 7 black pockets plus a single white pocket.
func DefaultProbabilities() Probabilities {
	return Probabilities{Red: 0.4667, Black: 0.4667, White: 0.0666}
}

// Validate rejects distributions that are negative or do not sum to 1.
func (p Probabilities) Validate() error {
	if p.Red < 0 || p.Black < 0 || p.White < 0 {
		return fmt.Errorf("%w: probabilities must be non-negative (red=%.4f black=%.4f white=%.4f)",
			ErrInvalidProbabilities, p.Red, p.Black, p.White)
	}
	sum := p.Red + p.Black + p.White
	if math.Abs(sum-1.0) > probSumTolerance {
		return fmt.Errorf("%w: probabilities sum to %.6f, want 1.0", ErrInvalidProbabilities, sum)
	}
	return nil
}

// Generator draws outcomes from a fixed categorical distribution. It is
// the only source of randomness in a run; one generator belongs to
// exactly one run and must not be shared across concurrent runs.
type Generator struct {
	probs Probabilities
	rng   *rand.Rand
}

// NewGenerator creates a generator seeded for reproducible runs. The
// distribution is validated up front; a run never starts with a bad one.
func NewGenerator(probs Probabilities, seed int64) (*Generator, error) {
	if err := probs.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		probs: probs,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Next draws one outcome.
func (g *Generator) Next() Outcome {
	r := g.rng.Float64()
	switch {
	case r < g.probs.Red:
		return Red
	case r < g.probs.Red+g.probs.Black:
		return Black
	default:
		return White
	}
}

// NextN draws n outcomes in order.
func (g *Generator) NextN(n int) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// Probs returns the configured distribution.
func (g *Generator) Probs() Probabilities {
	return g.probs
}

package signal

import "github.com/vfarias/doubledown/internal/game"

// fibOffsets are the lookback offsets sampled by the cycle detector.
var fibOffsets = []int{1, 2, 3, 5, 8, 13, 21}

// Fibonacci samples the history at Fibonacci lookback offsets and
// follows the color that dominates those sample points. A fringe
// cycle-hunting play; it only votes on a clear majority.
type Fibonacci struct {
	minLead   int
	confBase  float64
	leadStep  float64
	confCap   float64
	minRounds int
}

// DefaultFibonacci returns the standard cycle sampler.
func DefaultFibonacci() *Fibonacci {
	return &Fibonacci{
		minLead:   2,
		confBase:  60,
		leadStep:  5,
		confCap:   80,
		minRounds: 21,
	}
}

func (f *Fibonacci) Name() string    { return "fibonacci" }
func (f *Fibonacci) MinHistory() int { return f.minRounds }

func (f *Fibonacci) Evaluate(h *game.History) Signal {
	if h.Len() < f.minRounds {
		return None(f.Name())
	}

	red, black := 0, 0
	for _, off := range fibOffsets {
		if off > h.Len() {
			break
		}
		switch h.Tail(off)[0] {
		case game.Red:
			red++
		case game.Black:
			black++
		}
	}

	switch {
	case red-black >= f.minLead:
		conf := clamp(f.confBase+float64(red-black)*f.leadStep, f.confCap)
		return Pick(game.Red, conf, f.Name())
	case black-red >= f.minLead:
		conf := clamp(f.confBase+float64(black-red)*f.leadStep, f.confCap)
		return Pick(game.Black, conf, f.Name())
	}
	return None(f.Name())
}

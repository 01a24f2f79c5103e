package signal

import "github.com/vfarias/doubledown/internal/game"

// Alternation detects heavy flip-flopping in the recent tail and plays
// the next flip.
type Alternation struct {
	window     int
	minChanges int
	confBase   float64
	changeStep float64
	confCap    float64
	minRounds  int
}

// DefaultAlternation returns the standard alternation detector: at
// least six changes across the last eight rounds.
func DefaultAlternation() *Alternation {
	return &Alternation{
		window:     8,
		minChanges: 6,
		confBase:   70,
		changeStep: 5,
		confCap:    88,
		minRounds:  6,
	}
}

func (a *Alternation) Name() string    { return "alternation" }
func (a *Alternation) MinHistory() int { return a.minRounds }

func (a *Alternation) Evaluate(h *game.History) Signal {
	if h.Len() < a.minRounds {
		return None(a.Name())
	}
	window := h.Tail(a.window)
	changes := game.Changes(window)
	if changes < a.minChanges {
		return None(a.Name())
	}
	last, ok := h.Last()
	if !ok || !last.IsColor() {
		return None(a.Name())
	}
	conf := clamp(a.confBase+float64(changes-a.minChanges)*a.changeStep, a.confCap)
	return Pick(last.Opposite(), conf, a.Name())
}

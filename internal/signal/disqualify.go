package signal

import "github.com/vfarias/doubledown/internal/game"

// Disqualify is the soft veto heuristic carried by the lenient variant:
// instead of proposing a color it answers "stand aside" when the recent
// window looks unplayable (white density, dead-even balance). The
// combiner treats its skip as a reroute to a conservative fallback
// rather than a hard stop.
type Disqualify struct {
	window    int
	maxWhite  int
	maxDiff   int
	minRounds int
}

// DefaultDisqualify returns the standard soft veto: two whites or a
// near-even split over the last ten rounds.
func DefaultDisqualify() *Disqualify {
	return &Disqualify{window: 10, maxWhite: 2, maxDiff: 1, minRounds: 10}
}

func (d *Disqualify) Name() string    { return "disqualify" }
func (d *Disqualify) MinHistory() int { return d.minRounds }

// Evaluate returns a skip signal when conditions are unfavorable, and a
// full-confidence "continue" otherwise. The color of the continue
// signal is never acted on; only Skip is read.
func (d *Disqualify) Evaluate(h *game.History) Signal {
	if h.Len() < d.minRounds {
		return None(d.Name())
	}
	window := h.Tail(d.window)
	if game.Count(window, game.White) >= d.maxWhite {
		return None(d.Name())
	}
	red := game.Count(window, game.Red)
	black := game.Count(window, game.Black)
	if abs(red-black) <= d.maxDiff {
		return None(d.Name())
	}
	return Signal{Color: game.Red, Confidence: 100, Label: d.Name()}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

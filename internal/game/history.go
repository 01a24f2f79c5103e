package game

// History is the append-only record of past outcomes for one run.
// Index order is occurrence order; outcomes are never mutated or
// removed. It is owned by the run driver; heuristics and gates only
// read bounded suffixes of it.
type History struct {
	outcomes []Outcome
}

// NewHistory creates an empty history with room for hint outcomes.
func NewHistory(hint int) *History {
	if hint < 0 {
		hint = 0
	}
	return &History{outcomes: make([]Outcome, 0, hint)}
}

// HistoryOf builds a history from an existing sequence. The slice is
// copied so the caller cannot mutate recorded outcomes.
func HistoryOf(outcomes ...Outcome) *History {
	h := NewHistory(len(outcomes))
	h.outcomes = append(h.outcomes, outcomes...)
	return h
}

// Append records one outcome.
func (h *History) Append(o Outcome) {
	h.outcomes = append(h.outcomes, o)
}

// Len returns the number of recorded outcomes.
func (h *History) Len() int {
	return len(h.outcomes)
}

// Last returns the most recent outcome.
func (h *History) Last() (Outcome, bool) {
	if len(h.outcomes) == 0 {
		return Red, false
	}
	return h.outcomes[len(h.outcomes)-1], true
}

// Tail returns the trailing n outcomes (all of them when n exceeds the
// length). The returned slice is read-only by convention.
func (h *History) Tail(n int) []Outcome {
	if n <= 0 {
		return nil
	}
	if n > len(h.outcomes) {
		n = len(h.outcomes)
	}
	return h.outcomes[len(h.outcomes)-n:]
}

// NonWhite returns every recorded playable color in order.
func (h *History) NonWhite() []Outcome {
	return FilterWhite(h.outcomes)
}

// TailNonWhite filters white out of the trailing n outcomes. Note the
// order matters: this is "last n rounds, whites removed", not "last n
// colors".
func (h *History) TailNonWhite(n int) []Outcome {
	return FilterWhite(h.Tail(n))
}

// CurrentStreak returns the most recent same-color run, white excluded.
// A history with no colors yet reports a zero streak.
func (h *History) CurrentStreak() (Outcome, int) {
	colors := h.NonWhite()
	if len(colors) == 0 {
		return Red, 0
	}
	last := colors[len(colors)-1]
	streak := 1
	for i := len(colors) - 2; i >= 0; i-- {
		if colors[i] != last {
			break
		}
		streak++
	}
	return last, streak
}

// RedRatio returns the red share of the non-white outcomes in the
// trailing window, or 0.5 when the window holds no colors.
func (h *History) RedRatio(window int) float64 {
	colors := h.TailNonWhite(window)
	if len(colors) == 0 {
		return 0.5
	}
	return float64(Count(colors, Red)) / float64(len(colors))
}

// FilterWhite returns seq without white outcomes.
func FilterWhite(seq []Outcome) []Outcome {
	out := make([]Outcome, 0, len(seq))
	for _, o := range seq {
		if o != White {
			out = append(out, o)
		}
	}
	return out
}

// Count returns how many times o occurs in seq.
func Count(seq []Outcome, o Outcome) int {
	n := 0
	for _, c := range seq {
		if c == o {
			n++
		}
	}
	return n
}

// Changes counts adjacent pairs in seq that differ.
func Changes(seq []Outcome) int {
	n := 0
	for i := 0; i+1 < len(seq); i++ {
		if seq[i] != seq[i+1] {
			n++
		}
	}
	return n
}

// Alternating reports whether every adjacent pair in seq differs.
// Sequences shorter than two outcomes are trivially alternating.
func Alternating(seq []Outcome) bool {
	return Changes(seq) == len(seq)-1 || len(seq) < 2
}

// Package signal holds the prediction heuristics: pure functions from a
// trailing outcome history to a proposed color with a confidence score.
// Heuristics never mutate history and carry no state between calls, so
// evaluating the same history twice always yields the same signal.
package signal

import "github.com/vfarias/doubledown/internal/game"

// Signal is one heuristic's opinion about the next playable color.
// Skip means the heuristic sees no edge; its color and confidence are
// then meaningless.
type Signal struct {
	Color      game.Outcome `json:"color"`
	Confidence float64      `json:"confidence"` // 0-100
	Label      string       `json:"label"`
	Skip       bool         `json:"skip"`
}

// None returns the neutral skip signal with the given label.
func None(label string) Signal {
	return Signal{Skip: true, Label: label}
}

// Pick returns an actionable signal.
func Pick(color game.Outcome, confidence float64, label string) Signal {
	return Signal{Color: color, Confidence: confidence, Label: label}
}

// Heuristic is a single prediction strategy. Evaluate must be a pure
// function of the history: below MinHistory it returns the neutral
// skip signal, never an error.
type Heuristic interface {
	Name() string
	MinHistory() int
	Evaluate(h *game.History) Signal
}

func clamp(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}

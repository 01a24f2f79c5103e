// Package martingale resolves an entered bet by doubling through a bounded
// number of gale levels until the predicted color hits or the ladder runs out.
package martingale

import (
	"errors"
	"fmt"

	"github.com/vfarias/doubledown/internal/game"
)

// ErrInvalidLevels is returned for a negative gale budget.
var ErrInvalidLevels = errors.New("martingale levels must be non-negative")

// Source supplies the outcomes consumed while a bet is resolving.
type Source interface {
	Next() game.Outcome
}

// Outcome reports how a single entry resolved.
type Outcome struct {
	Won      bool           `json:"won"`
	Level    int            `json:"level"`    // 0 = first attempt
	Color    game.Outcome   `json:"color"`    // the color that was bet
	Rounds   []game.Outcome `json:"rounds"`   // outcomes consumed, in order
	Consumed int            `json:"consumed"` // len(Rounds)
}

// Simulator plays entries against a source of outcomes, appending every
// consumed round to the shared history so later decisions see them.
type Simulator struct {
	maxLevels int
}

// New builds a simulator allowing maxLevels doublings after the initial bet.
// maxLevels 0 means a single attempt with no gale.
func New(maxLevels int) (*Simulator, error) {
	if maxLevels < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevels, maxLevels)
	}
	return &Simulator{maxLevels: maxLevels}, nil
}

// MaxLevels returns the gale budget.
func (s *Simulator) MaxLevels() int {
	return s.maxLevels
}

// Play resolves one entry on color. It draws up to maxLevels+1 outcomes from
// src, appending each to h. The entry wins at the first draw matching color;
// White never matches a color bet.
func (s *Simulator) Play(color game.Outcome, src Source, h *game.History) Outcome {
	result := Outcome{Color: color}
	for level := 0; level <= s.maxLevels; level++ {
		drawn := src.Next()
		h.Append(drawn)
		result.Rounds = append(result.Rounds, drawn)
		result.Consumed++
		if drawn == color {
			result.Won = true
			result.Level = level
			return result
		}
	}
	result.Level = s.maxLevels
	return result
}

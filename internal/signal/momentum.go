package signal

import "github.com/vfarias/doubledown/internal/game"

// Momentum reads the last three rounds directly: three of a color means
// ride it, a perfect three-way alternation means play the next flip.
type Momentum struct {
	continueConf float64
	flipConf     float64
	minRounds    int
}

// NewMomentum builds the momentum heuristic with its fixed confidences.
func NewMomentum(continueConf, flipConf float64, minRounds int) *Momentum {
	return &Momentum{continueConf: continueConf, flipConf: flipConf, minRounds: minRounds}
}

// DefaultMomentum returns the standard momentum setup.
func DefaultMomentum() *Momentum {
	return NewMomentum(68, 65, 8)
}

func (m *Momentum) Name() string    { return "momentum" }
func (m *Momentum) MinHistory() int { return m.minRounds }

func (m *Momentum) Evaluate(h *game.History) Signal {
	if h.Len() < m.minRounds {
		return None(m.Name())
	}
	last3 := h.Tail(3)
	if len(last3) < 3 {
		return None(m.Name())
	}

	if last3[0] == last3[1] && last3[1] == last3[2] && last3[0].IsColor() {
		return Pick(last3[0], m.continueConf, m.Name())
	}
	if last3[0] != last3[1] && last3[1] != last3[2] && last3[2].IsColor() {
		return Pick(last3[2].Opposite(), m.flipConf, m.Name())
	}
	return None(m.Name())
}

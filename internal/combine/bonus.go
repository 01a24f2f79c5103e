package combine

import "github.com/vfarias/doubledown/internal/game"

// confidenceBonus is the optional overlay added on top of consensus
// confidence: small boosts for a supporting 20-round trend, fresh
// 5-round momentum, and a triple-confirmed reversal setup. Applied
// before the cap; the cap is authoritative.
func confidenceBonus(h *game.History, color game.Outcome) float64 {
	if h.Len() < 20 {
		return 0
	}
	bonus := 0.0

	red20 := game.Count(h.Tail(20), game.Red)
	if (color == game.Red && red20 >= 12) || (color == game.Black && red20 <= 8) {
		bonus += 5
	}

	last5 := h.Tail(5)
	red5 := game.Count(last5, game.Red)
	if (color == game.Red && red5 >= 4) || (color == game.Black && red5 <= 1) {
		bonus += 3
	}

	// Three equal leading outcomes in the 5-window with the pick on the
	// other side reads as a confirmed reversal.
	if len(last5) == 5 && last5[0] == last5[1] && last5[1] == last5[2] && last5[0] != color {
		bonus += 4
	}

	return bonus
}

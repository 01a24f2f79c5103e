package game

import "fmt"

// DescribePatterns summarizes the notable shapes in the recent history
// for reporting: raw streaks, heavy alternation, color dominance, paired
// blocks and period-5 cycles. Returns nil when fewer than 10 rounds are
// available or nothing stands out.
func DescribePatterns(h *History) []string {
	if h.Len() < 10 {
		return nil
	}

	var patterns []string
	last20 := h.Tail(20)

	last, _ := h.Last()
	streak := 1
	all := h.Tail(h.Len())
	for i := len(all) - 2; i >= 0 && all[i] == last; i-- {
		streak++
	}
	if streak >= 3 {
		patterns = append(patterns, fmt.Sprintf("streak of %d %s", streak, last))
	}

	if changes := Changes(last20); changes >= 15 {
		patterns = append(patterns, fmt.Sprintf("heavy alternation (%d/%d)", changes, len(last20)-1))
	}

	reds := Count(last20, Red)
	blacks := Count(last20, Black)
	if reds >= 14 {
		patterns = append(patterns, fmt.Sprintf("red dominance (%d/%d)", reds, len(last20)))
	} else if blacks >= 14 {
		patterns = append(patterns, fmt.Sprintf("black dominance (%d/%d)", blacks, len(last20)))
	}

	if pairedBlocks(h.Tail(8)) {
		patterns = append(patterns, "paired blocks over the last 8")
	}

	if h.Len() >= 15 {
		if all[len(all)-5] == all[len(all)-10] && all[len(all)-10] == all[len(all)-15] {
			patterns = append(patterns, fmt.Sprintf("period-5 cycle of %s", all[len(all)-5]))
		}
	}

	return patterns
}

// pairedBlocks reports whether outcomes split into uniform pairs
// (AABB...).
func pairedBlocks(outcomes []Outcome) bool {
	if len(outcomes) < 8 {
		return false
	}
	for i := 0; i+1 < len(outcomes); i += 2 {
		if outcomes[i] != outcomes[i+1] {
			return false
		}
	}
	return true
}

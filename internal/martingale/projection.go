package martingale

// Level describes the projected chance of an entry resolving at one rung of
// the ladder, or of losing outright.
type Level struct {
	Level       int     `json:"level"` // -1 marks the loss row
	Probability float64 `json:"probability"`
	Description string  `json:"description"`
}

// ProjectLevels spreads an entry's confidence across the ladder. The first
// attempt carries the principal probability; each gale level then claims a
// share of what remains (60% for the first, 40% for the rest), and whatever
// is left becomes the loss row. Probabilities always sum to 100.
func ProjectLevels(confidence float64, maxLevels int) []Level {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	levels := []Level{{Level: 0, Probability: confidence, Description: "direct hit"}}
	remainder := 100 - confidence

	for i := 0; i < maxLevels; i++ {
		share := 0.4
		if i == 0 {
			share = 0.6
		}
		p := remainder * share
		remainder -= p
		levels = append(levels, Level{
			Level:       i + 1,
			Probability: p,
			Description: "gale recovery",
		})
	}

	levels = append(levels, Level{
		Level:       -1,
		Probability: remainder,
		Description: "ladder exhausted",
	})
	return levels
}

package signal

import "github.com/vfarias/doubledown/internal/game"

// PremiumConfig parameterizes the single-shot high-confidence detector:
// rather than voting, it scans for a handful of named setups and only
// speaks when one of them is present.
type PremiumConfig struct {
	MinRounds   int `yaml:"min_rounds"`
	MinFiltered int `yaml:"min_filtered"`

	// Strong reversal: a streak inside the band with the opposite color
	// heavily owed over the last 30 colors.
	StreakMin      int     `yaml:"streak_min"`
	StreakMax      int     `yaml:"streak_max"`
	OwedBelow      float64 `yaml:"owed_below"`
	ReversalBase   float64 `yaml:"reversal_base"`
	ReversalSlope  float64 `yaml:"reversal_slope"`
	ReversalStep   float64 `yaml:"reversal_step"`
	ReversalCap    float64 `yaml:"reversal_cap"`
	QuadPairConf   float64 `yaml:"quad_pair_conf"`
	TripleConf     float64 `yaml:"triple_conf"`
	DominanceConf  float64 `yaml:"dominance_conf"`
	CorrectionConf float64 `yaml:"correction_conf"`
}

// DefaultPremiumConfig mirrors the premium detector's constants.
func DefaultPremiumConfig() PremiumConfig {
	return PremiumConfig{
		MinRounds:      30,
		MinFiltered:    25,
		StreakMin:      4,
		StreakMax:      5,
		OwedBelow:      0.38,
		ReversalBase:   78,
		ReversalSlope:  80,
		ReversalStep:   3,
		ReversalCap:    95,
		QuadPairConf:   88,
		TripleConf:     90,
		DominanceConf:  85,
		CorrectionConf: 80,
	}
}

// Premium is the high-confidence pattern detector. Each setup carries
// its own label so run statistics attribute wins to the exact pattern.
type Premium struct {
	cfg PremiumConfig
}

func NewPremium(cfg PremiumConfig) *Premium {
	return &Premium{cfg: cfg}
}

func (p *Premium) Name() string    { return "premium" }
func (p *Premium) MinHistory() int { return p.cfg.MinRounds }

func (p *Premium) Evaluate(h *game.History) Signal {
	if h.Len() < p.cfg.MinRounds {
		return None(p.Name())
	}
	colors := h.NonWhite()
	if len(colors) < p.cfg.MinFiltered {
		return None(p.Name())
	}

	last30 := tailOf(colors, 30)

	// Setup 1: streak in the band with the opposite color well owed.
	last, streak := h.CurrentStreak()
	if streak >= p.cfg.StreakMin && streak <= p.cfg.StreakMax {
		opposite := last.Opposite()
		ratio := float64(game.Count(last30, opposite)) / float64(len(last30))
		if ratio < p.cfg.OwedBelow {
			conf := p.cfg.ReversalBase +
				(0.5-ratio)*p.cfg.ReversalSlope +
				float64(streak-p.cfg.StreakMin)*p.cfg.ReversalStep
			return Pick(opposite, clamp(conf, p.cfg.ReversalCap), "reversal_strong")
		}
	}

	// Setup 2: four alternating pairs (AABBCCDD).
	if matchBlocks(colors, 2, 4) {
		return Pick(colors[len(colors)-1].Opposite(), p.cfg.QuadPairConf, "pattern_2_2")
	}

	// Setup 3: three alternating triples (AAABBB CCC).
	if matchBlocks(colors, 3, 3) {
		return Pick(colors[len(colors)-1].Opposite(), p.cfg.TripleConf, "pattern_3_3")
	}

	// Setup 4: one color dominating every timeframe at once.
	r5 := game.Count(tailOf(colors, 5), game.Red)
	r10 := game.Count(tailOf(colors, 10), game.Red)
	r20 := game.Count(tailOf(colors, 20), game.Red)
	r30 := game.Count(last30, game.Red)
	if r5 >= 4 && r10 >= 7 && r20 >= 13 && r30 >= 19 {
		return Pick(game.Red, p.cfg.DominanceConf, "dominance_red")
	}
	if r5 <= 1 && r10 <= 3 && r20 <= 7 && r30 <= 11 {
		return Pick(game.Black, p.cfg.DominanceConf, "dominance_black")
	}

	// Setup 5: extreme deviation with the starved color already
	// resurfacing in the last five colors.
	if len(last30) >= 30 {
		redRatio := float64(r30) / float64(len(last30))
		if redRatio < 0.33 && r5 >= 2 {
			return Pick(game.Red, p.cfg.CorrectionConf, "correction_red")
		}
		if redRatio > 0.67 && r5 <= 3 {
			return Pick(game.Black, p.cfg.CorrectionConf, "correction_black")
		}
	}

	return None(p.Name())
}

func tailOf(seq []game.Outcome, n int) []game.Outcome {
	if n > len(seq) {
		n = len(seq)
	}
	return seq[len(seq)-n:]
}

package signal

import "github.com/vfarias/doubledown/internal/game"

// ReversalConfig parameterizes the regression-to-mean play: after a
// long same-color run, bet the opposite color, more aggressively when
// that color is under-represented ("owed") in a longer window.
type ReversalConfig struct {
	MinStreak int `yaml:"min_streak"`
	MaxStreak int `yaml:"max_streak,omitempty"` // 0 = unbounded

	OwedWindow int     `yaml:"owed_window"`
	OwedBelow  float64 `yaml:"owed_below"` // opposite ratio that counts as owed

	ConfBase   float64 `yaml:"conf_base"`
	StreakStep float64 `yaml:"streak_step"` // per streak above MinStreak
	OwedSlope  float64 `yaml:"owed_slope"`  // per unit below 0.5
	ConfCap    float64 `yaml:"conf_cap"`

	// The fallback path fires when the opposite color is not owed.
	// RequireOwed disables it entirely (the strictest variants only
	// play confirmed reversals).
	RequireOwed  bool    `yaml:"require_owed"`
	FallbackBase float64 `yaml:"fallback_base"`
	FallbackStep float64 `yaml:"fallback_step"`
	FallbackCap  float64 `yaml:"fallback_cap"`

	MinRounds int `yaml:"min_rounds"`
}

// DefaultReversalConfig mirrors the confirmed-reversal setup: streaks
// of four or more, owed threshold 40% over the last 30 rounds.
func DefaultReversalConfig() ReversalConfig {
	return ReversalConfig{
		MinStreak:    4,
		OwedWindow:   30,
		OwedBelow:    0.40,
		ConfBase:     65,
		StreakStep:   5,
		OwedSlope:    40,
		ConfCap:      88,
		FallbackBase: 60,
		FallbackStep: 4,
		FallbackCap:  80,
		MinRounds:    15,
	}
}

// Reversal bets against same-color runs.
type Reversal struct {
	cfg ReversalConfig
}

func NewReversal(cfg ReversalConfig) *Reversal {
	return &Reversal{cfg: cfg}
}

func (r *Reversal) Name() string    { return "reversal" }
func (r *Reversal) MinHistory() int { return r.cfg.MinRounds }

func (r *Reversal) Evaluate(h *game.History) Signal {
	if h.Len() < r.cfg.MinRounds {
		return None(r.Name())
	}

	last, streak := h.CurrentStreak()
	if streak < r.cfg.MinStreak {
		return None(r.Name())
	}
	if r.cfg.MaxStreak > 0 && streak > r.cfg.MaxStreak {
		return None(r.Name())
	}

	opposite := last.Opposite()
	window := h.TailNonWhite(r.cfg.OwedWindow)
	ratio := 0.5
	if len(window) > 0 {
		ratio = float64(game.Count(window, opposite)) / float64(len(window))
	}

	over := float64(streak - r.cfg.MinStreak)
	if ratio < r.cfg.OwedBelow {
		conf := clamp(r.cfg.ConfBase+over*r.cfg.StreakStep+(0.5-ratio)*r.cfg.OwedSlope, r.cfg.ConfCap)
		return Pick(opposite, conf, r.Name())
	}
	if r.cfg.RequireOwed {
		return None(r.Name())
	}
	conf := clamp(r.cfg.FallbackBase+over*r.cfg.FallbackStep, r.cfg.FallbackCap)
	return Pick(opposite, conf, r.Name())
}

package signal

import "github.com/vfarias/doubledown/internal/game"

// EquilibriumConfig parameterizes the simple forced-balance play over a
// single window: when one color leads by more than MaxLead, bet the
// other.
type EquilibriumConfig struct {
	Window    int     `yaml:"window"`
	MaxLead   float64 `yaml:"max_lead"` // count above the 50/50 expectation
	ConfBase  float64 `yaml:"conf_base"`
	LeadSlope float64 `yaml:"lead_slope"` // per count of excess
	ConfCap   float64 `yaml:"conf_cap"`
	MinRounds int     `yaml:"min_rounds"`
}

// DefaultEquilibriumConfig mirrors the conservative balance play used
// as the lenient variant's fallback.
func DefaultEquilibriumConfig() EquilibriumConfig {
	return EquilibriumConfig{
		Window:    30,
		MaxLead:   5,
		ConfBase:  55,
		LeadSlope: 2,
		ConfCap:   85,
		MinRounds: 30,
	}
}

// Equilibrium bets on the short-window color balance restoring itself.
type Equilibrium struct {
	cfg EquilibriumConfig
}

func NewEquilibrium(cfg EquilibriumConfig) *Equilibrium {
	return &Equilibrium{cfg: cfg}
}

func (e *Equilibrium) Name() string    { return "equilibrium" }
func (e *Equilibrium) MinHistory() int { return e.cfg.MinRounds }

func (e *Equilibrium) Evaluate(h *game.History) Signal {
	if h.Len() < e.cfg.MinRounds {
		return None(e.Name())
	}
	window := h.Tail(e.cfg.Window)
	red := game.Count(window, game.Red)
	black := game.Count(window, game.Black)
	total := red + black
	if total == 0 {
		return None(e.Name())
	}

	expected := float64(total) / 2
	redDev := float64(red) - expected
	blackDev := float64(black) - expected

	switch {
	case redDev > e.cfg.MaxLead:
		conf := clamp(e.cfg.ConfBase+redDev*e.cfg.LeadSlope, e.cfg.ConfCap)
		return Pick(game.Black, conf, e.Name())
	case blackDev > e.cfg.MaxLead:
		conf := clamp(e.cfg.ConfBase+blackDev*e.cfg.LeadSlope, e.cfg.ConfCap)
		return Pick(game.Red, conf, e.Name())
	}
	return None(e.Name())
}

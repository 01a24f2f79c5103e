package signal

import "github.com/vfarias/doubledown/internal/game"

// TrendConfig parameterizes the multi-timeframe trend follower. The
// windows and weights must align; weight is biased toward the shortest
// window so fresh momentum dominates.
type TrendConfig struct {
	Windows    []int     `yaml:"windows"`
	Weights    []float64 `yaml:"weights"`
	EnterAbove float64   `yaml:"enter_above"` // red score to pick red
	EnterBelow float64   `yaml:"enter_below"` // red score to pick black
	ConfBase   float64   `yaml:"conf_base"`
	ConfSlope  float64   `yaml:"conf_slope"` // per unit distance from 0.5
	ConfCap    float64   `yaml:"conf_cap"`
	MinRounds  int       `yaml:"min_rounds"`

	// Agreement, when non-empty, requires the red ratio of the first
	// len(Agreement) windows to individually confirm the pick: window i
	// must be >= Agreement[i] for red, <= 1-Agreement[i] for black.
	Agreement []float64 `yaml:"agreement,omitempty"`
}

// DefaultTrendConfig mirrors the strict multi-timeframe setup: four
// white-filtered windows, entry only on a clear 62/38 split.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		Windows:    []int{5, 10, 20, 40},
		Weights:    []float64{0.40, 0.30, 0.20, 0.10},
		EnterAbove: 0.62,
		EnterBelow: 0.38,
		ConfBase:   60,
		ConfSlope:  150,
		ConfCap:    90,
		MinRounds:  40,
	}
}

// Trend follows the dominant color across several timeframes at once.
type Trend struct {
	cfg TrendConfig
}

func NewTrend(cfg TrendConfig) *Trend {
	return &Trend{cfg: cfg}
}

func (t *Trend) Name() string    { return "trend" }
func (t *Trend) MinHistory() int { return t.cfg.MinRounds }

func (t *Trend) Evaluate(h *game.History) Signal {
	if h.Len() < t.cfg.MinRounds {
		return None(t.Name())
	}

	ratios := make([]float64, len(t.cfg.Windows))
	for i, w := range t.cfg.Windows {
		colors := h.TailNonWhite(w)
		if len(colors) == 0 {
			return None(t.Name())
		}
		ratios[i] = float64(game.Count(colors, game.Red)) / float64(len(colors))
	}

	score := 0.0
	for i, r := range ratios {
		score += r * t.cfg.Weights[i]
	}

	switch {
	case score >= t.cfg.EnterAbove:
		if !t.agrees(ratios, game.Red) {
			return None(t.Name())
		}
		conf := clamp(t.cfg.ConfBase+(score-0.5)*t.cfg.ConfSlope, t.cfg.ConfCap)
		return Pick(game.Red, conf, t.Name())
	case score <= t.cfg.EnterBelow:
		if !t.agrees(ratios, game.Black) {
			return None(t.Name())
		}
		conf := clamp(t.cfg.ConfBase+(0.5-score)*t.cfg.ConfSlope, t.cfg.ConfCap)
		return Pick(game.Black, conf, t.Name())
	}
	return None(t.Name())
}

// agrees checks the optional per-window confirmation thresholds.
func (t *Trend) agrees(ratios []float64, color game.Outcome) bool {
	for i, min := range t.cfg.Agreement {
		if i >= len(ratios) {
			break
		}
		if color == game.Red && ratios[i] < min {
			return false
		}
		if color == game.Black && ratios[i] > 1-min {
			return false
		}
	}
	return true
}

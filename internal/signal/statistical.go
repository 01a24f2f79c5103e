package signal

import (
	"math"

	"github.com/vfarias/doubledown/internal/game"
)

// StatisticalConfig parameterizes the deviation detector: when the
// observed red/black split drifts far from the expected 50/50 of
// non-white rounds, the under-represented color is proposed as due for
// correction.
type StatisticalConfig struct {
	SigmaThreshold float64 `yaml:"sigma_threshold"` // z-like trigger on full history
	DeviationConf  float64 `yaml:"deviation_conf"`

	// Recent-versus-overall divergence: when the red share of the last
	// RecentWindow rounds differs from the overall share by more than
	// RecentDelta, expect a drift back.
	RecentWindow int     `yaml:"recent_window"`
	RecentDelta  float64 `yaml:"recent_delta"`
	RecentConf   float64 `yaml:"recent_conf"`

	MinRounds int `yaml:"min_rounds"`
}

// DefaultStatisticalConfig mirrors the two-sigma correction detector.
func DefaultStatisticalConfig() StatisticalConfig {
	return StatisticalConfig{
		SigmaThreshold: 2.0,
		DeviationConf:  65,
		RecentWindow:   30,
		RecentDelta:    0.10,
		RecentConf:     62,
		MinRounds:      50,
	}
}

// Statistical bets on regression toward the expected color balance.
type Statistical struct {
	cfg StatisticalConfig
}

func NewStatistical(cfg StatisticalConfig) *Statistical {
	return &Statistical{cfg: cfg}
}

func (s *Statistical) Name() string    { return "statistical" }
func (s *Statistical) MinHistory() int { return s.cfg.MinRounds }

func (s *Statistical) Evaluate(h *game.History) Signal {
	if h.Len() < s.cfg.MinRounds {
		return None(s.Name())
	}

	colors := h.NonWhite()
	if len(colors) == 0 {
		return None(s.Name())
	}
	redCount := game.Count(colors, game.Red)
	expected := float64(len(colors)) / 2
	deviation := float64(redCount) - expected

	// Binomial-ish spread around the expectation.
	stdDev := math.Sqrt(expected * 0.5)
	if stdDev > 0 && math.Abs(deviation) > s.cfg.SigmaThreshold*stdDev {
		if deviation > 0 {
			return Pick(game.Black, s.cfg.DeviationConf, s.Name())
		}
		return Pick(game.Red, s.cfg.DeviationConf, s.Name())
	}

	recent := h.TailNonWhite(s.cfg.RecentWindow)
	if len(recent) == 0 {
		return None(s.Name())
	}
	recentRatio := float64(game.Count(recent, game.Red)) / float64(len(recent))
	overallRatio := float64(redCount) / float64(len(colors))

	switch {
	case recentRatio > overallRatio+s.cfg.RecentDelta:
		return Pick(game.Black, s.cfg.RecentConf, s.Name())
	case recentRatio < overallRatio-s.cfg.RecentDelta:
		return Pick(game.Red, s.cfg.RecentConf, s.Name())
	}
	return None(s.Name())
}

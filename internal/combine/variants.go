package combine

import (
	"fmt"
	"sort"

	"github.com/vfarias/doubledown/internal/gate"
	"github.com/vfarias/doubledown/internal/signal"
)

// A variant bundles the heuristic set and combiner constants of one tuned
// strategy generation. Constants were frozen after calibration sweeps; treat
// them as part of the variant's identity rather than knobs to adjust ad hoc.
type variantSpec struct {
	build func() *Combiner
}

var variants = map[string]variantSpec{
	"v2":       {build: newV2},
	"smart":    {build: newSmart},
	"final":    {build: newFinal},
	"premium":  {build: newPremium},
	"ultra":    {build: newUltra},
	"adaptive": {build: newAdaptiveBase},
}

// Variants returns the built-in variant names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewVariant constructs the built-in combiner registered under name.
func NewVariant(name string) (*Combiner, error) {
	spec, ok := variants[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return spec.build(), nil
}

// v2 is the lenient first-generation ensemble: five voters, linear consensus
// confidence, forced entry on the majority color when consensus is thin, and
// an equilibrium fallback when the soft veto trips.
func newV2() *Combiner {
	cfg := Config{
		Name:   "v2",
		OnVeto: VetoFallback,
		Gate: gate.Config{
			MinHistory: 10,
		},
		Weights: map[string]float64{
			"trend":       1.2,
			"reversal":    1.5,
			"pattern":     1.8,
			"equilibrium": 1.0,
			"momentum":    1.1,
		},
		VoteMinConf:      0,
		ConsensusRatio:   0.60,
		ConfModeName:     ConfLinear,
		LinearBase:       50,
		LinearSlope:      80,
		ConfCap:          92,
		BestOverrideConf: 65,
		ForcedEntry:      true,
		ForcedEntryConf:  55,
		FallbackConf:     55,
	}
	c := mustNew(cfg, []signal.Heuristic{
		signal.NewTrend(signal.TrendConfig{
			Windows:    []int{15},
			Weights:    []float64{1.0},
			EnterAbove: 0.60,
			EnterBelow: 0.40,
			ConfBase:   50,
			ConfSlope:  80,
			ConfCap:    90,
			MinRounds:  15,
		}),
		signal.NewReversal(signal.ReversalConfig{
			MinStreak:    4,
			OwedWindow:   30,
			OwedBelow:    0,
			FallbackBase: 60,
			FallbackStep: 5,
			FallbackCap:  85,
			MinRounds:    5,
		}),
		signal.NewPattern(signal.PatternConfig{
			Window:      9,
			MinFiltered: 6,
			PairConf:    72,
			TripleConf:  75,
			MinRounds:   6,
		}),
		signal.NewEquilibrium(signal.DefaultEquilibriumConfig()),
		signal.DefaultMomentum(),
	})
	c.WithSoftVeto(signal.DefaultDisqualify())
	c.WithFallback(signal.NewEquilibrium(signal.DefaultEquilibriumConfig()))
	return c
}

// smart tightens v2: a filter gate instead of the soft veto, mean-based
// confidence with situational bonuses, and a minimum vote confidence so weak
// signals no longer dilute the tally.
func newSmart() *Combiner {
	cfg := Config{
		Name:   "smart",
		OnVeto: VetoSkip,
		Gate: gate.Config{
			MinHistory:     15,
			WhiteWindow:    15,
			MaxWhite:       2,
			BalanceWindow:  15,
			BalanceMaxDiff: 2,
			ChaosWindow:    15,
			MaxChanges:     11,
			MaxStreak:      7,
		},
		Weights: map[string]float64{
			"trend":       1.0,
			"reversal":    1.5,
			"pattern":     1.8,
			"statistical": 1.2,
		},
		VoteMinConf:      56,
		ConsensusRatio:   0.65,
		ConfModeName:     ConfMean,
		ConfBonus:        0,
		BonusOverlay:     true,
		ConfCap:          92,
		BestOverrideConf: 70,
		EntryConfFloor:   65,
	}
	return mustNew(cfg, []signal.Heuristic{
		signal.NewTrend(signal.TrendConfig{
			Windows:    []int{5, 10, 20, 30},
			Weights:    []float64{0.35, 0.30, 0.20, 0.15},
			EnterAbove: 0.58,
			EnterBelow: 0.42,
			ConfBase:   60,
			ConfSlope:  120,
			ConfCap:    88,
			MinRounds:  30,
		}),
		signal.NewReversal(signal.ReversalConfig{
			MinStreak:    4,
			OwedWindow:   30,
			OwedBelow:    0.35,
			ConfBase:     67,
			StreakStep:   5,
			OwedSlope:    0,
			ConfCap:      85,
			FallbackBase: 62,
			FallbackStep: 5,
			FallbackCap:  80,
			MinRounds:    8,
		}),
		signal.NewPattern(signal.PatternConfig{
			Window:      12,
			MinFiltered: 6,
			PairConf:    75,
			TripleConf:  78,
			MinRounds:   12,
		}),
		signal.NewStatistical(signal.DefaultStatisticalConfig()),
	})
}

// final is the production trio: trend, reversal and pattern with the full
// filter gate and a 70% consensus requirement.
func newFinal() *Combiner {
	return mustNew(finalConfig(), finalHeuristics())
}

func finalConfig() Config {
	return Config{
		Name:   "final",
		OnVeto: VetoSkip,
		Gate:   gate.DefaultConfig(),
		Weights: map[string]float64{
			"trend":    1.0,
			"reversal": 1.3,
			"pattern":  1.5,
		},
		VoteMinConf:      60,
		ConsensusRatio:   0.70,
		ConfModeName:     ConfMean,
		ConfBonus:        5,
		ConfCap:          92,
		BestOverrideConf: 75,
	}
}

func finalHeuristics() []signal.Heuristic {
	return []signal.Heuristic{
		signal.NewTrend(signal.DefaultTrendConfig()),
		signal.NewReversal(signal.DefaultReversalConfig()),
		signal.NewPattern(signal.DefaultPatternConfig()),
	}
}

// premium runs the single high-bar detector and only enters at 78+.
func newPremium() *Combiner {
	cfg := Config{
		Name:   "premium",
		OnVeto: VetoSkip,
		Gate: gate.Config{
			MinHistory:  25,
			WhiteWindow: 10,
			MaxWhite:    1,
			ChaosWindow: 15,
			MaxChanges:  11,
		},
		Weights: map[string]float64{
			"premium": 1.0,
		},
		VoteMinConf:    0,
		ConsensusRatio: 0.75,
		ConfModeName:   ConfMean,
		ConfCap:        95,
		EntryConfFloor: 78,
	}
	return mustNew(cfg, []signal.Heuristic{
		signal.NewPremium(signal.DefaultPremiumConfig()),
	})
}

// ultra is the most selective preset: five-window trend with per-window
// agreement, strict owed-side reversal, quad and triple patterns only, and a
// two-voters-or-85 agreement rule on top of a 75% consensus.
func newUltra() *Combiner {
	cfg := Config{
		Name:   "ultra",
		OnVeto: VetoSkip,
		Gate: gate.Config{
			MinHistory:         30,
			WhiteWindow:        15,
			MaxWhite:           1,
			BalanceWindow:      20,
			BalanceMinRatio:    0.20,
			ChaosWindow:        20,
			MaxChanges:         13,
			MaxStreak:          6,
			AltWindow:          10,
			AltMinColors:       7,
			CheckContradiction: true,
		},
		Weights: map[string]float64{
			"trend":    1.0,
			"reversal": 1.3,
			"pattern":  2.0,
		},
		VoteMinConf:      70,
		ConsensusRatio:   0.75,
		ConfModeName:     ConfMean,
		ConfBonus:        3,
		ConfCap:          95,
		RequireTwoAgree:  true,
		TwoAgreeOrBest:   85,
		BestOverrideConf: 85,
		EntryConfFloor:   65,
	}
	return mustNew(cfg, []signal.Heuristic{
		signal.NewTrend(signal.TrendConfig{
			Windows:    []int{5, 10, 20, 30, 50},
			Weights:    []float64{0.35, 0.25, 0.20, 0.12, 0.08},
			EnterAbove: 0.65,
			EnterBelow: 0.35,
			ConfBase:   70,
			ConfSlope:  100,
			ConfCap:    92,
			MinRounds:  50,
			Agreement:  []float64{0.60, 0.55, 0.52},
		}),
		signal.NewReversal(signal.ReversalConfig{
			MinStreak:  4,
			MaxStreak:  5,
			OwedWindow: 40,
			OwedBelow:  0.42,
			ConfBase:   72,
			StreakStep: 5,
			OwedSlope:  50,
			ConfCap:    90,
			RequireOwed: true,
			MinRounds:  20,
		}),
		signal.NewPattern(signal.PatternConfig{
			Window:      15,
			MinFiltered: 10,
			QuadConf:    85,
			TripleConf:  88,
			MinRounds:   15,
		}),
	})
}

// adaptive reuses the production trio and constants, extended with the three
// contrarian voters the strategy selector can hand control to. Wrap the
// result with NewAdaptive to get per-strategy performance tracking.
func newAdaptiveBase() *Combiner {
	cfg := finalConfig()
	cfg.Name = "adaptive"
	cfg.Weights["equilibrium"] = 1.0
	cfg.Weights["alternation"] = 1.0
	cfg.Weights["fibonacci"] = 1.0
	heuristics := append(finalHeuristics(),
		signal.NewEquilibrium(signal.DefaultEquilibriumConfig()),
		signal.DefaultAlternation(),
		signal.DefaultFibonacci(),
	)
	return mustNew(cfg, heuristics)
}

func mustNew(cfg Config, heuristics []signal.Heuristic) *Combiner {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("combine: bad built-in variant %s: %v", cfg.Name, err))
	}
	return New(cfg, heuristics)
}

// Package gate implements the hard-veto layer: a fixed-priority bank
// of disqualifying conditions over the trailing history. The first
// condition that fires wins and later ones are not evaluated.
package gate

import (
	"fmt"

	"github.com/vfarias/doubledown/internal/game"
)

// Skip reasons, in priority order.
const (
	ReasonInsufficientHistory = "insufficient_history"
	ReasonRecentWhite         = "recent_white"
	ReasonBalanced            = "balanced"
	ReasonChaotic             = "chaotic"
	ReasonLongStreak          = "long_streak"
	ReasonAlternating         = "alternating"
	ReasonContradictoryTrend  = "contradictory_trend"
	ReasonOK                  = "ok"
)

// Config holds the per-variant gate thresholds. A zero window or
// threshold disables that condition; MinHistory is always enforced.
type Config struct {
	MinHistory int `yaml:"min_history"`

	// Recent white: MaxWhite or more whites in the trailing WhiteWindow.
	WhiteWindow int `yaml:"white_window"`
	MaxWhite    int `yaml:"max_white"`

	// Balance: either a relative rule |red-black|/(red+black) <
	// BalanceMinRatio over BalanceWindow, or an absolute rule
	// |red-black| <= BalanceMaxDiff (the lenient variant's form).
	BalanceWindow   int     `yaml:"balance_window"`
	BalanceMinRatio float64 `yaml:"balance_min_ratio"`
	BalanceMaxDiff  int     `yaml:"balance_max_diff"`

	// Chaos: MaxChanges or more adjacent flips in ChaosWindow.
	ChaosWindow int `yaml:"chaos_window"`
	MaxChanges  int `yaml:"max_changes"`

	// Streak: current white-excluded run of MaxStreak or longer.
	MaxStreak int `yaml:"max_streak"`

	// Alternation: at least AltMinColors non-white outcomes in the
	// trailing AltWindow, all strictly alternating.
	AltWindow    int `yaml:"alt_window"`
	AltMinColors int `yaml:"alt_min_colors"`

	// Contradiction: short-window trend direction disagrees with the
	// medium-window direction (the strictest variant only).
	CheckContradiction bool `yaml:"check_contradiction"`
}

// DefaultConfig returns the standard strict gate.
func DefaultConfig() Config {
	return Config{
		MinHistory:      20,
		WhiteWindow:     20,
		MaxWhite:        2,
		BalanceWindow:   20,
		BalanceMinRatio: 0.15,
		ChaosWindow:     20,
		MaxChanges:      14,
		MaxStreak:       6,
		AltWindow:       10,
		AltMinColors:    8,
	}
}

// Check records one evaluated condition for the decision log.
type Check struct {
	Name        string `json:"name"`
	Triggered   bool   `json:"triggered"`
	Description string `json:"description"`
}

// Result is the gate verdict. Checks lists the conditions evaluated up
// to and including the one that fired.
type Result struct {
	Skip   bool    `json:"skip"`
	Reason string  `json:"reason"`
	Checks []Check `json:"checks"`
}

// Gate evaluates the veto conditions in fixed priority order.
type Gate struct {
	cfg Config
}

func New(cfg Config) *Gate {
	return &Gate{cfg: cfg}
}

// Config returns the gate's thresholds.
func (g *Gate) Config() Config {
	return g.cfg
}

// Evaluate runs the conditions against the trailing history. The gate
// never errors: short history is a skip, not a failure.
func (g *Gate) Evaluate(h *game.History) Result {
	res := Result{Reason: ReasonOK}

	if trip := g.checkHistory(h, &res); trip {
		return res
	}
	if trip := g.checkWhite(h, &res); trip {
		return res
	}
	if trip := g.checkBalance(h, &res); trip {
		return res
	}
	if trip := g.checkChaos(h, &res); trip {
		return res
	}
	if trip := g.checkStreak(h, &res); trip {
		return res
	}
	if trip := g.checkAlternation(h, &res); trip {
		return res
	}
	if trip := g.checkContradiction(h, &res); trip {
		return res
	}
	return res
}

func (g *Gate) trip(res *Result, reason, desc string) bool {
	res.Skip = true
	res.Reason = reason
	res.Checks = append(res.Checks, Check{Name: reason, Triggered: true, Description: desc})
	return true
}

func (g *Gate) pass(res *Result, reason, desc string) bool {
	res.Checks = append(res.Checks, Check{Name: reason, Description: desc})
	return false
}

func (g *Gate) checkHistory(h *game.History, res *Result) bool {
	if h.Len() < g.cfg.MinHistory {
		return g.trip(res, ReasonInsufficientHistory,
			fmt.Sprintf("%d rounds recorded, need %d", h.Len(), g.cfg.MinHistory))
	}
	return g.pass(res, ReasonInsufficientHistory,
		fmt.Sprintf("%d rounds recorded", h.Len()))
}

func (g *Gate) checkWhite(h *game.History, res *Result) bool {
	if g.cfg.WhiteWindow == 0 || g.cfg.MaxWhite == 0 {
		return false
	}
	whites := game.Count(h.Tail(g.cfg.WhiteWindow), game.White)
	if whites >= g.cfg.MaxWhite {
		return g.trip(res, ReasonRecentWhite,
			fmt.Sprintf("%d whites in last %d rounds", whites, g.cfg.WhiteWindow))
	}
	return g.pass(res, ReasonRecentWhite,
		fmt.Sprintf("%d whites in last %d rounds", whites, g.cfg.WhiteWindow))
}

func (g *Gate) checkBalance(h *game.History, res *Result) bool {
	if g.cfg.BalanceWindow == 0 || (g.cfg.BalanceMinRatio == 0 && g.cfg.BalanceMaxDiff == 0) {
		return false
	}
	window := h.Tail(g.cfg.BalanceWindow)
	red := game.Count(window, game.Red)
	black := game.Count(window, game.Black)
	total := red + black
	if total == 0 {
		return false
	}
	diff := red - black
	if diff < 0 {
		diff = -diff
	}

	if g.cfg.BalanceMinRatio > 0 {
		balance := float64(diff) / float64(total)
		if balance < g.cfg.BalanceMinRatio {
			return g.trip(res, ReasonBalanced,
				fmt.Sprintf("balance %.2f below %.2f over %d rounds", balance, g.cfg.BalanceMinRatio, g.cfg.BalanceWindow))
		}
		return g.pass(res, ReasonBalanced, fmt.Sprintf("balance %.2f", balance))
	}
	if diff <= g.cfg.BalanceMaxDiff {
		return g.trip(res, ReasonBalanced,
			fmt.Sprintf("red/black split %d/%d too even", red, black))
	}
	return g.pass(res, ReasonBalanced, fmt.Sprintf("red/black split %d/%d", red, black))
}

func (g *Gate) checkChaos(h *game.History, res *Result) bool {
	if g.cfg.ChaosWindow == 0 || g.cfg.MaxChanges == 0 {
		return false
	}
	changes := game.Changes(h.Tail(g.cfg.ChaosWindow))
	if changes >= g.cfg.MaxChanges {
		return g.trip(res, ReasonChaotic,
			fmt.Sprintf("%d flips in last %d rounds", changes, g.cfg.ChaosWindow))
	}
	return g.pass(res, ReasonChaotic,
		fmt.Sprintf("%d flips in last %d rounds", changes, g.cfg.ChaosWindow))
}

func (g *Gate) checkStreak(h *game.History, res *Result) bool {
	if g.cfg.MaxStreak == 0 {
		return false
	}
	color, streak := h.CurrentStreak()
	if streak >= g.cfg.MaxStreak {
		return g.trip(res, ReasonLongStreak,
			fmt.Sprintf("%d straight %s", streak, color))
	}
	return g.pass(res, ReasonLongStreak,
		fmt.Sprintf("current streak %d", streak))
}

func (g *Gate) checkAlternation(h *game.History, res *Result) bool {
	if g.cfg.AltWindow == 0 || g.cfg.AltMinColors == 0 {
		return false
	}
	colors := h.TailNonWhite(g.cfg.AltWindow)
	if len(colors) < g.cfg.AltMinColors {
		return false
	}
	if game.Alternating(colors) {
		return g.trip(res, ReasonAlternating,
			fmt.Sprintf("%d colors in perfect alternation", len(colors)))
	}
	return g.pass(res, ReasonAlternating, "no perfect alternation")
}

// checkContradiction compares the 5-round and 10-round trend calls; a
// disagreement between two committed directions is unplayable.
func (g *Gate) checkContradiction(h *game.History, res *Result) bool {
	if !g.cfg.CheckContradiction {
		return false
	}
	short := trendDirection(game.Count(h.Tail(5), game.Red), 3, 2)
	medium := trendDirection(game.Count(h.Tail(10), game.Red), 6, 4)
	if short != trendNeutral && medium != trendNeutral && short != medium {
		return g.trip(res, ReasonContradictoryTrend,
			"5-round and 10-round trends disagree")
	}
	return g.pass(res, ReasonContradictoryTrend, "trends aligned")
}

type trendDir int

const (
	trendNeutral trendDir = iota
	trendRed
	trendBlack
)

func trendDirection(redCount, redAt, blackAt int) trendDir {
	switch {
	case redCount >= redAt:
		return trendRed
	case redCount <= blackAt:
		return trendBlack
	default:
		return trendNeutral
	}
}

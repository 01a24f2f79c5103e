package combine

import (
	"github.com/vfarias/doubledown/internal/game"
	"github.com/vfarias/doubledown/internal/gate"
	"github.com/vfarias/doubledown/internal/signal"
)

// Decision reasons beyond the gate's own.
const (
	ReasonNoSignal      = "no_signal"
	ReasonLowConsensus  = "low_consensus"
	ReasonLowConfidence = "low_confidence"
	ReasonConsensus     = "consensus"
	ReasonBestOverride  = "best_override"
	ReasonForcedEntry   = "forced_entry"
	ReasonFallback      = "fallback"
	ReasonDisqualified  = "disqualified"
	ReasonLeader        = "leading_strategy"
)

// Decision is the combiner's verdict for one round.
type Decision struct {
	Color      game.Outcome `json:"color"`
	Confidence float64      `json:"confidence"`
	Strategy   string       `json:"strategy"`
	Enter      bool         `json:"enter"`
	Reason     string       `json:"reason"`
	Gate       gate.Result  `json:"gate"`
}

// Combiner aggregates heuristic signals into decisions. It holds no
// per-round state: deciding on the same history twice yields the same
// decision.
type Combiner struct {
	cfg        Config
	gate       *gate.Gate
	heuristics []signal.Heuristic
	softVeto   signal.Heuristic // optional, lenient variant
	fallback   signal.Heuristic // optional, used under VetoFallback
}

// New assembles a combiner. The config must already be validated.
func New(cfg Config, heuristics []signal.Heuristic) *Combiner {
	return &Combiner{
		cfg:        cfg,
		gate:       gate.New(cfg.Gate),
		heuristics: heuristics,
	}
}

// WithSoftVeto installs a disqualification heuristic whose skip acts as
// an additional veto ahead of voting.
func (c *Combiner) WithSoftVeto(h signal.Heuristic) *Combiner {
	c.softVeto = h
	return c
}

// WithFallback installs the conservative heuristic consulted under
// VetoFallback.
func (c *Combiner) WithFallback(h signal.Heuristic) *Combiner {
	c.fallback = h
	return c
}

// Name returns the variant name.
func (c *Combiner) Name() string {
	return c.cfg.Name
}

// Config returns the variant constants.
func (c *Combiner) Config() Config {
	return c.cfg
}

// Heuristics exposes the active strategy set.
func (c *Combiner) Heuristics() []signal.Heuristic {
	return c.heuristics
}

// Decide evaluates the gate, collects surviving signals and applies the
// consensus rules.
func (c *Combiner) Decide(h *game.History) Decision {
	gateRes := c.gate.Evaluate(h)
	if gateRes.Skip {
		return c.onVeto(h, gateRes)
	}

	if c.softVeto != nil {
		if sig := c.softVeto.Evaluate(h); sig.Skip {
			vetoed := gateRes
			vetoed.Skip = true
			vetoed.Reason = ReasonDisqualified
			return c.onVeto(h, vetoed)
		}
	}

	tally := map[game.Outcome]float64{}
	voters := map[game.Outcome]int{}
	confs := map[game.Outcome][]float64{}
	var best signal.Signal

	for _, heuristic := range c.heuristics {
		sig := heuristic.Evaluate(h)
		if sig.Skip || !sig.Color.IsColor() || sig.Confidence < c.cfg.VoteMinConf {
			continue
		}
		weight := c.cfg.weight(heuristic.Name())
		tally[sig.Color] += weight * sig.Confidence / 100
		voters[sig.Color]++
		confs[sig.Color] = append(confs[sig.Color], sig.Confidence)
		if sig.Confidence > best.Confidence {
			best = sig
		}
	}

	total := tally[game.Red] + tally[game.Black]
	if total == 0 {
		return Decision{Enter: false, Reason: ReasonNoSignal, Gate: gateRes}
	}
	redRatio := tally[game.Red] / total

	majority := game.Red
	ratio := redRatio
	if redRatio < 0.5 {
		majority = game.Black
		ratio = 1 - redRatio
	}

	if ratio >= c.cfg.ConsensusRatio && c.agreementHolds(voters[majority], best) {
		conf := c.consensusConfidence(h, majority, ratio, confs[majority])
		return c.enter(majority, conf, best.Label, ReasonConsensus, gateRes)
	}

	if c.cfg.BestOverrideConf > 0 && best.Confidence >= c.cfg.BestOverrideConf {
		return c.enter(best.Color, best.Confidence, best.Label, ReasonBestOverride, gateRes)
	}

	if c.cfg.ForcedEntry {
		return c.enter(majority, c.cfg.ForcedEntryConf, "low_confidence", ReasonForcedEntry, gateRes)
	}

	return Decision{Enter: false, Reason: ReasonLowConsensus, Gate: gateRes}
}

// agreementHolds applies the strictest variants' extra consensus
// requirement: two independent voters or one standout.
func (c *Combiner) agreementHolds(votersForMajority int, best signal.Signal) bool {
	if !c.cfg.RequireTwoAgree {
		return true
	}
	return votersForMajority >= 2 || best.Confidence >= c.cfg.TwoAgreeOrBest
}

func (c *Combiner) consensusConfidence(h *game.History, color game.Outcome, ratio float64, contributing []float64) float64 {
	var conf float64
	switch c.cfg.ConfModeName {
	case ConfLinear:
		conf = c.cfg.LinearBase + (ratio-0.5)*c.cfg.LinearSlope
	default:
		conf = mean(contributing) + c.cfg.ConfBonus
	}
	if c.cfg.BonusOverlay {
		conf += confidenceBonus(h, color)
	}
	if conf > c.cfg.ConfCap {
		conf = c.cfg.ConfCap
	}
	return conf
}

// enter applies the entry confidence floor before committing.
func (c *Combiner) enter(color game.Outcome, conf float64, strategy, reason string, gateRes gate.Result) Decision {
	if c.cfg.EntryConfFloor > 0 && conf < c.cfg.EntryConfFloor {
		return Decision{Enter: false, Reason: ReasonLowConfidence, Gate: gateRes}
	}
	if strategy == "" {
		strategy = "combined"
	}
	return Decision{
		Color:      color,
		Confidence: conf,
		Strategy:   strategy,
		Enter:      true,
		Reason:     reason,
		Gate:       gateRes,
	}
}

// onVeto resolves a fired gate (or soft veto) per the configured mode.
func (c *Combiner) onVeto(h *game.History, gateRes gate.Result) Decision {
	if c.cfg.OnVeto == VetoFallback && c.fallback != nil {
		if sig := c.fallback.Evaluate(h); !sig.Skip && sig.Color.IsColor() {
			return Decision{
				Color:      sig.Color,
				Confidence: c.cfg.FallbackConf,
				Strategy:   "conservative_" + c.fallback.Name(),
				Enter:      true,
				Reason:     ReasonFallback,
				Gate:       gateRes,
			}
		}
	}
	return Decision{Enter: false, Reason: gateRes.Reason, Gate: gateRes}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 60
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

package combine

import (
	"github.com/vfarias/doubledown/internal/game"
	"github.com/vfarias/doubledown/internal/perf"
)

// Adaptive layers strategy selection on top of a voting combiner. While the
// leading strategy is winning, its own signal drives the decision; after a
// recent loss the full weighted vote takes over until a leader proves itself
// again. Resolve feeds outcomes back so the selector can rotate leaders.
type Adaptive struct {
	base     *Combiner
	selector *perf.Selector
	session  string
}

// NewAdaptive wraps the named built-in adaptive variant with a performance
// store. Each Adaptive owns one session in the store.
func NewAdaptive(store perf.Store, session string) *Adaptive {
	base := newAdaptiveBase()
	return &Adaptive{
		base:     base,
		selector: perf.NewSelector(store, base.cfg.Weights),
		session:  session,
	}
}

// Name returns the variant name.
func (a *Adaptive) Name() string {
	return a.base.Name()
}

// Leader returns the strategy currently driving decisions.
func (a *Adaptive) Leader() string {
	return a.selector.Current(a.session)
}

// Decide evaluates the next round. The filter gate always applies; past the
// gate, a winning leader's own signal is used directly with the ensemble
// confidence as a floor.
func (a *Adaptive) Decide(h *game.History) Decision {
	base := a.base.Decide(h)
	if base.Gate.Skip {
		return base
	}
	leader := a.selector.Current(a.session)
	if a.selector.RecentLoss(a.session, leader) {
		return base
	}
	for _, heur := range a.base.heuristics {
		if heur.Name() != leader {
			continue
		}
		sig := heur.Evaluate(h)
		if sig.Skip || !sig.Color.IsColor() {
			break
		}
		conf := sig.Confidence
		if base.Enter && base.Confidence > conf {
			conf = base.Confidence
		}
		if conf > a.base.cfg.ConfCap {
			conf = a.base.cfg.ConfCap
		}
		return Decision{
			Color:      sig.Color,
			Confidence: conf,
			Strategy:   sig.Label,
			Enter:      true,
			Reason:     ReasonLeader,
			Gate:       base.Gate,
		}
	}
	return base
}

// Resolve reports the result of an entered decision, crediting the strategy
// that produced it, and returns the strategy leading the next round.
func (a *Adaptive) Resolve(strategy string, won bool) string {
	return a.selector.Observe(a.session, strategy, won)
}

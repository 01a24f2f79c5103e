package perf

import "sort"

// Selector picks which strategy should lead the next decision. Each candidate
// carries a static weight reflecting how well it performed in calibration;
// live scores then reward recent win rate and penalize loss streaks.
type Selector struct {
	store   Store
	weights map[string]float64
	current map[string]string // session -> leading strategy
}

// NewSelector builds a selector over the given candidate strategies. The
// weights map keys define the candidate set.
func NewSelector(store Store, weights map[string]float64) *Selector {
	return &Selector{
		store:   store,
		weights: weights,
		current: make(map[string]string),
	}
}

// Current returns the session's leading strategy, defaulting to the highest
// weighted candidate before any entry resolves.
func (s *Selector) Current(session string) string {
	if name, ok := s.current[session]; ok {
		return name
	}
	name := s.best(session, "")
	s.current[session] = name
	return name
}

// Score rates a strategy for selection purposes.
func (s *Selector) Score(session, strategy string) float64 {
	rec := s.store.Get(session, strategy)
	return rec.WinRate()*s.weights[strategy] - 0.1*float64(rec.LastLossCount)
}

// RecentLoss reports whether the strategy's latest resolved entries are
// losses.
func (s *Selector) RecentLoss(session, strategy string) bool {
	return s.store.Get(session, strategy).LastLossCount > 0
}

// Observe records a resolved entry against the strategy that produced it and
// switches leaders once the current leader has lost twice in a row. The
// replacement is the best scoring other candidate; the incumbent is never
// re-picked while it is the one being replaced.
func (s *Selector) Observe(session, strategy string, won bool) string {
	leader := s.Current(session)
	s.store.Update(session, strategy, won)
	if won {
		return leader
	}
	if s.store.Get(session, leader).LastLossCount >= 2 {
		next := s.best(session, leader)
		if next != "" {
			s.current[session] = next
			return next
		}
	}
	return leader
}

// best returns the highest scoring candidate excluding the named strategy.
// With a single candidate the exclusion is ignored.
func (s *Selector) best(session, excluding string) string {
	names := make([]string, 0, len(s.weights))
	for name := range s.weights {
		if name == excluding && len(s.weights) > 1 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	bestName := ""
	bestScore := 0.0
	for _, name := range names {
		score := s.Score(session, name)
		if bestName == "" || score > bestScore {
			bestName, bestScore = name, score
		}
	}
	return bestName
}

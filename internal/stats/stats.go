// Package stats accumulates the results of a simulation run. A RunStats is
// owned by the driving goroutine and carries no lock; parallel runs each keep
// their own accumulator and Merge at the end.
package stats

import "github.com/vfarias/doubledown/internal/game"

// RunStats aggregates decisions and resolutions over one run.
type RunStats struct {
	Rounds      int            `json:"rounds"`
	Entries     int            `json:"entries"`
	Wins        int            `json:"wins"`
	WinsByLevel map[int]int    `json:"wins_by_level"`
	Losses      int            `json:"losses"`
	Skips       int            `json:"skips"`
	SkipReasons map[string]int `json:"skip_reasons"`

	ByStrategy map[string]*StrategyStats `json:"by_strategy"`

	ConfidenceSum float64 `json:"confidence_sum"`
	Whites        int     `json:"whites"`
}

// StrategyStats attributes wins and losses to the heuristic labels behind
// entered decisions.
type StrategyStats struct {
	Entries int `json:"entries"`
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
}

// New returns an empty accumulator.
func New() *RunStats {
	return &RunStats{
		WinsByLevel: make(map[int]int),
		SkipReasons: make(map[string]int),
		ByStrategy:  make(map[string]*StrategyStats),
	}
}

// RecordRound notes one observed outcome regardless of entry.
func (s *RunStats) RecordRound(o game.Outcome) {
	s.Rounds++
	if o == game.White {
		s.Whites++
	}
}

// RecordSkip notes a skipped round and the reason behind it.
func (s *RunStats) RecordSkip(reason string) {
	s.Skips++
	s.SkipReasons[reason]++
}

// RecordEntry notes an entered decision before its resolution is known.
func (s *RunStats) RecordEntry(strategy string, confidence float64) {
	s.Entries++
	s.ConfidenceSum += confidence
	s.strategy(strategy).Entries++
}

// RecordWin resolves an entry as won at the given ladder level.
func (s *RunStats) RecordWin(strategy string, level int) {
	s.Wins++
	s.WinsByLevel[level]++
	s.strategy(strategy).Wins++
}

// RecordLoss resolves an entry as lost.
func (s *RunStats) RecordLoss(strategy string) {
	s.Losses++
	s.strategy(strategy).Losses++
}

// WinRate returns wins over resolved entries, 0 when nothing resolved.
func (s *RunStats) WinRate() float64 {
	resolved := s.Wins + s.Losses
	if resolved == 0 {
		return 0
	}
	return float64(s.Wins) / float64(resolved)
}

// EntryRate returns entries over decided rounds, 0 when nothing decided.
func (s *RunStats) EntryRate() float64 {
	decided := s.Entries + s.Skips
	if decided == 0 {
		return 0
	}
	return float64(s.Entries) / float64(decided)
}

// AvgConfidence returns the mean confidence over entered decisions.
func (s *RunStats) AvgConfidence() float64 {
	if s.Entries == 0 {
		return 0
	}
	return s.ConfidenceSum / float64(s.Entries)
}

// Merge folds other into s. Neither accumulator may be in concurrent use.
func (s *RunStats) Merge(other *RunStats) {
	s.Rounds += other.Rounds
	s.Entries += other.Entries
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Skips += other.Skips
	s.ConfidenceSum += other.ConfidenceSum
	s.Whites += other.Whites
	for level, n := range other.WinsByLevel {
		s.WinsByLevel[level] += n
	}
	for reason, n := range other.SkipReasons {
		s.SkipReasons[reason] += n
	}
	for name, st := range other.ByStrategy {
		dst := s.strategy(name)
		dst.Entries += st.Entries
		dst.Wins += st.Wins
		dst.Losses += st.Losses
	}
}

func (s *RunStats) strategy(name string) *StrategyStats {
	st, ok := s.ByStrategy[name]
	if !ok {
		st = &StrategyStats{}
		s.ByStrategy[name] = st
	}
	return st
}

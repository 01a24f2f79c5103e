// Package perf tracks per-strategy outcomes so the adaptive combiner can
// shift weight away from strategies that are currently losing.
package perf

import "sync"

// Record accumulates the lifetime and recent performance of one strategy.
type Record struct {
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Streak        int `json:"streak"`          // current win streak
	LastLossCount int `json:"last_loss_count"` // consecutive recent losses
}

// Total returns the number of resolved entries attributed to the strategy.
func (r Record) Total() int {
	return r.Wins + r.Losses
}

// WinRate returns the historical win rate, or the neutral prior 0.5 when the
// strategy has no resolved entries yet.
func (r Record) WinRate() float64 {
	if r.Total() == 0 {
		return 0.5
	}
	return float64(r.Wins) / float64(r.Total())
}

// Store keeps per-strategy records keyed by session.
type Store interface {
	// Get returns the record for a strategy, zero-valued when unseen.
	Get(session, strategy string) Record
	// Update applies one resolved entry to a strategy's record.
	Update(session, strategy string, won bool)
	// Records returns a copy of every record in a session.
	Records(session string) map[string]Record
}

// MemoryStore is an in-process Store safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]Record)}
}

func (s *MemoryStore) Get(session, strategy string) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[session][strategy]
}

func (s *MemoryStore) Update(session, strategy string, won bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, ok := s.sessions[session]
	if !ok {
		recs = make(map[string]Record)
		s.sessions[session] = recs
	}
	rec := recs[strategy]
	if won {
		rec.Wins++
		rec.Streak++
		rec.LastLossCount = 0
	} else {
		rec.Losses++
		rec.Streak = 0
		rec.LastLossCount++
	}
	recs[strategy] = rec
}

func (s *MemoryStore) Records(session string) map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Record, len(s.sessions[session]))
	for name, rec := range s.sessions[session] {
		out[name] = rec
	}
	return out
}

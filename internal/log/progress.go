// Package log provides terminal feedback for long simulation runs on top
// of the structured zerolog output.
package log

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ProgressConfig configures progress indicator behavior.
type ProgressConfig struct {
	ShowBar     bool
	ShowETA     bool
	BarWidth    int
	MinInterval time.Duration // minimum delay between repaints
}

// DefaultProgressConfig returns the standard interactive configuration.
func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{
		ShowBar:     true,
		ShowETA:     true,
		BarWidth:    20,
		MinInterval: 100 * time.Millisecond,
	}
}

// QuietProgressConfig suppresses the bar and ETA, leaving plain counts.
func QuietProgressConfig() ProgressConfig {
	return ProgressConfig{}
}

// ProgressIndicator tracks a run through a known number of rounds and
// repaints a single status line as it advances.
type ProgressIndicator struct {
	mu        sync.Mutex
	name      string
	total     int
	current   int
	startTime time.Time
	lastPaint time.Time
	cfg       ProgressConfig
}

// NewProgressIndicator creates an indicator for a run of total rounds.
func NewProgressIndicator(name string, total int, cfg ProgressConfig) *ProgressIndicator {
	if cfg.BarWidth <= 0 {
		cfg.BarWidth = 20
	}
	return &ProgressIndicator{
		name:      name,
		total:     total,
		startTime: time.Now(),
		cfg:       cfg,
	}
}

// Update sets the current round count.
func (pi *ProgressIndicator) Update(current int) {
	pi.UpdateWithMessage(current, "")
}

// UpdateWithMessage sets the current round count and appends a status
// message. Repaints are throttled to MinInterval.
func (pi *ProgressIndicator) UpdateWithMessage(current int, message string) {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	pi.current = current
	now := time.Now()
	if pi.cfg.MinInterval > 0 && now.Sub(pi.lastPaint) < pi.cfg.MinInterval {
		return
	}
	pi.lastPaint = now
	fmt.Print("\r\033[K" + pi.line(message))
}

// Finish clears the status line and logs the completion.
func (pi *ProgressIndicator) Finish() {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	duration := time.Since(pi.startTime).Round(time.Millisecond)
	fmt.Printf("\r\033[K%s: %d rounds in %v\n", pi.name, pi.current, duration)
	log.Info().
		Str("name", pi.name).
		Int("rounds", pi.current).
		Dur("duration", duration).
		Msg("Run completed")
}

// Fail clears the status line and logs the failure reason.
func (pi *ProgressIndicator) Fail(reason string) {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	fmt.Printf("\r\033[K%s failed: %s\n", pi.name, reason)
	log.Error().
		Str("name", pi.name).
		Int("rounds", pi.current).
		Str("reason", reason).
		Msg("Run failed")
}

// line renders the status line for the current state.
func (pi *ProgressIndicator) line(message string) string {
	var out strings.Builder
	out.WriteString(pi.name)

	if pi.cfg.ShowBar && pi.total > 0 {
		filled := pi.cfg.BarWidth * pi.current / pi.total
		if filled > pi.cfg.BarWidth {
			filled = pi.cfg.BarWidth
		}
		out.WriteString(" [")
		out.WriteString(strings.Repeat("█", filled))
		out.WriteString(strings.Repeat("░", pi.cfg.BarWidth-filled))
		pct := float64(pi.current) / float64(pi.total) * 100
		out.WriteString(fmt.Sprintf("] %d/%d (%.1f%%)", pi.current, pi.total, pct))
	} else if pi.total > 0 {
		out.WriteString(fmt.Sprintf(" %d/%d", pi.current, pi.total))
	} else {
		out.WriteString(fmt.Sprintf(" %d", pi.current))
	}

	if pi.cfg.ShowETA && pi.total > 0 && pi.current > 0 && pi.current < pi.total {
		elapsed := time.Since(pi.startTime)
		rate := float64(pi.current) / elapsed.Seconds()
		if rate > 0 {
			eta := time.Duration(float64(pi.total-pi.current)/rate) * time.Second
			out.WriteString(fmt.Sprintf(" ETA %v", eta.Round(time.Second)))
		}
	}

	if message != "" {
		out.WriteString(" - ")
		out.WriteString(message)
	}
	return out.String()
}

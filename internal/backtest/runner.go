// Package backtest drives strategy variants over simulated outcome streams
// and writes result artifacts.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vfarias/doubledown/internal/combine"
	"github.com/vfarias/doubledown/internal/feed"
	"github.com/vfarias/doubledown/internal/game"
	plog "github.com/vfarias/doubledown/internal/log"
	"github.com/vfarias/doubledown/internal/martingale"
	"github.com/vfarias/doubledown/internal/perf"
	"github.com/vfarias/doubledown/internal/stats"
)

// Config represents one simulation run.
type Config struct {
	Games          int                `yaml:"games"`           // decision rounds to simulate
	MaxLevels      int                `yaml:"max_levels"`      // gale budget per entry
	MinConfidence  float64            `yaml:"min_confidence"`  // driver-side entry floor
	Variant        string             `yaml:"variant"`         // built-in variant name
	Seed           int64              `yaml:"seed"`            // generator seed, 0 = time-based
	InitialHistory int                `yaml:"initial_history"` // rounds drawn before deciding starts
	Probabilities  game.Probabilities `yaml:"probabilities"`
	OutputDir      string             `yaml:"output_dir"`
	Progress       bool               `yaml:"progress"`
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() *Config {
	return &Config{
		Games:          1000,
		MaxLevels:      2,
		MinConfidence:  70,
		Variant:        "final",
		InitialHistory: 50,
		Probabilities:  game.DefaultProbabilities(),
		OutputDir:      "./artifacts/backtest",
	}
}

// Decider is the decision surface shared by the voting and adaptive
// combiners.
type Decider interface {
	Name() string
	Decide(h *game.History) combine.Decision
}

// Result is the artifact of one completed run.
type Result struct {
	RunID     string          `json:"run_id"`
	Variant   string          `json:"variant"`
	Config    *Config         `json:"config"`
	Stats     *stats.RunStats `json:"stats"`
	WinRate   float64         `json:"win_rate"`
	EntryRate float64         `json:"entry_rate"`
	Patterns  []string        `json:"patterns,omitempty"` // table state at run end
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}

// Runner executes a single backtest run.
type Runner struct {
	config  *Config
	decider Decider
	sim     *martingale.Simulator
	writer  *Writer
	metrics *stats.Metrics
	clock   Clock
}

// Clock interface for time operations (injectable for testing).
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using real time.
type RealClock struct{}

func (r *RealClock) Now() time.Time {
	return time.Now()
}

// NewRunner creates a runner for the configured variant. The adaptive
// variant gets a fresh in-memory performance store per run.
func NewRunner(config *Config) (*Runner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", config.Games)
	}

	var decider Decider
	if config.Variant == "adaptive" {
		decider = combine.NewAdaptive(perf.NewMemoryStore(), uuid.NewString())
	} else {
		c, err := combine.NewVariant(config.Variant)
		if err != nil {
			return nil, err
		}
		decider = c
	}

	sim, err := martingale.New(config.MaxLevels)
	if err != nil {
		return nil, err
	}

	return &Runner{
		config:  config,
		decider: decider,
		sim:     sim,
		writer:  NewWriter(config.OutputDir),
		clock:   &RealClock{},
	}, nil
}

// SetClock sets the clock implementation (for testing).
func (r *Runner) SetClock(clock Clock) {
	r.clock = clock
}

// SetDecider overrides the configured decider (for testing and sweeps).
func (r *Runner) SetDecider(d Decider) {
	r.decider = d
}

// SetMetrics attaches a Prometheus metrics set updated as the run proceeds.
func (r *Runner) SetMetrics(m *stats.Metrics) {
	r.metrics = m
}

// Run plays the configured number of decision rounds against a seeded
// generator and writes artifacts to the output directory.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	seed := r.config.Seed
	if seed == 0 {
		seed = r.clock.Now().UnixNano()
	}
	gen, err := game.NewGenerator(r.config.Probabilities, seed)
	if err != nil {
		return nil, err
	}
	return r.RunStream(ctx, feed.NewGeneratorStream(gen))
}

// RunStream plays the run against an arbitrary outcome stream. Finite
// streams end the run early without error.
func (r *Runner) RunStream(ctx context.Context, stream feed.Stream) (*Result, error) {
	startedAt := r.clock.Now()
	runStats := stats.New()
	history := game.NewHistory(r.config.Games + r.config.InitialHistory)
	src := &streamSource{ctx: ctx, stream: stream}

	log.Info().
		Str("variant", r.decider.Name()).
		Int("games", r.config.Games).
		Int("max_levels", r.config.MaxLevels).
		Float64("min_confidence", r.config.MinConfidence).
		Msg("Starting backtest run")

	var prog *plog.ProgressIndicator
	if r.config.Progress {
		prog = plog.NewProgressIndicator("backtest "+r.decider.Name(), r.config.Games, plog.DefaultProgressConfig())
	}
	report := func(rounds int) {
		if prog != nil {
			prog.UpdateWithMessage(rounds, fmt.Sprintf("entries=%d win=%.1f%%",
				runStats.Entries, runStats.WinRate()*100))
		}
	}

	for i := 0; i < r.config.InitialHistory; i++ {
		o, err := stream.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to seed history: %w", err)
		}
		history.Append(o)
		runStats.RecordRound(o)
	}

	rounds := 0
	for rounds < r.config.Games {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d := r.decider.Decide(history)
		if d.Enter && d.Confidence >= r.config.MinConfidence {
			runStats.RecordEntry(d.Strategy, d.Confidence)
			r.observeEntry()

			outcome := r.sim.Play(d.Color, src, history)
			if src.err != nil {
				break
			}
			for _, o := range outcome.Rounds {
				runStats.RecordRound(o)
			}
			rounds++
			r.resolve(runStats, d.Strategy, outcome)
			report(rounds)
			continue
		}

		reason := d.Reason
		if d.Enter {
			reason = combine.ReasonLowConfidence
		}
		runStats.RecordSkip(reason)
		r.observeSkip(reason)

		o, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, feed.ErrExhausted) {
				break
			}
			return nil, err
		}
		history.Append(o)
		runStats.RecordRound(o)
		rounds++
		report(rounds)
	}

	if prog != nil {
		prog.Finish()
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Variant:   r.decider.Name(),
		Config:    r.config,
		Stats:     runStats,
		WinRate:   runStats.WinRate(),
		EntryRate: runStats.EntryRate(),
		Patterns:  game.DescribePatterns(history),
		StartedAt: startedAt,
		Duration:  r.clock.Now().Sub(startedAt),
	}

	if r.config.OutputDir != "" {
		if err := r.writer.WriteResult(result); err != nil {
			return nil, fmt.Errorf("failed to write results: %w", err)
		}
		if err := r.writer.WriteReport(result); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	log.Info().
		Str("run_id", result.RunID).
		Int("entries", runStats.Entries).
		Int("wins", runStats.Wins).
		Int("losses", runStats.Losses).
		Float64("win_rate", result.WinRate).
		Msg("Backtest run completed")

	return result, nil
}

func (r *Runner) resolve(runStats *stats.RunStats, strategy string, outcome martingale.Outcome) {
	if outcome.Won {
		runStats.RecordWin(strategy, outcome.Level)
	} else {
		runStats.RecordLoss(strategy)
	}
	if a, ok := r.decider.(*combine.Adaptive); ok {
		a.Resolve(strategy, outcome.Won)
	}
	if r.metrics != nil {
		if outcome.Won {
			r.metrics.ObserveWin(outcome.Level)
		} else {
			r.metrics.ObserveLoss()
		}
		for range outcome.Rounds {
			r.metrics.ObserveRound()
		}
		r.metrics.SetWinRate(runStats.WinRate())
	}
}

func (r *Runner) observeEntry() {
	if r.metrics != nil {
		r.metrics.ObserveEntry()
	}
}

func (r *Runner) observeSkip(reason string) {
	if r.metrics != nil {
		r.metrics.ObserveSkip(reason)
		r.metrics.ObserveRound()
	}
}

// streamSource adapts a context-bound stream to the simulator's draw
// interface. The first error sticks and all later draws return White so the
// caller can abort the entry.
type streamSource struct {
	ctx    context.Context
	stream feed.Stream
	err    error
}

func (s *streamSource) Next() game.Outcome {
	if s.err != nil {
		return game.White
	}
	o, err := s.stream.Next(s.ctx)
	if err != nil {
		s.err = err
		return game.White
	}
	return o
}

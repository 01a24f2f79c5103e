package backtest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfarias/doubledown/internal/combine"
	"github.com/vfarias/doubledown/internal/feed"
	"github.com/vfarias/doubledown/internal/game"
	"github.com/vfarias/doubledown/internal/martingale"
)

// scriptedDecider returns the same decision every round.
type scriptedDecider struct {
	name     string
	decision combine.Decision
}

func (s scriptedDecider) Name() string                          { return s.name }
func (s scriptedDecider) Decide(_ *game.History) combine.Decision { return s.decision }

func alwaysEnter(color game.Outcome, conf float64) scriptedDecider {
	return scriptedDecider{
		name: "scripted",
		decision: combine.Decision{
			Color:      color,
			Confidence: conf,
			Strategy:   "scripted",
			Enter:      true,
			Reason:     combine.ReasonConsensus,
		},
	}
}

func neverEnter() scriptedDecider {
	return scriptedDecider{
		name:     "scripted",
		decision: combine.Decision{Reason: combine.ReasonNoSignal},
	}
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func TestRunStreamResolvesEntriesDeterministically(t *testing.T) {
	cfg := &Config{
		Games:          4,
		MaxLevels:      1,
		MinConfidence:  70,
		Variant:        "final",
		Seed:           1,
		InitialHistory: 2,
	}
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	runner.SetDecider(alwaysEnter(game.Red, 80))
	runner.SetClock(&fixedClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})

	// Two warmup rounds, then four games: win at level 0, win at
	// level 1, loss after two draws, win at level 0.
	stream := feed.NewSliceStream([]game.Outcome{
		game.Black, game.Black,
		game.Red,
		game.Black, game.Red,
		game.Black, game.Black,
		game.Red,
	})

	res, err := runner.RunStream(context.Background(), stream)
	require.NoError(t, err)

	assert.Equal(t, "scripted", res.Variant)
	assert.NotEmpty(t, res.RunID)
	assert.Zero(t, res.Duration)

	s := res.Stats
	assert.Equal(t, 8, s.Rounds)
	assert.Equal(t, 4, s.Entries)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 0, s.Skips)
	assert.Equal(t, map[int]int{0: 2, 1: 1}, s.WinsByLevel)
	assert.InDelta(t, 0.75, res.WinRate, 1e-9)
	assert.InDelta(t, 1.0, res.EntryRate, 1e-9)

	scripted := s.ByStrategy["scripted"]
	require.NotNil(t, scripted)
	assert.Equal(t, 4, scripted.Entries)
}

func TestRunStreamChargesOneGamePerDecision(t *testing.T) {
	cfg := &Config{Games: 10, MaxLevels: 2, MinConfidence: 70, Variant: "final"}
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	runner.SetDecider(alwaysEnter(game.Red, 80))

	// Every entry loses the full ladder and consumes three draws, but
	// each still counts as a single game against the budget.
	draws := make([]game.Outcome, 30)
	for i := range draws {
		draws[i] = game.Black
	}
	res, err := runner.RunStream(context.Background(), feed.NewSliceStream(draws))
	require.NoError(t, err)

	assert.Equal(t, 10, res.Stats.Entries)
	assert.Equal(t, 10, res.Stats.Losses)
	assert.Equal(t, 30, res.Stats.Rounds)
}

func TestRunStreamEndsWhenStreamRunsOut(t *testing.T) {
	cfg := &Config{Games: 10, MinConfidence: 70, Variant: "final"}
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	runner.SetDecider(neverEnter())

	stream := feed.NewSliceStream([]game.Outcome{game.Red, game.Black, game.White})
	res, err := runner.RunStream(context.Background(), stream)
	require.NoError(t, err, "a finite stream ends the run, not fails it")

	assert.Equal(t, 3, res.Stats.Rounds)
	assert.Equal(t, 4, res.Stats.Skips, "the final decision finds the stream empty")
	assert.Equal(t, 1, res.Stats.Whites)
	assert.Equal(t, map[string]int{combine.ReasonNoSignal: 4}, res.Stats.SkipReasons)
}

func TestRunStreamAppliesDriverConfidenceFloor(t *testing.T) {
	cfg := &Config{Games: 2, MinConfidence: 70, Variant: "final"}
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	runner.SetDecider(alwaysEnter(game.Red, 60))

	stream := feed.NewSliceStream([]game.Outcome{game.Black, game.Black})
	res, err := runner.RunStream(context.Background(), stream)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Stats.Entries)
	assert.Equal(t, map[string]int{combine.ReasonLowConfidence: 2}, res.Stats.SkipReasons,
		"an entry below the driver floor is skipped as low confidence")
}

func TestRunStreamHonorsContext(t *testing.T) {
	cfg := &Config{Games: 5, Variant: "final", InitialHistory: 0}
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	runner.SetDecider(neverEnter())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.RunStream(ctx, feed.NewSliceStream([]game.Outcome{game.Red}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner(&Config{Games: 0, Variant: "final"})
	assert.Error(t, err)

	_, err = NewRunner(&Config{Games: 10, Variant: "bogus"})
	assert.True(t, errors.Is(err, combine.ErrUnknownVariant))

	_, err = NewRunner(&Config{Games: 10, Variant: "final", MaxLevels: -1})
	assert.True(t, errors.Is(err, martingale.ErrInvalidLevels))
}

func TestNewRunnerDefaultsNilConfig(t *testing.T) {
	runner, err := NewRunner(nil)
	require.NoError(t, err)
	assert.NotNil(t, runner)
}

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Games:         3,
		MinConfidence: 70,
		Variant:       "final",
		Seed:          1,
		Probabilities: game.DefaultProbabilities(),
		OutputDir:     dir,
	}
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	runner.SetDecider(neverEnter())

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	dated := filepath.Join(dir, time.Now().Format("2006-01-02"))
	jsonPath := filepath.Join(dated, "run-"+res.RunID+".json")
	mdPath := filepath.Join(dated, "run-"+res.RunID+".md")
	assert.FileExists(t, jsonPath)
	assert.FileExists(t, mdPath)

	report, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(report), "# Backtest Report: scripted"))
	assert.True(t, strings.Contains(string(report), "## Summary"))
}

func TestRunSeededIsReproducible(t *testing.T) {
	run := func() *Result {
		cfg := &Config{
			Games:          200,
			MaxLevels:      2,
			MinConfidence:  70,
			Variant:        "final",
			Seed:           42,
			InitialHistory: 30,
			Probabilities:  game.DefaultProbabilities(),
		}
		runner, err := NewRunner(cfg)
		require.NoError(t, err)
		res, err := runner.Run(context.Background())
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, a.Stats.Rounds, b.Stats.Rounds)
	assert.Equal(t, a.Stats.Entries, b.Stats.Entries)
	assert.Equal(t, a.Stats.Wins, b.Stats.Wins)
	assert.Equal(t, a.Stats.Losses, b.Stats.Losses)
	assert.Equal(t, a.Stats.SkipReasons, b.Stats.SkipReasons)
}

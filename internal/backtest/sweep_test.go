package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfarias/doubledown/internal/stats"
)

func sweepStats(rounds, wins, losses int) *stats.RunStats {
	s := stats.New()
	s.Rounds = rounds
	s.Wins = wins
	s.Losses = losses
	return s
}

func TestSweepCoversGridAndMergesTotals(t *testing.T) {
	cfg := &SweepConfig{
		Variant:        "final",
		Games:          100,
		Seed:           5,
		MaxLevels:      []int{0, 1},
		MinConfidence:  []float64{70, 80},
		Workers:        2,
		InitialHistory: 30,
	}
	res, err := Sweep(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Cells, 4)

	// Cells come back sorted by gale budget, then entry floor.
	assert.Equal(t, 0, res.Cells[0].MaxLevels)
	assert.Equal(t, 70.0, res.Cells[0].MinConfidence)
	assert.Equal(t, 0, res.Cells[1].MaxLevels)
	assert.Equal(t, 80.0, res.Cells[1].MinConfidence)
	assert.Equal(t, 1, res.Cells[2].MaxLevels)
	assert.Equal(t, 1, res.Cells[3].MaxLevels)

	totalRounds, totalEntries := 0, 0
	for _, c := range res.Cells {
		totalRounds += c.Stats.Rounds
		totalEntries += c.Stats.Entries
	}
	assert.Equal(t, totalRounds, res.Merged.Rounds)
	assert.Equal(t, totalEntries, res.Merged.Entries)
}

func TestSweepIsReproducible(t *testing.T) {
	cfg := func() *SweepConfig {
		return &SweepConfig{
			Variant:        "final",
			Games:          100,
			Seed:           9,
			MaxLevels:      []int{0, 2},
			MinConfidence:  []float64{70},
			Workers:        4,
			InitialHistory: 30,
		}
	}
	a, err := Sweep(context.Background(), cfg())
	require.NoError(t, err)
	b, err := Sweep(context.Background(), cfg())
	require.NoError(t, err)

	require.Len(t, b.Cells, len(a.Cells))
	for i := range a.Cells {
		assert.Equal(t, a.Cells[i].Stats.Rounds, b.Cells[i].Stats.Rounds, "cell %d", i)
		assert.Equal(t, a.Cells[i].Stats.Wins, b.Cells[i].Stats.Wins, "cell %d", i)
		assert.Equal(t, a.Cells[i].Stats.Losses, b.Cells[i].Stats.Losses, "cell %d", i)
	}
}

func TestSweepRejectsEmptyGrid(t *testing.T) {
	_, err := Sweep(context.Background(), &SweepConfig{
		Variant:       "final",
		Games:         10,
		MinConfidence: []float64{70},
	})
	assert.Error(t, err)
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, &SweepConfig{
		Variant:       "final",
		Games:         1000,
		MaxLevels:     []int{0, 1, 2},
		MinConfidence: []float64{60, 70, 80},
		Workers:       2,
	})
	assert.Error(t, err)
}

func TestBestPrefersWinRateThenEntryRate(t *testing.T) {
	res := &SweepResult{Cells: []Cell{
		{MaxLevels: 0, MinConfidence: 70, Stats: sweepStats(100, 10, 10), WinRate: 0.50, EntryRate: 0.20},
		{MaxLevels: 1, MinConfidence: 70, Stats: sweepStats(100, 12, 8), WinRate: 0.60, EntryRate: 0.10},
		{MaxLevels: 2, MinConfidence: 70, Stats: sweepStats(100, 12, 8), WinRate: 0.60, EntryRate: 0.30},
	}}
	best := res.Best()
	require.NotNil(t, best)
	assert.Equal(t, 2, best.MaxLevels, "ties on win rate break toward the busier cell")

	assert.Nil(t, (&SweepResult{}).Best())
}

package backtest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vfarias/doubledown/internal/game"
	"github.com/vfarias/doubledown/internal/stats"
)

// SweepConfig spans a calibration grid over gale budgets and entry floors.
type SweepConfig struct {
	Variant        string    `yaml:"variant"`
	Games          int       `yaml:"games"`
	Seed           int64     `yaml:"seed"`
	MaxLevels      []int     `yaml:"max_levels"`
	MinConfidence  []float64 `yaml:"min_confidence"`
	Workers        int       `yaml:"workers"`
	InitialHistory int       `yaml:"initial_history"`
}

// DefaultSweepConfig returns the standard calibration grid.
func DefaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		Variant:        "final",
		Games:          2000,
		Seed:           1,
		MaxLevels:      []int{0, 1, 2, 3, 4},
		MinConfidence:  []float64{60, 65, 70, 75, 80},
		Workers:        4,
		InitialHistory: 50,
	}
}

// Cell is one grid point's outcome.
type Cell struct {
	MaxLevels     int             `json:"max_levels"`
	MinConfidence float64         `json:"min_confidence"`
	Stats         *stats.RunStats `json:"stats"`
	WinRate       float64         `json:"win_rate"`
	EntryRate     float64         `json:"entry_rate"`
}

// SweepResult holds every cell plus the merged totals.
type SweepResult struct {
	Variant string          `json:"variant"`
	Cells   []Cell          `json:"cells"`
	Merged  *stats.RunStats `json:"merged"`
}

// Best returns the cell with the highest win rate, breaking ties on entry
// rate so a strategy that actually plays beats one that mostly sits out.
func (r *SweepResult) Best() *Cell {
	if len(r.Cells) == 0 {
		return nil
	}
	best := &r.Cells[0]
	for i := 1; i < len(r.Cells); i++ {
		c := &r.Cells[i]
		if c.WinRate > best.WinRate ||
			(c.WinRate == best.WinRate && c.EntryRate > best.EntryRate) {
			best = c
		}
	}
	return best
}

// Sweep runs the grid with a bounded worker pool. Every cell gets its own
// history, accumulator and deterministically derived seed, so cells are
// independent and the sweep is reproducible.
func Sweep(ctx context.Context, cfg *SweepConfig) (*SweepResult, error) {
	if cfg == nil {
		cfg = DefaultSweepConfig()
	}
	if len(cfg.MaxLevels) == 0 || len(cfg.MinConfidence) == 0 {
		return nil, fmt.Errorf("sweep grid is empty")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	type job struct {
		index     int
		maxLevels int
		minConf   float64
	}

	jobs := make([]job, 0, len(cfg.MaxLevels)*len(cfg.MinConfidence))
	for _, ml := range cfg.MaxLevels {
		for _, mc := range cfg.MinConfidence {
			jobs = append(jobs, job{index: len(jobs), maxLevels: ml, minConf: mc})
		}
	}

	log.Info().
		Str("variant", cfg.Variant).
		Int("cells", len(jobs)).
		Int("workers", workers).
		Msg("Starting calibration sweep")

	cells := make([]Cell, len(jobs))
	errs := make([]error, len(jobs))
	jobCh := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				cells[j.index], errs[j.index] = runCell(ctx, cfg, j.maxLevels, j.minConf, int64(j.index))
			}
		}()
	}

	for _, j := range jobs {
		select {
		case <-ctx.Done():
			close(jobCh)
			wg.Wait()
			return nil, ctx.Err()
		case jobCh <- j:
		}
	}
	close(jobCh)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := stats.New()
	for i := range cells {
		merged.Merge(cells[i].Stats)
	}

	result := &SweepResult{Variant: cfg.Variant, Cells: cells, Merged: merged}
	sort.Slice(result.Cells, func(i, j int) bool {
		if result.Cells[i].MaxLevels != result.Cells[j].MaxLevels {
			return result.Cells[i].MaxLevels < result.Cells[j].MaxLevels
		}
		return result.Cells[i].MinConfidence < result.Cells[j].MinConfidence
	})

	if best := result.Best(); best != nil {
		log.Info().
			Int("max_levels", best.MaxLevels).
			Float64("min_confidence", best.MinConfidence).
			Float64("win_rate", best.WinRate).
			Msg("Calibration sweep completed")
	}
	return result, nil
}

func runCell(ctx context.Context, cfg *SweepConfig, maxLevels int, minConf float64, offset int64) (Cell, error) {
	runCfg := &Config{
		Games:          cfg.Games,
		MaxLevels:      maxLevels,
		MinConfidence:  minConf,
		Variant:        cfg.Variant,
		Seed:           cfg.Seed + offset,
		InitialHistory: cfg.InitialHistory,
		Probabilities:  game.DefaultProbabilities(),
	}
	runner, err := NewRunner(runCfg)
	if err != nil {
		return Cell{}, err
	}
	res, err := runner.Run(ctx)
	if err != nil {
		return Cell{}, err
	}
	return Cell{
		MaxLevels:     maxLevels,
		MinConfidence: minConf,
		Stats:         res.Stats,
		WinRate:       res.WinRate,
		EntryRate:     res.EntryRate,
	}, nil
}

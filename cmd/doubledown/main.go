package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vfarias/doubledown/internal/backtest"
	"github.com/vfarias/doubledown/internal/combine"
	"github.com/vfarias/doubledown/internal/game"
	"github.com/vfarias/doubledown/internal/martingale"
	"github.com/vfarias/doubledown/internal/stats"
)

const (
	appName = "doubledown"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Double-or-nothing strategy evaluator for the red/black/white game",
		Version: version,
		Long: `doubledown simulates heuristic betting strategies against the
red/black/white outcome game and reports their real win rates.

Strategy variants combine trend, reversal and pattern heuristics through a
weighted vote, gated by history-quality checks, and resolve entries with a
bounded martingale ladder.`,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one backtest of a strategy variant",
		Long:  "Plays a variant over a seeded outcome stream and writes JSON and markdown artifacts",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Int("games", 1000, "Decision rounds to simulate")
	simulateCmd.Flags().Int("max-levels", 2, "Martingale levels after the initial bet")
	simulateCmd.Flags().Float64("min-confidence", 70, "Minimum confidence to enter")
	simulateCmd.Flags().String("variant", "final", fmt.Sprintf("Strategy variant (%s)", strings.Join(combine.Variants(), "|")))
	simulateCmd.Flags().Int64("seed", 0, "Generator seed (0 = time-based)")
	simulateCmd.Flags().Int("initial-history", 50, "Rounds drawn before deciding starts")
	simulateCmd.Flags().String("out", "./artifacts/backtest", "Output directory for artifacts")
	simulateCmd.Flags().String("presets", "", "Optional YAML preset file overriding variant constants")
	simulateCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	simulateCmd.Flags().Bool("progress", false, "Log progress during the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep a calibration grid over gale budgets and entry floors",
		Long:  "Runs every max-levels x min-confidence cell in parallel and reports the best cell",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Int("games", 2000, "Decision rounds per cell")
	sweepCmd.Flags().String("variant", "final", "Strategy variant to sweep")
	sweepCmd.Flags().Int64("seed", 1, "Base seed; each cell derives its own")
	sweepCmd.Flags().IntSlice("max-levels", []int{0, 1, 2, 3, 4}, "Gale budgets to try")
	sweepCmd.Flags().Float64Slice("min-confidence", []float64{60, 65, 70, 75, 80}, "Entry floors to try")
	sweepCmd.Flags().Int("workers", 4, "Parallel workers")
	sweepCmd.Flags().Int("initial-history", 50, "Rounds drawn before deciding starts in each cell")

	calibrateCmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Check generator frequencies against configured probabilities",
		Long:  "Draws a large sample and prints observed vs configured color frequencies",
		RunE:  runCalibrate,
	}
	calibrateCmd.Flags().Int("draws", 100000, "Sample size")
	calibrateCmd.Flags().Int64("seed", 1, "Generator seed")

	levelsCmd := &cobra.Command{
		Use:   "levels",
		Short: "Project per-level win probabilities for an entry",
		RunE:  runLevels,
	}
	levelsCmd.Flags().Float64("confidence", 70, "Entry confidence")
	levelsCmd.Flags().Int("max-levels", 2, "Martingale levels after the initial bet")

	variantsCmd := &cobra.Command{
		Use:   "variants",
		Short: "List built-in strategy variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range combine.Variants() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(simulateCmd, sweepCmd, calibrateCmd, levelsCmd, variantsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	games, _ := cmd.Flags().GetInt("games")
	maxLevels, _ := cmd.Flags().GetInt("max-levels")
	minConf, _ := cmd.Flags().GetFloat64("min-confidence")
	variant, _ := cmd.Flags().GetString("variant")
	seed, _ := cmd.Flags().GetInt64("seed")
	initialHistory, _ := cmd.Flags().GetInt("initial-history")
	outputDir, _ := cmd.Flags().GetString("out")
	presetPath, _ := cmd.Flags().GetString("presets")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	progress, _ := cmd.Flags().GetBool("progress")

	cfg := &backtest.Config{
		Games:          games,
		MaxLevels:      maxLevels,
		MinConfidence:  minConf,
		Variant:        variant,
		Seed:           seed,
		InitialHistory: initialHistory,
		Probabilities:  game.DefaultProbabilities(),
		OutputDir:      outputDir,
		Progress:       progress,
	}

	runner, err := backtest.NewRunner(cfg)
	if err != nil {
		return err
	}

	if presetPath != "" {
		loader := combine.NewPresetLoader()
		if err := loader.LoadFromFile(presetPath); err != nil {
			return err
		}
		c, err := loader.Get(variant)
		if err != nil {
			return err
		}
		runner.SetDecider(c)
	}

	if metricsAddr != "" {
		m := stats.NewMetrics()
		runner.SetMetrics(m)
		go func() {
			log.Info().Str("addr", metricsAddr).Msg("Serving metrics")
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Variant:    %s\n", result.Variant)
	fmt.Printf("Entries:    %d of %d rounds (%.1f%%)\n", result.Stats.Entries, result.Stats.Rounds, result.EntryRate*100)
	fmt.Printf("Win rate:   %.1f%% (%d wins, %d losses)\n", result.WinRate*100, result.Stats.Wins, result.Stats.Losses)
	fmt.Printf("Avg conf:   %.1f\n", result.Stats.AvgConfidence())
	if outputDir != "" {
		fmt.Printf("Artifacts:  %s\n", outputDir)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	games, _ := cmd.Flags().GetInt("games")
	variant, _ := cmd.Flags().GetString("variant")
	seed, _ := cmd.Flags().GetInt64("seed")
	maxLevels, _ := cmd.Flags().GetIntSlice("max-levels")
	minConf, _ := cmd.Flags().GetFloat64Slice("min-confidence")
	workers, _ := cmd.Flags().GetInt("workers")
	initialHistory, _ := cmd.Flags().GetInt("initial-history")

	cfg := &backtest.SweepConfig{
		Variant:        variant,
		Games:          games,
		Seed:           seed,
		MaxLevels:      maxLevels,
		MinConfidence:  minConf,
		Workers:        workers,
		InitialHistory: initialHistory,
	}

	result, err := backtest.Sweep(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s %-14s %-9s %-10s %s\n", "maxLevels", "minConfidence", "entries", "winRate", "entryRate")
	for _, cell := range result.Cells {
		fmt.Printf("%-10d %-14.0f %-9d %-10.1f %.1f%%\n",
			cell.MaxLevels, cell.MinConfidence, cell.Stats.Entries, cell.WinRate*100, cell.EntryRate*100)
	}
	if best := result.Best(); best != nil {
		fmt.Printf("\nBest: max-levels=%d min-confidence=%.0f (win rate %.1f%%)\n",
			best.MaxLevels, best.MinConfidence, best.WinRate*100)
	}
	return nil
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	draws, _ := cmd.Flags().GetInt("draws")
	seed, _ := cmd.Flags().GetInt64("seed")

	probs := game.DefaultProbabilities()
	gen, err := game.NewGenerator(probs, seed)
	if err != nil {
		return err
	}

	counts := map[game.Outcome]int{}
	for i := 0; i < draws; i++ {
		counts[gen.Next()]++
	}

	fmt.Printf("%-8s %-10s %-10s\n", "color", "observed", "expected")
	for _, o := range []game.Outcome{game.Red, game.Black, game.White} {
		observed := float64(counts[o]) / float64(draws)
		expected := probs.Red
		switch o {
		case game.Black:
			expected = probs.Black
		case game.White:
			expected = probs.White
		}
		fmt.Printf("%-8s %-10.4f %-10.4f\n", o, observed, expected)
	}
	return nil
}

func runLevels(cmd *cobra.Command, args []string) error {
	confidence, _ := cmd.Flags().GetFloat64("confidence")
	maxLevels, _ := cmd.Flags().GetInt("max-levels")

	for _, level := range martingale.ProjectLevels(confidence, maxLevels) {
		name := fmt.Sprintf("level %d", level.Level)
		if level.Level == 0 {
			name = "principal"
		} else if level.Level == -1 {
			name = "loss"
		}
		fmt.Printf("%-10s %6.2f%%  %s\n", name, level.Probability, level.Description)
	}
	return nil
}

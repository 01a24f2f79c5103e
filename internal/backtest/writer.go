package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Writer handles writing run artifacts to disk.
type Writer struct {
	outputDir string
}

// NewWriter creates an artifact writer rooted in a dated directory.
func NewWriter(outputDir string) *Writer {
	dateDir := time.Now().Format("2006-01-02")
	return &Writer{outputDir: filepath.Join(outputDir, dateDir)}
}

// GetOutputDir returns the full output directory path.
func (w *Writer) GetOutputDir() string {
	return w.outputDir
}

// WriteResult writes the full result as indented JSON.
func (w *Writer) WriteResult(result *Result) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	resultFile := filepath.Join(w.outputDir, fmt.Sprintf("run-%s.json", result.RunID))
	file, err := os.Create(resultFile)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// WriteReport writes a markdown summary of the run.
func (w *Writer) WriteReport(result *Result) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reportFile := filepath.Join(w.outputDir, fmt.Sprintf("run-%s.md", result.RunID))
	file, err := os.Create(reportFile)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(w.generateMarkdownReport(result)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (w *Writer) generateMarkdownReport(result *Result) string {
	var report strings.Builder
	s := result.Stats

	report.WriteString(fmt.Sprintf("# Backtest Report: %s\n\n", result.Variant))
	report.WriteString(fmt.Sprintf("**Run ID**: %s\n", result.RunID))
	report.WriteString(fmt.Sprintf("**Started**: %s\n", result.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	report.WriteString(fmt.Sprintf("**Duration**: %v\n", result.Duration))
	report.WriteString(fmt.Sprintf("**Configuration**: games=%d, max_levels=%d, min_confidence=%.0f\n\n",
		result.Config.Games, result.Config.MaxLevels, result.Config.MinConfidence))

	report.WriteString("## Summary\n\n")
	report.WriteString(fmt.Sprintf("- **Rounds**: %d (%d white)\n", s.Rounds, s.Whites))
	report.WriteString(fmt.Sprintf("- **Entries**: %d (%.1f%% entry rate)\n", s.Entries, result.EntryRate*100))
	report.WriteString(fmt.Sprintf("- **Wins**: %d / **Losses**: %d (%.1f%% win rate)\n", s.Wins, s.Losses, result.WinRate*100))
	report.WriteString(fmt.Sprintf("- **Average Confidence**: %.1f\n\n", s.AvgConfidence()))

	if len(s.WinsByLevel) > 0 {
		report.WriteString("## Wins by Ladder Level\n\n")
		report.WriteString("| Level | Wins |\n|-------|------:|\n")
		levels := make([]int, 0, len(s.WinsByLevel))
		for level := range s.WinsByLevel {
			levels = append(levels, level)
		}
		sort.Ints(levels)
		for _, level := range levels {
			report.WriteString(fmt.Sprintf("| %d | %d |\n", level, s.WinsByLevel[level]))
		}
		report.WriteString("\n")
	}

	if len(s.SkipReasons) > 0 {
		report.WriteString("## Skip Reasons\n\n")
		report.WriteString("| Reason | Count | Rate |\n|--------|------:|------:|\n")
		reasons := make([]string, 0, len(s.SkipReasons))
		for reason := range s.SkipReasons {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			count := s.SkipReasons[reason]
			rate := float64(count) / float64(s.Skips) * 100
			report.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n", reason, count, rate))
		}
		report.WriteString("\n")
	}

	if len(s.ByStrategy) > 0 {
		report.WriteString("## Strategy Attribution\n\n")
		report.WriteString("| Strategy | Entries | Wins | Losses | Win Rate |\n|----------|--------:|-----:|-------:|---------:|\n")
		names := make([]string, 0, len(s.ByStrategy))
		for name := range s.ByStrategy {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			st := s.ByStrategy[name]
			winRate := 0.0
			if st.Wins+st.Losses > 0 {
				winRate = float64(st.Wins) / float64(st.Wins+st.Losses) * 100
			}
			report.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.1f%% |\n",
				name, st.Entries, st.Wins, st.Losses, winRate))
		}
		report.WriteString("\n")
	}

	if len(result.Patterns) > 0 {
		report.WriteString("## Table State at Run End\n\n")
		for _, p := range result.Patterns {
			report.WriteString(fmt.Sprintf("- %s\n", p))
		}
		report.WriteString("\n")
	}

	report.WriteString("## Artifact Paths\n\n")
	report.WriteString(fmt.Sprintf("- **Result JSON**: `%s`\n", filepath.Join(w.outputDir, fmt.Sprintf("run-%s.json", result.RunID))))
	report.WriteString(fmt.Sprintf("- **Output Directory**: `%s`\n", w.outputDir))

	return report.String()
}

// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteEngineer prints one engineer report using the configured output format.
func (ow *OutWriter) WriteEngineer(report schema.EngineerReport, cfg *contract.Config, duration time.Duration) error {
	return WriteEngineerReport(report, cfg, duration)
}

// WriteTeam prints team insights using the configured output format.
func (ow *OutWriter) WriteTeam(insights schema.TeamInsights, cfg *contract.Config, duration time.Duration) error {
	return WriteTeamInsights(insights, cfg, duration)
}

// WriteSummary prints the daily summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.DailySummary, cfg *contract.Config, duration time.Duration) error {
	return WriteDailySummary(summary, cfg, duration)
}

// WriteTraining prints training recommendations using the configured output format.
func (ow *OutWriter) WriteTraining(recs []schema.TrainingRecommendation, cfg *contract.Config) error {
	return WriteTrainingRecommendations(recs, cfg)
}

// WriteMentors prints mentoring pairs using the configured output format.
func (ow *OutWriter) WriteMentors(pairs []schema.MentoringPair, cfg *contract.Config) error {
	return WriteMentoringPairs(pairs, cfg)
}

// WriteTrajectory prints recorded scores of one engineer using the configured output format.
func (ow *OutWriter) WriteTrajectory(records []schema.EngineerScoreRecord, cfg *contract.Config) error {
	return WriteEngineerTrajectory(records, cfg)
}

// WriteObservation confirms a recorded knowledge log entry using the configured output format.
func (ow *OutWriter) WriteObservation(obs schema.Observation, path string, cfg *contract.Config) error {
	return WriteObservation(obs, path, cfg)
}

// getMaxTextWidth calculates the maximum width of free-text columns (messages,
// recommendations) in table output based on terminal width.
func getMaxTextWidth(cfg *contract.Config, reserved int) int {
	termWidth := cfg.Width
	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - reserved - 10
	if available < 20 {
		return 20
	}
	if available > 80 {
		return 80
	}
	return available
}

// truncateText shortens s to width runes with a trailing ellipsis.
func truncateText(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

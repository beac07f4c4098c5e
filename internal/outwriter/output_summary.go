package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// WriteDailySummary outputs the daily digest, dispatching based on the output format configured.
// CSV output lists the flagged engineers.
func WriteDailySummary(summary schema.DailySummary, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, summary, []string{"date", "bucket", "engineer", "score"},
		func(w *csv.Writer) error {
			for _, bucket := range []struct {
				name    string
				entries []schema.SummaryEntry
			}{
				{"critical", summary.Critical},
				{"warning", summary.Warning},
			} {
				for _, e := range bucket.entries {
					if err := w.Write([]string{summary.Date, bucket.name, e.Engineer, strconv.Itoa(e.Score)}); err != nil {
						return err
					}
				}
			}
			for _, name := range summary.Positives {
				if err := w.Write([]string{summary.Date, "positive", name, ""}); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			return writeSummaryText(summary, cfg, duration, w)
		})
}

func writeSummaryText(summary schema.DailySummary, cfg *contract.Config, duration time.Duration, w io.Writer) error {
	fmtFloat := createFormatter(cfg.Precision)
	if _, err := fmt.Fprintf(w, "Daily summary for %s\nTeam size: %d  Avg overall: %s\n",
		summary.Date, summary.TeamSize, fmtFloat(summary.AvgOverall)); err != nil {
		return err
	}

	sections := []struct {
		title   string
		entries []schema.SummaryEntry
	}{
		{contract.CriticalValue, summary.Critical},
		{contract.NeedsHelpValue, summary.Warning},
	}
	for _, s := range sections {
		if len(s.entries) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", s.title); err != nil {
			return err
		}
		for _, e := range s.entries {
			if _, err := fmt.Fprintf(w, "  %s (%s)\n", e.Engineer, scoreLabelWithValue(e.Score, cfg)); err != nil {
				return err
			}
		}
	}

	if len(summary.Positives) > 0 {
		if _, err := fmt.Fprintln(w, "Improving:"); err != nil {
			return err
		}
		for _, name := range summary.Positives {
			if _, err := fmt.Fprintf(w, "  %s\n", name); err != nil {
				return err
			}
		}
	}
	if len(summary.FocusAreas) > 0 {
		if _, err := fmt.Fprintln(w, "Focus areas:"); err != nil {
			return err
		}
		for _, area := range summary.FocusAreas {
			if _, err := fmt.Fprintf(w, "  - %s\n", area); err != nil {
				return err
			}
		}
	}

	if err := writeTrainingTable(summary.TrainingRecommendations, cfg, w); err != nil {
		return err
	}
	if err := writeMentoringTable(summary.MentoringPairs, w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Summary completed in %v over %d days.\n", duration, cfg.WindowDays)
	return err
}

func scoreLabelWithValue(score int, cfg *contract.Config) string {
	return fmt.Sprintf("%d, %s", score, scoreLabel(score, cfg))
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// WriteTeamInsights outputs team insights, dispatching based on the output format configured.
// CSV output has one row per engineer.
func WriteTeamInsights(insights schema.TeamInsights, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, insights, healthCSVHeader,
		func(w *csv.Writer) error {
			for _, h := range insights.Team.IndividualScores {
				if err := w.Write(healthCSVRow(h, nil)); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			return writeTeamTable(insights, cfg, duration, w)
		})
}

// writeTeamTable generates and writes the human-readable team overview.
func writeTeamTable(insights schema.TeamInsights, cfg *contract.Config, duration time.Duration, w io.Writer) error {
	team := insights.Team
	fmtFloat := createFormatter(cfg.Precision)
	if err := writeTeamHeader(team, fmtFloat, w); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Engineer", "Overall", "Label", "Quality", "Knowledge", "Velocity", "Collab", "Trend"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for i, h := range team.IndividualScores {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			h.Engineer,
			strconv.Itoa(h.OverallScore),
			scoreLabel(h.OverallScore, cfg),
			strconv.Itoa(h.Breakdown.CodeQuality),
			strconv.Itoa(h.Breakdown.KnowledgeSharing),
			strconv.Itoa(h.Breakdown.Velocity),
			strconv.Itoa(h.Breakdown.Collaboration),
			string(h.Trending),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(team.AtRisk) > 0 {
		if _, err := fmt.Fprintln(w, "At risk:"); err != nil {
			return err
		}
		for _, r := range team.AtRisk {
			if _, err := fmt.Fprintf(w, "  %s (%d): %s\n", r.Engineer, r.Score, joinCategories(r.PrimaryConcerns, ", ")); err != nil {
				return err
			}
		}
	}
	if len(team.HighPerformers) > 0 {
		if _, err := fmt.Fprintln(w, "High performers:"); err != nil {
			return err
		}
		for _, p := range team.HighPerformers {
			if _, err := fmt.Fprintf(w, "  %s (%d): %s\n", p.Engineer, p.Score, joinCategories(p.Strengths, ", ")); err != nil {
				return err
			}
		}
	}

	if err := writeTrainingTable(insights.TrainingRecommendations, cfg, w); err != nil {
		return err
	}
	if err := writeMentoringTable(insights.MentoringPairs, w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers over %d days. History backend: %s\n",
		duration, cfg.Workers, cfg.WindowDays, cfg.HistoryBackend)
	return err
}

func writeTeamHeader(team schema.TeamHealth, fmtFloat func(float64) string, w io.Writer) error {
	avg := team.AvgBreakdown
	_, err := fmt.Fprintf(w,
		"Team size: %d  Avg overall: %s  (quality %s, knowledge %s, velocity %s, collaboration %s)\n"+
			"Distribution: %d healthy, %d watch, %d needs help\n",
		team.TeamSize, fmtFloat(team.AvgOverall),
		fmtFloat(avg.CodeQuality), fmtFloat(avg.KnowledgeSharing), fmtFloat(avg.Velocity), fmtFloat(avg.Collaboration),
		team.HealthDistribution.Healthy, team.HealthDistribution.Watch, team.HealthDistribution.NeedsHelp)
	return err
}

// WriteTrainingRecommendations outputs training groups, dispatching based on the output format configured.
func WriteTrainingRecommendations(recs []schema.TrainingRecommendation, cfg *contract.Config) error {
	return dispatch(cfg, recs, []string{"topic", "category", "urgency", "attendees", "reason"},
		func(w *csv.Writer) error {
			for _, r := range recs {
				if err := w.Write([]string{r.Topic, string(r.Category), string(r.Urgency), strings.Join(r.Attendees, "|"), r.Reason}); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			return writeTrainingTable(recs, cfg, w)
		})
}

func writeTrainingTable(recs []schema.TrainingRecommendation, cfg *contract.Config, w io.Writer) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No training recommendations.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Topic", "Urgency", "Attendees", "Reason"})
	var data [][]string
	for _, r := range recs {
		data = append(data, []string{
			r.Topic,
			string(r.Urgency),
			strings.Join(r.Attendees, ", "),
			truncateText(r.Reason, getMaxTextWidth(cfg, 60)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteMentoringPairs outputs mentoring pairs, dispatching based on the output format configured.
func WriteMentoringPairs(pairs []schema.MentoringPair, cfg *contract.Config) error {
	return dispatch(cfg, pairs, []string{"mentor", "mentee", "focus", "mentor_score", "mentee_score", "estimated_impact"},
		func(w *csv.Writer) error {
			for _, p := range pairs {
				if err := w.Write([]string{
					p.Mentor, p.Mentee, string(p.Focus),
					strconv.Itoa(p.MentorScore), strconv.Itoa(p.MenteeScore), string(p.EstimatedImpact),
				}); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			return writeMentoringTable(pairs, w)
		})
}

func writeMentoringTable(pairs []schema.MentoringPair, w io.Writer) error {
	if len(pairs) == 0 {
		_, err := fmt.Fprintln(w, "No mentoring pairs.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Mentor", "Mentee", "Focus", "Mentor Score", "Mentee Score", "Impact"})
	var data [][]string
	for _, p := range pairs {
		data = append(data, []string{
			p.Mentor,
			p.Mentee,
			categoryTitle(p.Focus),
			strconv.Itoa(p.MentorScore),
			strconv.Itoa(p.MenteeScore),
			string(p.EstimatedImpact),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

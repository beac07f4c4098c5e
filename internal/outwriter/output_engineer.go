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

// healthCSVHeader is shared by every per-engineer CSV output.
var healthCSVHeader = []string{
	"engineer",
	"overall_score",
	"label",
	"trending",
	"needs_support",
	"code_quality",
	"knowledge_sharing",
	"velocity",
	"collaboration",
	"alerts",
	"error",
}

// WriteEngineerReport outputs one engineer report, dispatching based on the output format configured.
func WriteEngineerReport(report schema.EngineerReport, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, report, healthCSVHeader,
		func(w *csv.Writer) error {
			return w.Write(healthCSVRow(report.Health, report.Alerts))
		},
		func(w io.Writer) error {
			return writeEngineerTable(report, cfg, duration, w)
		})
}

// healthCSVRow flattens one OverallHealth and its alerts.
func healthCSVRow(h schema.OverallHealth, alerts []schema.Alert) []string {
	messages := make([]string, len(alerts))
	for i, a := range alerts {
		messages[i] = a.Message
	}
	return []string{
		h.Engineer,
		strconv.Itoa(h.OverallScore),
		contract.GetPlainLabel(h.OverallScore),
		string(h.Trending),
		strconv.FormatBool(h.NeedsSupport),
		strconv.Itoa(h.Breakdown.CodeQuality),
		strconv.Itoa(h.Breakdown.KnowledgeSharing),
		strconv.Itoa(h.Breakdown.Velocity),
		strconv.Itoa(h.Breakdown.Collaboration),
		strings.Join(messages, "|"),
		h.Error,
	}
}

// writeEngineerTable generates and writes the human-readable report.
func writeEngineerTable(report schema.EngineerReport, cfg *contract.Config, duration time.Duration, w io.Writer) error {
	h := report.Health
	if _, err := fmt.Fprintf(w, "Engineer: %s\nOverall: %d (%s)  Trend: %s  Needs support: %t\n",
		h.Engineer, h.OverallScore, scoreLabel(h.OverallScore, cfg), h.Trending, h.NeedsSupport); err != nil {
		return err
	}
	if h.Error != "" {
		if _, err := fmt.Fprintf(w, "Analysis failed: %s\n", h.Error); err != nil {
			return err
		}
	}

	fmtFloat := createFormatter(cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Score", "Label", "Trend", "Details"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	d := h.DetailedMetrics
	rows := [][]string{
		{
			categoryTitle(schema.CodeQuality), strconv.Itoa(d.CodeQuality.Score),
			scoreLabel(d.CodeQuality.Score, cfg), string(d.CodeQuality.Trend),
			fmt.Sprintf("commits %d, bug-fix %s, clean %s, reverts %d",
				d.CodeQuality.Metrics.TotalCommits, fmtFloat(d.CodeQuality.Metrics.BugFixRatio),
				fmtFloat(d.CodeQuality.Metrics.CleanCommitsRatio), d.CodeQuality.Metrics.RevertedCommits),
		},
		{
			categoryTitle(schema.KnowledgeSharing), strconv.Itoa(d.KnowledgeSharing.Score),
			scoreLabel(d.KnowledgeSharing.Score, cfg), string(d.KnowledgeSharing.Trend),
			fmt.Sprintf("org %d, project %d, refs %d, corrections %d",
				d.KnowledgeSharing.Metrics.OrgContributions, d.KnowledgeSharing.Metrics.ProjectContributions,
				d.KnowledgeSharing.Metrics.MemoryReferences, d.KnowledgeSharing.Metrics.CorrectionsReceived),
		},
		{
			categoryTitle(schema.Velocity), strconv.Itoa(d.Velocity.Score),
			scoreLabel(d.Velocity.Score, cfg), string(d.Velocity.Trend),
			fmt.Sprintf("%s commits/week, trend %s",
				fmtFloat(d.Velocity.Metrics.CommitsPerWeek), fmtFloat(d.Velocity.Metrics.VelocityTrend)),
		},
		{
			categoryTitle(schema.Collaboration), strconv.Itoa(d.Collaboration.Score),
			scoreLabel(d.Collaboration.Score, cfg), string(d.Collaboration.Trend),
			collaborationDetails(d.Collaboration.Metrics, fmtFloat),
		},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := writeAlertsTable(report.Alerts, cfg, w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v over %d days. History backend: %s\n", duration, cfg.WindowDays, cfg.HistoryBackend)
	return err
}

func collaborationDetails(m schema.CollaborationMetrics, fmtFloat func(float64) string) string {
	details := fmt.Sprintf("shared files %s", fmtFloat(m.SharedRatio))
	if m.ProviderAvailable {
		details += fmt.Sprintf(", reviews %d, comments %d", m.Activity.ReviewsGiven, m.Activity.ReviewComments)
	}
	if m.Reason != "" {
		details += " (" + m.Reason + ")"
	}
	return details
}

// writeAlertsTable renders alerts, or a single line when there are none.
func writeAlertsTable(alerts []schema.Alert, cfg *contract.Config, w io.Writer) error {
	if len(alerts) == 0 {
		_, err := fmt.Fprintln(w, "No alerts.")
		return err
	}
	textWidth := getMaxTextWidth(cfg, 40) / 2
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Priority", "Severity", "Engineer", "Message", "Recommendation"})
	var data [][]string
	for _, a := range alerts {
		data = append(data, []string{
			strconv.Itoa(a.Priority),
			severityLabel(a.Severity, cfg),
			a.Engineer,
			truncateText(a.Message, textWidth),
			truncateText(a.Recommendation, textWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

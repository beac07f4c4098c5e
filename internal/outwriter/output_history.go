package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// WriteEngineerTrajectory outputs the recorded scores of one engineer over time.
func WriteEngineerTrajectory(records []schema.EngineerScoreRecord, cfg *contract.Config) error {
	header := []string{"run_id", "analysis_time", "engineer", "overall_score", "code_quality", "knowledge_sharing", "velocity", "collaboration", "trend", "needs_support"}
	return dispatch(cfg, records, header,
		func(w *csv.Writer) error {
			for _, r := range records {
				if err := w.Write(trajectoryRow(r)); err != nil {
					return err
				}
			}
			return nil
		},
		func(w io.Writer) error {
			return writeTrajectoryTable(records, cfg, w)
		})
}

func trajectoryRow(r schema.EngineerScoreRecord) []string {
	return []string{
		strconv.FormatInt(r.RunID, 10),
		r.AnalysisTime.Format(contract.DateTimeFormat),
		r.Engineer,
		strconv.Itoa(int(r.OverallScore)),
		strconv.Itoa(int(r.CodeQuality)),
		strconv.Itoa(int(r.KnowledgeSharing)),
		strconv.Itoa(int(r.Velocity)),
		strconv.Itoa(int(r.Collaboration)),
		r.Trend,
		strconv.FormatBool(r.NeedsSupport),
	}
}

func writeTrajectoryTable(records []schema.EngineerScoreRecord, cfg *contract.Config, w io.Writer) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No recorded scores. Enable history-backend to record snapshots.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Time", "Overall", "Label", "Quality", "Knowledge", "Velocity", "Collab", "Trend"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.AnalysisTime.Format("2006-01-02 15:04"),
			strconv.Itoa(int(r.OverallScore)),
			scoreLabel(int(r.OverallScore), cfg),
			strconv.Itoa(int(r.CodeQuality)),
			strconv.Itoa(int(r.KnowledgeSharing)),
			strconv.Itoa(int(r.Velocity)),
			strconv.Itoa(int(r.Collaboration)),
			r.Trend,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	first, last := records[0], records[len(records)-1]
	_, err := fmt.Fprintf(w, "%s: %d snapshots, overall %d -> %d\n",
		first.Engineer, len(records), first.OverallScore, last.OverallScore)
	return err
}

// WriteObservation confirms a recorded knowledge log entry.
func WriteObservation(obs schema.Observation, path string, cfg *contract.Config) error {
	header := []string{"author", "scope", "confidence", "timestamp", "content", "path"}
	return dispatch(cfg, obs, header,
		func(w *csv.Writer) error {
			return w.Write([]string{
				obs.Author,
				obs.Scope,
				strconv.FormatFloat(obs.ConfidenceOrDefault(), 'f', 2, 64),
				obs.Timestamp.Format(contract.DateTimeFormat),
				obs.Content,
				path,
			})
		},
		func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Recorded %s observation by %s (confidence %.2f) in %s\n",
				obs.Scope, obs.Author, obs.ConfidenceOrDefault(), path)
			return err
		})
}

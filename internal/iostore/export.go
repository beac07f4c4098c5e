package iostore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/internal/parquet"
)

// ExecuteHistoryExport writes every recorded run and score to Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total snapshot runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total engineer scores: %d\n", status.TableSizes[engineerScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshot runs: %w", err)
	}
	scores, err := store.GetEngineerScores("")
	if err != nil {
		return fmt.Errorf("failed to retrieve engineer scores: %w", err)
	}

	runsFile := outputFile + ".snapshot_runs.parquet"
	parquetRuns := parquet.ConvertSnapshotRunRecords(runs)
	if err := parquet.WriteSnapshotRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write snapshot runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d snapshot runs to: %s\n", len(parquetRuns), runsFile)

	scoresFile := outputFile + ".engineer_scores.parquet"
	parquetScores := parquet.ConvertEngineerScoreRecords(scores)
	if err := parquet.WriteEngineerScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write engineer scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d engineer scores to: %s\n", len(parquetScores), scoresFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	for _, tool := range []string{"Apache Spark", "Apache Arrow", "Pandas (via pyarrow)", "DuckDB"} {
		_, _ = fmt.Fprintf(w, "  - %s\n", tool)
	}
	return nil
}

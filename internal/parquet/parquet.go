// Package parquet exports recorded health snapshots to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/teampulse/schema"
)

// SnapshotRun is one recorded run. It maps to the teampulse_snapshot_runs table.
type SnapshotRun struct {
	RunID         int64      `parquet:"run_id,snappy"`
	RunUUID       string     `parquet:"run_uuid,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	WindowDays    int32      `parquet:"window_days,snappy"`
	EngineerCount int32      `parquet:"engineer_count,snappy"`

	// ConfigParams is the JSON-encoded configuration of the run
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// EngineerScore is one engineer's scores within a run.
// It maps to the teampulse_engineer_scores table.
type EngineerScore struct {
	RunID            int64     `parquet:"run_id,snappy"`
	Engineer         string    `parquet:"engineer,snappy"`
	AnalysisTime     time.Time `parquet:"analysis_time,snappy"`
	OverallScore     int32     `parquet:"overall_score,snappy"`
	CodeQuality      int32     `parquet:"code_quality,snappy"`
	KnowledgeSharing int32     `parquet:"knowledge_sharing,snappy"`
	Velocity         int32     `parquet:"velocity,snappy"`
	Collaboration    int32     `parquet:"collaboration,snappy"`
	Trend            string    `parquet:"trend,snappy"`
	NeedsSupport     bool      `parquet:"needs_support,snappy"`
}

// WriteSnapshotRunsParquet writes runs to a Parquet file.
func WriteSnapshotRunsParquet(data []SnapshotRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteEngineerScoresParquet writes engineer scores to a Parquet file.
func WriteEngineerScoresParquet(data []EngineerScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet infers the schema from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Sync()
}

// ConvertSnapshotRunRecords converts store records for Parquet export.
func ConvertSnapshotRunRecords(records []schema.SnapshotRunRecord) []SnapshotRun {
	result := make([]SnapshotRun, len(records))
	for i, record := range records {
		result[i] = SnapshotRun{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			WindowDays:    record.WindowDays,
			EngineerCount: record.EngineerCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertEngineerScoreRecords converts store records for Parquet export.
func ConvertEngineerScoreRecords(records []schema.EngineerScoreRecord) []EngineerScore {
	result := make([]EngineerScore, len(records))
	for i, record := range records {
		result[i] = EngineerScore{
			RunID:            record.RunID,
			Engineer:         record.Engineer,
			AnalysisTime:     record.AnalysisTime,
			OverallScore:     record.OverallScore,
			CodeQuality:      record.CodeQuality,
			KnowledgeSharing: record.KnowledgeSharing,
			Velocity:         record.Velocity,
			Collaboration:    record.Collaboration,
			Trend:            record.Trend,
			NeedsSupport:     record.NeedsSupport,
		}
	}
	return result
}

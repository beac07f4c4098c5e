package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/teampulse/schema"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSchemaColumns(t *testing.T) {
	runSchema := parquet.SchemaOf(new(SnapshotRun))
	for _, col := range []string{"run_id", "run_uuid", "start_time", "end_time", "run_duration_ms", "window_days", "engineer_count", "config_params"} {
		_, ok := runSchema.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}

	scoreSchema := parquet.SchemaOf(new(EngineerScore))
	for _, col := range []string{"run_id", "engineer", "analysis_time", "overall_score", "code_quality", "knowledge_sharing", "velocity", "collaboration", "trend", "needs_support"} {
		_, ok := scoreSchema.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestWriteSnapshotRunsParquet(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Second)
	duration := int32(3000)
	params := `{"operation":"team"}`
	records := []schema.SnapshotRunRecord{
		{RunID: 1, RunUUID: "a", StartTime: start, EndTime: &end, RunDurationMs: &duration, WindowDays: 30, EngineerCount: 4, ConfigParams: &params},
		{RunID: 2, RunUUID: "b", StartTime: start.Add(time.Hour), WindowDays: 14},
	}

	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteSnapshotRunsParquet(ConvertSnapshotRunRecords(records), path))

	rows := readAll[SnapshotRun](t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].RunUUID)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Millisecond)
	require.NotNil(t, rows[0].ConfigParams)
	assert.Equal(t, params, *rows[0].ConfigParams)
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Equal(t, int32(14), rows[1].WindowDays)
}

func TestWriteEngineerScoresParquet(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	h := schema.OverallHealth{
		Engineer:     "Alice",
		OverallScore: 72,
		Breakdown:    schema.Breakdown{CodeQuality: 80, KnowledgeSharing: 60, Velocity: 75, Collaboration: 70},
		Trending:     schema.TrendImproving,
	}
	records := []schema.EngineerScoreRecord{schema.NewEngineerScoreRecord(7, at, h)}

	path := filepath.Join(t.TempDir(), "scores.parquet")
	require.NoError(t, WriteEngineerScoresParquet(ConvertEngineerScoreRecords(records), path))

	rows := readAll[EngineerScore](t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].RunID)
	assert.Equal(t, "Alice", rows[0].Engineer)
	assert.Equal(t, int32(60), rows[0].KnowledgeSharing)
	assert.Equal(t, "improving", rows[0].Trend)
	assert.False(t, rows[0].NeedsSupport)
}

func TestWriteParquet_EmptyAndBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSnapshotRunsParquet(nil, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	err = WriteEngineerScoresParquet(nil, filepath.Join(t.TempDir(), "missing", "x.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}

package schema

import "time"

// SnapshotRunRecord represents a row from the teampulse_snapshot_runs table.
type SnapshotRunRecord struct {
	RunID         int64
	RunUUID       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	WindowDays    int32
	EngineerCount int32
	ConfigParams  *string
}

// EngineerScoreRecord represents a row from the teampulse_engineer_scores table.
type EngineerScoreRecord struct {
	RunID            int64     `json:"run_id"`
	Engineer         string    `json:"engineer"`
	AnalysisTime     time.Time `json:"analysis_time"`
	OverallScore     int32     `json:"overall_score"`
	CodeQuality      int32     `json:"code_quality"`
	KnowledgeSharing int32     `json:"knowledge_sharing"`
	Velocity         int32     `json:"velocity"`
	Collaboration    int32     `json:"collaboration"`
	Trend            string    `json:"trend"`
	NeedsSupport     bool      `json:"needs_support"`
}

// NewEngineerScoreRecord flattens an OverallHealth into a storable row.
func NewEngineerScoreRecord(runID int64, at time.Time, h OverallHealth) EngineerScoreRecord {
	return EngineerScoreRecord{
		RunID:            runID,
		Engineer:         h.Engineer,
		AnalysisTime:     at,
		OverallScore:     int32(h.OverallScore),
		CodeQuality:      int32(h.Breakdown.CodeQuality),
		KnowledgeSharing: int32(h.Breakdown.KnowledgeSharing),
		Velocity:         int32(h.Breakdown.Velocity),
		Collaboration:    int32(h.Breakdown.Collaboration),
		Trend:            string(h.Trending),
		NeedsSupport:     h.NeedsSupport,
	}
}

// HistoryStatus represents the status of the snapshot history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalRuns       int              `json:"total_runs"`
	LastRunID       int64            `json:"last_run_id"`
	LastRunTime     time.Time        `json:"last_run_time"`
	OldestRunTime   time.Time        `json:"oldest_run_time"`
	TotalScoredRows int              `json:"total_scored_rows"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}

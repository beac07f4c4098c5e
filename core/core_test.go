package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/internal/knowledge"
	"github.com/huangsam/teampulse/schema"
)

func outputConfig(t *testing.T) *contract.Config {
	t.Helper()
	cfg := testConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")
	return cfg
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestExecuteEngineerHealth(t *testing.T) {
	cfg := outputConfig(t)
	svc, _ := newTestService(t, cfg, nil)

	require.NoError(t, ExecuteEngineerHealth(context.Background(), svc, "Alice"))

	var report schema.EngineerReport
	readJSON(t, cfg.OutputFile, &report)
	assert.Equal(t, "Alice", report.Health.Engineer)
	assert.NotEmpty(t, report.Alerts)
}

func TestExecuteTeamCommands(t *testing.T) {
	ctx := context.Background()

	cfg := outputConfig(t)
	svc, _ := newTestService(t, cfg, nil)
	require.NoError(t, ExecuteTeamInsights(ctx, svc))
	var insights schema.TeamInsights
	readJSON(t, cfg.OutputFile, &insights)
	assert.Equal(t, 2, insights.Team.TeamSize)

	cfg = outputConfig(t)
	svc, _ = newTestService(t, cfg, nil)
	require.NoError(t, ExecuteDailySummary(ctx, svc))
	var summary schema.DailySummary
	readJSON(t, cfg.OutputFile, &summary)
	assert.Equal(t, "2024-06-30", summary.Date)

	cfg = outputConfig(t)
	svc, _ = newTestService(t, cfg, nil)
	require.NoError(t, ExecuteTrainingRecommendations(ctx, svc, "high"))
	var recs []schema.TrainingRecommendation
	readJSON(t, cfg.OutputFile, &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, schema.UrgencyHigh, recs[0].Urgency)

	cfg = outputConfig(t)
	svc, _ = newTestService(t, cfg, nil)
	require.NoError(t, ExecuteFindMentors(ctx, svc, ""))
	var pairs []schema.MentoringPair
	readJSON(t, cfg.OutputFile, &pairs)
	assert.Empty(t, pairs)
}

func TestExecute_PropagatesValidationErrors(t *testing.T) {
	svc, _ := newTestService(t, outputConfig(t), nil)
	ctx := context.Background()

	assert.ErrorIs(t, ExecuteEngineerHealth(ctx, svc, "Mallory"), contract.ErrUnknownEngineer)
	assert.ErrorIs(t, ExecuteTrainingRecommendations(ctx, svc, "someday"), contract.ErrInvalidInput)
}

func TestExecuteEngineerTrajectory(t *testing.T) {
	cfg := outputConfig(t)

	err := ExecuteEngineerTrajectory(cfg, nil, "Alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history tracking is disabled")

	store := &contract.MockHistoryStore{}
	store.On("GetEngineerScores", "Alice").Return([]schema.EngineerScoreRecord{
		{RunID: 1, Engineer: "Alice", AnalysisTime: testNow.AddDate(0, 0, -7), OverallScore: 60, Trend: "stable"},
		{RunID: 2, Engineer: "Alice", AnalysisTime: testNow, OverallScore: 72, Trend: "improving"},
	}, nil)

	require.NoError(t, ExecuteEngineerTrajectory(cfg, store, "alice@example.com"))
	var records []schema.EngineerScoreRecord
	readJSON(t, cfg.OutputFile, &records)
	require.Len(t, records, 2)
	assert.Equal(t, int32(72), records[1].OverallScore)
	store.AssertExpectations(t)

	assert.ErrorIs(t, ExecuteEngineerTrajectory(cfg, store, "Mallory"), contract.ErrUnknownEngineer)
	store.AssertNotCalled(t, "GetEngineerScores", "Mallory")
}

func TestExecuteObserve(t *testing.T) {
	ctx := context.Background()
	cfg := outputConfig(t)

	err := ExecuteObserve(ctx, cfg, schema.Observation{Author: "Alice", Content: "note"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--knowledge-path")

	cfg.KnowledgePath = filepath.Join(t.TempDir(), "knowledge.yaml")
	require.NoError(t, ExecuteObserve(ctx, cfg, schema.Observation{
		Author:  "alice@example.com",
		Content: "  release checklist lives in the wiki  ",
	}))

	obs, err := knowledge.NewFileStore(cfg.KnowledgePath).Observations(ctx)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "Alice", obs[0].Author)
	assert.Equal(t, "release checklist lives in the wiki", obs[0].Content)
	assert.Equal(t, "project", obs[0].Scope)
	assert.False(t, obs[0].Timestamp.IsZero())

	bad := 1.5
	err = ExecuteObserve(ctx, cfg, schema.Observation{Author: "Alice", Content: "x", Confidence: &bad})
	assert.ErrorIs(t, err, contract.ErrInvalidInput)

	err = ExecuteObserve(ctx, cfg, schema.Observation{Author: "Mallory", Content: "x"})
	assert.ErrorIs(t, err, contract.ErrUnknownEngineer)
}

func TestExecuteObserve_RecordedObservationFeedsAnalysis(t *testing.T) {
	ctx := context.Background()
	cfg := outputConfig(t)
	cfg.KnowledgePath = filepath.Join(t.TempDir(), "knowledge.json")
	require.NoError(t, ExecuteObserve(ctx, cfg, schema.Observation{
		Author:    "Bob",
		Content:   "rotate staging credentials monthly",
		Scope:     schema.ScopeOrg,
		Timestamp: testNow.AddDate(0, 0, -1),
	}))

	history := &contract.MockHistoryProvider{}
	history.On("Commits", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	e := newTestEngine(t, Providers{History: history, Knowledge: knowledge.NewFileStore(cfg.KnowledgePath)}, 1)

	h := e.EngineerHealth(ctx, schema.Engineer{Name: "Bob", Email: "bob@example.com"}, testWindow())
	assert.Equal(t, 1, h.DetailedMetrics.KnowledgeSharing.Metrics.OrgContributions)
	// 10 for the org entry plus 0.8 default confidence times 30.
	assert.Equal(t, 34, h.Breakdown.KnowledgeSharing)
}

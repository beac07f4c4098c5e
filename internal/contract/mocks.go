package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/teampulse/schema"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	ret := m.Called(callArgs...)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetChangeLog implements the GitClient interface.
func (m *MockGitClient) GetChangeLog(ctx context.Context, repoPath string, author string, since time.Time) ([]byte, error) {
	ret := m.Called(ctx, repoPath, author, since)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// MockHistoryProvider is a mock implementation of HistoryProvider for testing.
type MockHistoryProvider struct {
	mock.Mock
}

var _ HistoryProvider = &MockHistoryProvider{} // Compile-time check

// Commits implements the HistoryProvider interface.
func (m *MockHistoryProvider) Commits(ctx context.Context, identity string, since time.Time) ([]schema.ChangeRecord, error) {
	ret := m.Called(ctx, identity, since)
	records, _ := ret.Get(0).([]schema.ChangeRecord)
	return records, ret.Error(1)
}

// RepositoryLog implements the HistoryProvider interface.
func (m *MockHistoryProvider) RepositoryLog(ctx context.Context, since time.Time) ([]schema.ChangeRecord, error) {
	ret := m.Called(ctx, since)
	records, _ := ret.Get(0).([]schema.ChangeRecord)
	return records, ret.Error(1)
}

// MockActivityProvider is a mock implementation of ActivityProvider for testing.
type MockActivityProvider struct {
	mock.Mock
}

var _ ActivityProvider = &MockActivityProvider{} // Compile-time check

// Available implements the ActivityProvider interface.
func (m *MockActivityProvider) Available(ctx context.Context) (bool, string) {
	ret := m.Called(ctx)
	return ret.Bool(0), ret.String(1)
}

// Activity implements the ActivityProvider interface.
func (m *MockActivityProvider) Activity(ctx context.Context, handle string, start, end time.Time) (schema.ActivityCounts, error) {
	ret := m.Called(ctx, handle, start, end)
	counts, _ := ret.Get(0).(schema.ActivityCounts)
	return counts, ret.Error(1)
}

// MockKnowledgeStore is a mock implementation of KnowledgeStore for testing.
type MockKnowledgeStore struct {
	mock.Mock
}

var _ KnowledgeStore = &MockKnowledgeStore{} // Compile-time check

// Observations implements the KnowledgeStore interface.
func (m *MockKnowledgeStore) Observations(ctx context.Context) ([]schema.Observation, error) {
	ret := m.Called(ctx)
	obs, _ := ret.Get(0).([]schema.Observation)
	return obs, ret.Error(1)
}

// Append implements the KnowledgeStore interface.
func (m *MockKnowledgeStore) Append(ctx context.Context, obs schema.Observation) error {
	return m.Called(ctx, obs).Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(runUUID string, startTime time.Time, windowDays int, configParams map[string]any) (int64, error) {
	ret := m.Called(runUUID, startTime, windowDays, configParams)
	id, _ := ret.Get(0).(int64)
	return id, ret.Error(1)
}

// RecordEngineerScore implements the HistoryStore interface.
func (m *MockHistoryStore) RecordEngineerScore(record schema.EngineerScoreRecord) error {
	return m.Called(record).Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, engineerCount int) error {
	return m.Called(runID, endTime, engineerCount).Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.HistoryStatus)
	return status, ret.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.SnapshotRunRecord, error) {
	ret := m.Called()
	runs, _ := ret.Get(0).([]schema.SnapshotRunRecord)
	return runs, ret.Error(1)
}

// GetEngineerScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetEngineerScores(engineer string) ([]schema.EngineerScoreRecord, error) {
	ret := m.Called(engineer)
	records, _ := ret.Get(0).([]schema.EngineerScoreRecord)
	return records, ret.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockHistoryStore) Clear() error {
	return m.Called().Error(0)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}

// MockHealthService is a mock implementation of HealthService for testing.
type MockHealthService struct {
	mock.Mock
}

var _ HealthService = &MockHealthService{} // Compile-time check

// EngineerHealth implements the HealthService interface.
func (m *MockHealthService) EngineerHealth(ctx context.Context, name string, windowDays int) (schema.EngineerReport, error) {
	ret := m.Called(ctx, name, windowDays)
	report, _ := ret.Get(0).(schema.EngineerReport)
	return report, ret.Error(1)
}

// TeamInsights implements the HealthService interface.
func (m *MockHealthService) TeamInsights(ctx context.Context, windowDays int) (schema.TeamInsights, error) {
	ret := m.Called(ctx, windowDays)
	insights, _ := ret.Get(0).(schema.TeamInsights)
	return insights, ret.Error(1)
}

// DailySummary implements the HealthService interface.
func (m *MockHealthService) DailySummary(ctx context.Context, windowDays int) (schema.DailySummary, error) {
	ret := m.Called(ctx, windowDays)
	summary, _ := ret.Get(0).(schema.DailySummary)
	return summary, ret.Error(1)
}

// TrainingRecommendations implements the HealthService interface.
func (m *MockHealthService) TrainingRecommendations(ctx context.Context, urgency string, windowDays int) ([]schema.TrainingRecommendation, error) {
	ret := m.Called(ctx, urgency, windowDays)
	recs, _ := ret.Get(0).([]schema.TrainingRecommendation)
	return recs, ret.Error(1)
}

// FindMentors implements the HealthService interface.
func (m *MockHealthService) FindMentors(ctx context.Context, mentee string, windowDays int) ([]schema.MentoringPair, error) {
	ret := m.Called(ctx, mentee, windowDays)
	pairs, _ := ret.Get(0).([]schema.MentoringPair)
	return pairs, ret.Error(1)
}

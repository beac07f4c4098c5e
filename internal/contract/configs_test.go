package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/teampulse/schema"
)

func ptr(f float64) *float64 { return &f }

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr: ".",
		Window:      30,
		Engineers: []schema.Engineer{
			{Name: "Alice", Email: "alice@corp.com", GitHub: "@alice"},
			{Name: "Bob", Email: "bob@corp.com", Aliases: []string{"bob@home.dev"}},
		},
		Workers:        4,
		GitConcurrency: 2,
		Output:         "text",
		Precision:      1,
		Color:          "yes",
		HistoryBackend: "none",
	}
}

func processWithMock(t *testing.T, input *ConfigRawInput) (*Config, error) {
	t.Helper()
	client := &MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, mock.Anything).Return("/repo", nil).Maybe()
	cfg := &Config{}
	err := ProcessAndValidate(context.Background(), cfg, client, input)
	return cfg, err
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg, err := processWithMock(t, validRawInput())
	require.NoError(t, err)

	assert.Equal(t, "/repo", cfg.RepoPath)
	assert.Equal(t, 30, cfg.WindowDays)
	assert.Equal(t, schema.DefaultWeights(), cfg.Weights)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, []string{"main", "develop"}, cfg.ProtectedBranches)
	assert.Equal(t, DefaultGitHubTimeout, cfg.GitHubTimeout)
	assert.Equal(t, "alice", cfg.Engineers[0].GitHub, "leading @ should be stripped")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidate_WeightOverrides(t *testing.T) {
	input := validRawInput()
	input.Weights = WeightsRawInput{CodeQuality: ptr(0.25), Collaboration: ptr(0.25)}
	cfg, err := processWithMock(t, input)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Weights[schema.CodeQuality])
	assert.Equal(t, 0.25, cfg.Weights[schema.KnowledgeSharing])
	assert.Equal(t, 0.25, cfg.Weights[schema.Collaboration])
}

func TestProcessAndValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		wantErr string
		is      error
	}{
		{"weights do not sum", func(i *ConfigRawInput) { i.Weights.CodeQuality = ptr(0.5) }, "must sum to 1.0", ErrInvalidWeights},
		{"negative weight", func(i *ConfigRawInput) {
			i.Weights = WeightsRawInput{CodeQuality: ptr(-0.1), KnowledgeSharing: ptr(0.6)}
		}, "between 0 and 1", ErrInvalidWeights},
		{"window too large", func(i *ConfigRawInput) { i.Window = 400 }, "window must be between", nil},
		{"bad workers", func(i *ConfigRawInput) { i.Workers = 0 }, "workers must be", nil},
		{"bad git concurrency", func(i *ConfigRawInput) { i.GitConcurrency = -1 }, "git-concurrency", nil},
		{"bad output", func(i *ConfigRawInput) { i.Output = "xml" }, "invalid output format", nil},
		{"bad precision", func(i *ConfigRawInput) { i.Precision = 3 }, "precision must be", nil},
		{"bad color", func(i *ConfigRawInput) { i.Color = "maybe" }, "invalid --color", nil},
		{"bad backend", func(i *ConfigRawInput) { i.HistoryBackend = "redis" }, "invalid history backend", nil},
		{"mysql without dsn", func(i *ConfigRawInput) { i.HistoryBackend = "mysql" }, "history-db-connect is required", nil},
		{"duplicate engineer", func(i *ConfigRawInput) {
			i.Engineers = append(i.Engineers, schema.Engineer{Name: "alice", Email: "a2@corp.com"})
		}, "listed more than once", nil},
		{"engineer without email", func(i *ConfigRawInput) {
			i.Engineers = []schema.Engineer{{Name: "Carol"}}
		}, "has no email", nil},
		{"timeout too short", func(i *ConfigRawInput) { i.GitHubTimeout = "2s" }, "github-timeout must be between", nil},
		{"timeout garbage", func(i *ConfigRawInput) { i.GitHubTimeout = "soon" }, "invalid github-timeout", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			_, err := processWithMock(t, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestProcessAndValidate_RepoRootError(t *testing.T) {
	client := &MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, mock.Anything).Return("", errors.New("not a git repo"))
	err := ProcessAndValidate(context.Background(), &Config{}, client, validRawInput())
	assert.EqualError(t, err, "not a git repo")
}

func TestConfigFindEngineer(t *testing.T) {
	cfg, err := processWithMock(t, validRawInput())
	require.NoError(t, err)

	e, err := cfg.FindEngineer("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", e.Name)

	e, err = cfg.FindEngineer("BOB@corp.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob", e.Name)

	_, err = cfg.FindEngineer("Mallory")
	assert.ErrorIs(t, err, ErrUnknownEngineer)
}

func TestConfigCloneWithWindow(t *testing.T) {
	cfg, err := processWithMock(t, validRawInput())
	require.NoError(t, err)

	clone, err := cfg.CloneWithWindow(14)
	require.NoError(t, err)
	assert.Equal(t, 14, clone.WindowDays)
	assert.Equal(t, 30, cfg.WindowDays)

	clone.Weights[schema.CodeQuality] = 0
	assert.Equal(t, 0.35, cfg.Weights[schema.CodeQuality], "clone must not share weights")

	same, err := cfg.CloneWithWindow(0)
	require.NoError(t, err)
	assert.Equal(t, 30, same.WindowDays)

	_, err = cfg.CloneWithWindow(1000)
	assert.Error(t, err)

	now := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, schema.NewWindow(30, now), cfg.Window(now))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@tcp(localhost:3306)/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost/db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "postgres://u:p@localhost/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}

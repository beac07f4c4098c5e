// Package contract provides interfaces and shared utilities for teampulse's internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/teampulse/schema"
)

// Sentinel errors shared across packages.
var (
	ErrUnknownEngineer     = errors.New("unknown engineer")
	ErrInvalidWeights      = errors.New("invalid weights")
	ErrEmptyRoster         = errors.New("no engineers configured")
	ErrProviderUnavailable = errors.New("activity provider unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)

// GitClient defines the git operations needed to read change history.
// This allows the analyzers to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetChangeLog returns the raw numstat log since the given time.
	// An empty author returns commits of every author.
	GetChangeLog(ctx context.Context, repoPath string, author string, since time.Time) ([]byte, error)
}

// HistoryProvider supplies change records from version control.
type HistoryProvider interface {
	// Commits returns the records authored by the identity (an email address) since the given time.
	Commits(ctx context.Context, identity string, since time.Time) ([]schema.ChangeRecord, error)

	// RepositoryLog returns the records of every author since the given time.
	RepositoryLog(ctx context.Context, since time.Time) ([]schema.ChangeRecord, error)
}

// ActivityProvider supplies remote review and issue activity for a handle.
type ActivityProvider interface {
	// Available probes the provider quickly and without side effects.
	// The string explains why the provider is unavailable.
	Available(ctx context.Context) (bool, string)

	// Activity returns counts for the handle between start and end.
	// Timeouts and API failures wrap ErrProviderUnavailable.
	Activity(ctx context.Context, handle string, start, end time.Time) (schema.ActivityCounts, error)
}

// KnowledgeStore exposes the append-only observation log.
type KnowledgeStore interface {
	Observations(ctx context.Context) ([]schema.Observation, error)
	Append(ctx context.Context, obs schema.Observation) error
}

// HistoryStore defines the interface for recording health snapshots across runs.
type HistoryStore interface {
	// BeginRun creates a new snapshot run and returns its ID
	BeginRun(runUUID string, startTime time.Time, windowDays int, configParams map[string]any) (int64, error)

	// RecordEngineerScore stores the scores of one engineer for a run
	RecordEngineerScore(record schema.EngineerScoreRecord) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, engineerCount int) error

	// GetStatus returns status information about the store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.SnapshotRunRecord, error)

	// GetEngineerScores returns recorded scores, optionally restricted to one engineer
	GetEngineerScores(engineer string) ([]schema.EngineerScoreRecord, error)

	// Clear removes every recorded run and score
	Clear() error

	// Close closes the underlying connection
	Close() error
}

// HealthService exposes the health operations to the MCP and HTTP surfaces.
// A non-positive windowDays uses the configured window.
type HealthService interface {
	EngineerHealth(ctx context.Context, name string, windowDays int) (schema.EngineerReport, error)
	TeamInsights(ctx context.Context, windowDays int) (schema.TeamInsights, error)
	DailySummary(ctx context.Context, windowDays int) (schema.DailySummary, error)
	TrainingRecommendations(ctx context.Context, urgency string, windowDays int) ([]schema.TrainingRecommendation, error)
	FindMentors(ctx context.Context, mentee string, windowDays int) ([]schema.MentoringPair, error)
}

package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/huangsam/teampulse/core/agg"
	"github.com/huangsam/teampulse/internal/activity"
	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/internal/knowledge"
	"github.com/huangsam/teampulse/schema"
)

// Service exposes the five operations on top of one validated config.
// It is shared by the CLI, the MCP server and the HTTP API.
type Service struct {
	cfg    *contract.Config
	engine *Engine
	store  contract.HistoryStore
	logger *zap.Logger
	now    func() time.Time
}

var _ contract.HealthService = &Service{} // Compile-time check

// NewProviders builds the production data sources for a config.
func NewProviders(cfg *contract.Config, logger *zap.Logger) Providers {
	client := contract.NewLocalGitClient(cfg.GitConcurrency)
	return Providers{
		History: agg.NewGitHistory(client, cfg.RepoPath),
		Activity: activity.NewGitHubProvider(activity.Options{
			Owner:             cfg.GitHubOwner,
			Repo:              cfg.GitHubRepo,
			Token:             cfg.GitHubToken,
			ProtectedBranches: cfg.ProtectedBranches,
			Timeout:           cfg.GitHubTimeout,
			RequestsPerSecond: cfg.GitHubRPS,
		}, logger),
		Knowledge: knowledge.NewFileStore(cfg.KnowledgePath),
	}
}

// NewService creates a service. The store may be nil to disable snapshots.
func NewService(cfg *contract.Config, p Providers, store contract.HistoryStore, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine, err := NewEngine(cfg.Weights, cfg.Workers, p, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:    cfg,
		engine: engine,
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Config returns the validated configuration behind the service.
func (s *Service) Config() *contract.Config {
	return s.cfg
}

// EngineerHealth analyzes one engineer and derives the alerts.
// A non-positive windowDays uses the configured window.
func (s *Service) EngineerHealth(ctx context.Context, name string, windowDays int) (schema.EngineerReport, error) {
	engineer, err := s.cfg.FindEngineer(name)
	if err != nil {
		return schema.EngineerReport{}, err
	}
	w, err := s.window(windowDays)
	if err != nil {
		return schema.EngineerReport{}, err
	}

	ctx, finish := s.beginSnapshot(ctx, w, "engineer")
	health := s.engine.EngineerHealth(ctx, engineer, w)
	finish([]schema.OverallHealth{health})

	return schema.EngineerReport{Health: health, Alerts: GenerateAlerts(health)}, nil
}

// TeamInsights analyzes the roster and derives training and mentoring.
func (s *Service) TeamInsights(ctx context.Context, windowDays int) (schema.TeamInsights, error) {
	team, err := s.teamHealth(ctx, windowDays)
	if err != nil {
		return schema.TeamInsights{}, err
	}
	return schema.TeamInsights{
		Team:                    team,
		TrainingRecommendations: GenerateTrainingRecommendations(team.IndividualScores),
		MentoringPairs:          GenerateMentoringPairs(team.IndividualScores),
	}, nil
}

// DailySummary analyzes the roster and condenses it into the daily digest.
func (s *Service) DailySummary(ctx context.Context, windowDays int) (schema.DailySummary, error) {
	team, err := s.teamHealth(ctx, windowDays)
	if err != nil {
		return schema.DailySummary{}, err
	}
	return GenerateDailySummary(team, s.now()), nil
}

// TrainingRecommendations returns the training groups, optionally for one urgency.
func (s *Service) TrainingRecommendations(ctx context.Context, urgency string, windowDays int) ([]schema.TrainingRecommendation, error) {
	u := schema.Urgency(strings.ToLower(strings.TrimSpace(urgency)))
	if u != "" {
		if _, ok := schema.ValidUrgencies[u]; !ok {
			return nil, fmt.Errorf("%w: urgency '%s' must be high, medium, low", contract.ErrInvalidInput, urgency)
		}
	}
	team, err := s.teamHealth(WithSkipSnapshot(ctx), windowDays)
	if err != nil {
		return nil, err
	}
	return FilterTrainingByUrgency(GenerateTrainingRecommendations(team.IndividualScores), u), nil
}

// FindMentors returns the mentoring pairs, optionally for one mentee.
func (s *Service) FindMentors(ctx context.Context, mentee string, windowDays int) ([]schema.MentoringPair, error) {
	name := ""
	if strings.TrimSpace(mentee) != "" {
		engineer, err := s.cfg.FindEngineer(mentee)
		if err != nil {
			return nil, err
		}
		name = engineer.Name
	}
	team, err := s.teamHealth(WithSkipSnapshot(ctx), windowDays)
	if err != nil {
		return nil, err
	}
	return FilterPairsByMentee(GenerateMentoringPairs(team.IndividualScores), name), nil
}

// teamHealth validates the roster and window before any analyzer runs.
func (s *Service) teamHealth(ctx context.Context, windowDays int) (schema.TeamHealth, error) {
	if len(s.cfg.Engineers) == 0 {
		return schema.TeamHealth{}, fmt.Errorf("%w. Add engineers to your config file", contract.ErrEmptyRoster)
	}
	w, err := s.window(windowDays)
	if err != nil {
		return schema.TeamHealth{}, err
	}

	ctx, finish := s.beginSnapshot(ctx, w, "team")
	team := s.engine.TeamHealth(ctx, s.cfg.Engineers, w)
	finish(team.IndividualScores)
	return team, nil
}

func (s *Service) window(days int) (schema.Window, error) {
	cfg, err := s.cfg.CloneWithWindow(days)
	if err != nil {
		return schema.Window{}, err
	}
	return cfg.Window(s.now()), nil
}

// beginSnapshot starts snapshot tracking when a store is configured and
// returns the function that records the scores and closes the run.
// Tracking failures are logged and never fail the analysis.
func (s *Service) beginSnapshot(ctx context.Context, w schema.Window, operation string) (context.Context, func([]schema.OverallHealth)) {
	runUUID := uuid.NewString()
	ctx = withRunID(ctx, runUUID)
	noop := func([]schema.OverallHealth) {}
	if s.store == nil || shouldSkipSnapshot(ctx) {
		return ctx, noop
	}

	configParams := map[string]any{
		"operation": operation,
		"repo_path": s.cfg.RepoPath,
		"workers":   s.cfg.Workers,
		"weights":   s.cfg.Weights,
	}
	runID, err := s.store.BeginRun(runUUID, s.now(), w.Days, configParams)
	if err != nil {
		s.logger.Warn("snapshot tracking initialization failed", zap.String("run_id", runUUID), zap.Error(err))
		return ctx, noop
	}
	if runID <= 0 {
		return ctx, noop
	}

	return ctx, func(scores []schema.OverallHealth) {
		at := s.now()
		for _, h := range scores {
			if err := s.store.RecordEngineerScore(schema.NewEngineerScoreRecord(runID, at, h)); err != nil {
				s.logger.Warn("failed to record engineer score",
					zap.String("run_id", runUUID),
					zap.String("engineer", h.Engineer),
					zap.Error(err))
			}
		}
		if err := s.store.EndRun(runID, s.now(), len(scores)); err != nil {
			s.logger.Warn("failed to finalize snapshot tracking", zap.String("run_id", runUUID), zap.Error(err))
		}
	}
}

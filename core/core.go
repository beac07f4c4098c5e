// Package core has core logic for health scoring, alerts and orchestration.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/internal/knowledge"
	"github.com/huangsam/teampulse/internal/outwriter"
	"github.com/huangsam/teampulse/schema"
)

// ExecutorFunc defines the function signature for executing the team-wide commands.
type ExecutorFunc func(ctx context.Context, svc *Service) error

var writer = outwriter.NewOutWriter()

// ExecuteEngineerHealth analyzes one engineer and prints the report with its alerts.
func ExecuteEngineerHealth(ctx context.Context, svc *Service, name string) error {
	start := time.Now()
	report, err := svc.EngineerHealth(ctx, name, 0)
	if err != nil {
		return err
	}
	return writer.WriteEngineer(report, svc.Config(), time.Since(start))
}

// ExecuteTeamInsights analyzes the roster and prints the team overview.
func ExecuteTeamInsights(ctx context.Context, svc *Service) error {
	start := time.Now()
	insights, err := svc.TeamInsights(ctx, 0)
	if err != nil {
		return err
	}
	return writer.WriteTeam(insights, svc.Config(), time.Since(start))
}

// ExecuteDailySummary analyzes the roster and prints the daily digest.
func ExecuteDailySummary(ctx context.Context, svc *Service) error {
	start := time.Now()
	summary, err := svc.DailySummary(ctx, 0)
	if err != nil {
		return err
	}
	return writer.WriteSummary(summary, svc.Config(), time.Since(start))
}

// ExecuteTrainingRecommendations prints the training groups for an optional urgency.
func ExecuteTrainingRecommendations(ctx context.Context, svc *Service, urgency string) error {
	recs, err := svc.TrainingRecommendations(ctx, urgency, 0)
	if err != nil {
		return err
	}
	return writer.WriteTraining(recs, svc.Config())
}

// ExecuteFindMentors prints the mentoring pairs for an optional mentee.
func ExecuteFindMentors(ctx context.Context, svc *Service, mentee string) error {
	pairs, err := svc.FindMentors(ctx, mentee, 0)
	if err != nil {
		return err
	}
	return writer.WriteMentors(pairs, svc.Config())
}

// ExecuteEngineerTrajectory prints the recorded scores of one engineer, oldest first.
func ExecuteEngineerTrajectory(cfg *contract.Config, store contract.HistoryStore, name string) error {
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to sqlite, mysql or postgresql")
	}
	engineer, err := cfg.FindEngineer(name)
	if err != nil {
		return err
	}
	records, err := store.GetEngineerScores(engineer.Name)
	if err != nil {
		return fmt.Errorf("failed to read history for %s: %w", engineer.Name, err)
	}
	return writer.WriteTrajectory(records, cfg)
}

// ExecuteObserve appends one observation to the knowledge log.
// The author must be on the roster so the entry is attributed correctly.
func ExecuteObserve(ctx context.Context, cfg *contract.Config, obs schema.Observation) error {
	if cfg.KnowledgePath == "" {
		return errors.New("--knowledge-path is required to record observations")
	}
	engineer, err := cfg.FindEngineer(obs.Author)
	if err != nil {
		return err
	}
	obs.Author = engineer.Name
	obs.Content = strings.TrimSpace(obs.Content)
	if obs.Scope == "" {
		obs.Scope = "project"
	}
	if obs.Confidence != nil && (*obs.Confidence < 0 || *obs.Confidence > 1) {
		return fmt.Errorf("%w: confidence must be between 0 and 1 (received %.2f)", contract.ErrInvalidInput, *obs.Confidence)
	}
	if obs.Timestamp.IsZero() {
		obs.Timestamp = time.Now().UTC()
	}

	store := knowledge.NewFileStore(cfg.KnowledgePath)
	if err := store.Append(ctx, obs); err != nil {
		return err
	}
	return writer.WriteObservation(obs, store.Path(), cfg)
}

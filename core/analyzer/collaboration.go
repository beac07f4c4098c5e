package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// Remote signal weights.
const (
	submissionPoints    = 12
	reviewPoints        = 10
	reviewCommentPoints = 3
	issuePoints         = 4
)

// CollaborationAnalyzer combines file overlap with remote review activity.
type CollaborationAnalyzer struct {
	history  contract.HistoryProvider
	activity contract.ActivityProvider
	logger   *zap.Logger
}

// NewCollaborationAnalyzer creates a collaboration analyzer. The activity
// provider may be nil, in which case only file overlap is scored.
func NewCollaborationAnalyzer(history contract.HistoryProvider, activity contract.ActivityProvider, logger *zap.Logger) *CollaborationAnalyzer {
	return &CollaborationAnalyzer{history: history, activity: activity, logger: logger}
}

// Analyze returns an error only when the repository log cannot be read.
// Activity provider problems reduce the score to the cross-file signal.
func (a *CollaborationAnalyzer) Analyze(ctx context.Context, engineer schema.Engineer, w schema.Window) (schema.CollaborationResult, error) {
	if strings.TrimSpace(engineer.GitHub) == "" {
		return schema.CollaborationResult{
			Score:   schema.NeutralScore,
			Trend:   schema.TrendInsufficientData,
			Metrics: schema.CollaborationMetrics{Reason: "no activity handle configured"},
		}, nil
	}

	log, err := a.history.RepositoryLog(ctx, w.Start())
	if err != nil {
		return schema.CollaborationResult{}, fmt.Errorf("collaboration: repository log: %w", err)
	}
	m := crossFileMetrics(engineer.Identities(), log, w)

	older, recent, reason := a.fetchActivity(ctx, engineer.GitHub, w)
	if reason != "" {
		a.logger.Debug("collaboration without remote signals",
			zap.String("engineer", engineer.Name),
			zap.String("reason", reason))
		m.Reason = reason
		return schema.CollaborationResult{
			Score:   Clamp(m.CrossFilePoints),
			Trend:   schema.TrendStable,
			Metrics: m,
		}, nil
	}

	m.ProviderAvailable = true
	m.Activity = older.Add(recent)
	return schema.CollaborationResult{
		Score:   Clamp(m.CrossFilePoints + remotePoints(m.Activity)),
		Trend:   ClassifyChange(float64(older.ReviewComments), float64(recent.ReviewComments), false),
		Metrics: m,
	}, nil
}

// fetchActivity reads both window halves in parallel. A non-empty reason means
// the provider could not be used.
func (a *CollaborationAnalyzer) fetchActivity(ctx context.Context, handle string, w schema.Window) (older, recent schema.ActivityCounts, reason string) {
	if a.activity == nil {
		return older, recent, "activity provider not configured"
	}
	if ok, why := a.activity.Available(ctx); !ok {
		return older, recent, why
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		older, err = a.activity.Activity(gctx, handle, w.Start(), w.Midpoint())
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = a.activity.Activity(gctx, handle, w.Midpoint(), w.Now)
		return err
	})
	if err := g.Wait(); err != nil {
		return schema.ActivityCounts{}, schema.ActivityCounts{}, err.Error()
	}
	return older, recent, ""
}

// crossFileMetrics compares the files touched by the identities against the
// files touched by anyone else inside the window.
func crossFileMetrics(identities []string, log []schema.ChangeRecord, w schema.Window) schema.CollaborationMetrics {
	mine := make(map[string]struct{}, len(identities))
	for _, id := range identities {
		mine[strings.ToLower(id)] = struct{}{}
	}

	own := make(map[string]struct{})
	theirs := make(map[string]struct{})
	for _, r := range inWindow(log, w) {
		target := theirs
		if _, ok := mine[strings.ToLower(r.Author)]; ok {
			target = own
		}
		for _, f := range r.Files {
			target[f] = struct{}{}
		}
	}

	m := schema.CollaborationMetrics{OwnFiles: len(own)}
	for f := range own {
		if _, ok := theirs[f]; ok {
			m.SharedFiles++
		}
	}
	if m.OwnFiles > 0 {
		m.SharedRatio = float64(m.SharedFiles) / float64(m.OwnFiles)
	}
	m.CrossFilePoints = CrossFilePoints(m.SharedRatio)
	return m
}

// CrossFilePoints maps the shared file ratio onto 0..25 points.
func CrossFilePoints(ratio float64) float64 {
	switch {
	case ratio >= 0.5:
		return 25
	case ratio >= 0.25:
		return 12 + (ratio-0.25)/0.25*13
	case ratio >= 0.10:
		return 5 + (ratio-0.10)/0.15*7
	case ratio > 0:
		return ratio / 0.10 * 5
	default:
		return 0
	}
}

func remotePoints(c schema.ActivityCounts) float64 {
	return float64(c.Submissions*submissionPoints +
		c.ReviewsGiven*reviewPoints +
		c.ReviewComments*reviewCommentPoints +
		(c.IssuesCreated+c.IssueComments)*issuePoints)
}

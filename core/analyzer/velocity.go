package analyzer

import (
	"context"
	"fmt"
	"math"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// VelocityAnalyzer scores delivery pace from commit counts.
type VelocityAnalyzer struct {
	history contract.HistoryProvider
}

// NewVelocityAnalyzer creates a velocity analyzer.
func NewVelocityAnalyzer(history contract.HistoryProvider) *VelocityAnalyzer {
	return &VelocityAnalyzer{history: history}
}

// Analyze runs once per identity and keeps the identity with the most commits.
func (a *VelocityAnalyzer) Analyze(ctx context.Context, identities []string, w schema.Window) (schema.VelocityResult, error) {
	best, id, total, err := bestIdentity(ctx, a.history, identities, w, ScoreVelocity,
		func(r schema.VelocityResult) int { return r.Metrics.TotalCommits })
	if err != nil {
		return schema.VelocityResult{}, fmt.Errorf("velocity: %w", err)
	}
	best.Metrics.TotalCommits = total
	best.Metrics.Identity = id
	return best, nil
}

// ScoreVelocity computes the velocity result for one identity.
func ScoreVelocity(records []schema.ChangeRecord, w schema.Window) schema.VelocityResult {
	records = inWindow(records, w)
	if len(records) == 0 {
		return schema.VelocityResult{Score: 0, Trend: schema.TrendInsufficientData}
	}

	var m schema.VelocityMetrics
	for _, r := range records {
		m.LinesChanged += r.LinesChanged()
	}
	weeks := float64(w.Weeks())
	m.TotalCommits = len(records)
	m.CommitsPerWeek = float64(m.TotalCommits) / weeks
	m.LinesPerWeek = float64(m.LinesChanged) / weeks

	older, recent := splitHalves(records, w)
	if change, ok := RelativeChange(float64(len(older)), float64(len(recent))); ok {
		m.VelocityTrend = change
	}

	return schema.VelocityResult{
		Score:   Clamp(VelocityRawScore(m.CommitsPerWeek, m.VelocityTrend)),
		Trend:   velocityLabel(m.VelocityTrend),
		Metrics: m,
	}
}

// VelocityRawScore is the unclamped velocity formula.
func VelocityRawScore(commitsPerWeek, trend float64) float64 {
	base := math.Min(100, commitsPerWeek/schema.TargetCommitsPerWeek*100)
	switch {
	case trend < -0.30:
		return base * 0.7
	case trend < -0.20:
		return base * 0.85
	case trend > 0.20:
		return base * 1.15
	default:
		return base
	}
}

func velocityLabel(trend float64) schema.Trend {
	switch {
	case trend > schema.VelocityLabelCutoff:
		return schema.TrendImproving
	case trend < -schema.VelocityLabelCutoff:
		return schema.TrendDeclining
	default:
		return schema.TrendStable
	}
}

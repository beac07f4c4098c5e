package core

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/huangsam/teampulse/core/analyzer"
	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// Providers are the data sources behind the category analyzers.
// Activity may be nil when no activity provider is configured.
type Providers struct {
	History   contract.HistoryProvider
	Activity  contract.ActivityProvider
	Knowledge contract.KnowledgeStore
}

// Engine combines the category analyzers into health scores.
// It holds no per-call state, so one Engine can serve concurrent requests.
type Engine struct {
	weights map[schema.Category]float64
	workers int
	logger  *zap.Logger

	knowledge     *analyzer.KnowledgeAnalyzer
	quality       *analyzer.QualityAnalyzer
	velocity      *analyzer.VelocityAnalyzer
	collaboration *analyzer.CollaborationAnalyzer
}

// NewEngine validates the weights and wires the analyzers.
func NewEngine(weights map[schema.Category]float64, workers int, p Providers, logger *zap.Logger) (*Engine, error) {
	if err := contract.ValidateWeights(weights); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		weights:       weights,
		workers:       workers,
		logger:        logger,
		knowledge:     analyzer.NewKnowledgeAnalyzer(p.Knowledge, logger),
		quality:       analyzer.NewQualityAnalyzer(p.History),
		velocity:      analyzer.NewVelocityAnalyzer(p.History),
		collaboration: analyzer.NewCollaborationAnalyzer(p.History, p.Activity, logger),
	}, nil
}

// EngineerHealth runs the four analyzers concurrently and combines them.
// It never fails: any analyzer error or panic yields the neutral error health.
func (e *Engine) EngineerHealth(ctx context.Context, engineer schema.Engineer, w schema.Window) schema.OverallHealth {
	runID, ok := getRunID(ctx)
	if !ok {
		runID = uuid.NewString()
	}
	logger := e.logger.With(zap.String("run_id", runID), zap.String("engineer", engineer.Name))
	identities := engineer.Identities()

	var (
		knowledge     analyzer.Outcome[schema.KnowledgeMetrics]
		quality       analyzer.Outcome[schema.QualityMetrics]
		velocity      analyzer.Outcome[schema.VelocityMetrics]
		collaboration analyzer.Outcome[schema.CollaborationMetrics]
	)

	var wg sync.WaitGroup
	wg.Go(func() {
		knowledge = guard(func() (schema.KnowledgeResult, error) {
			return e.knowledge.Analyze(ctx, engineer, w), nil
		})
	})
	wg.Go(func() {
		quality = guard(func() (schema.QualityResult, error) {
			return e.quality.Analyze(ctx, identities, w)
		})
	})
	wg.Go(func() {
		velocity = guard(func() (schema.VelocityResult, error) {
			return e.velocity.Analyze(ctx, identities, w)
		})
	})
	wg.Go(func() {
		collaboration = guard(func() (schema.CollaborationResult, error) {
			return e.collaboration.Analyze(ctx, engineer, w)
		})
	})
	wg.Wait()

	failures := map[schema.Category]error{
		schema.KnowledgeSharing: knowledge.Err,
		schema.CodeQuality:      quality.Err,
		schema.Velocity:         velocity.Err,
		schema.Collaboration:    collaboration.Err,
	}
	for _, c := range schema.AllCategories {
		if err := failures[c]; err != nil {
			logger.Warn("analyzer failed, using neutral health",
				zap.String("category", string(c)),
				zap.Error(err))
			return neutralHealth(engineer.Name, err)
		}
	}

	return Combine(engineer.Name, e.weights, schema.DetailedMetrics{
		CodeQuality:      quality.Result,
		KnowledgeSharing: knowledge.Result,
		Velocity:         velocity.Result,
		Collaboration:    collaboration.Result,
	})
}

// TeamHealth analyzes every engineer with a bounded worker pool. Individual
// scores keep roster order.
func (e *Engine) TeamHealth(ctx context.Context, engineers []schema.Engineer, w schema.Window) schema.TeamHealth {
	scores := make([]schema.OverallHealth, len(engineers))
	jobCh := make(chan int, len(engineers))
	var wg sync.WaitGroup

	for range min(e.workers, max(len(engineers), 1)) {
		wg.Go(func() {
			for i := range jobCh {
				// Each worker writes to a unique index, which is safe.
				scores[i] = e.EngineerHealth(ctx, engineers[i], w)
			}
		})
	}
	for i := range engineers {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()

	return SummarizeTeam(scores)
}

// Combine builds the OverallHealth from four successful analyzer results.
func Combine(name string, weights map[schema.Category]float64, d schema.DetailedMetrics) schema.OverallHealth {
	b := schema.Breakdown{
		CodeQuality:      d.CodeQuality.Score,
		KnowledgeSharing: d.KnowledgeSharing.Score,
		Velocity:         d.Velocity.Score,
		Collaboration:    d.Collaboration.Score,
	}
	var sum float64
	for _, c := range schema.AllCategories {
		sum += weights[c] * float64(b.Score(c))
	}
	overall := analyzer.Clamp(sum)
	return schema.OverallHealth{
		Engineer:        name,
		OverallScore:    overall,
		Breakdown:       b,
		DetailedMetrics: d,
		Trending:        analyzer.MajorityTrend(d.KnowledgeSharing.Trend, d.CodeQuality.Trend, d.Velocity.Trend),
		NeedsSupport:    overall < schema.NeedsSupportThreshold,
	}
}

// SummarizeTeam aggregates individual scores. Unmeasured engineers count in
// the team size, distribution and at-risk list but not in the averages.
func SummarizeTeam(scores []schema.OverallHealth) schema.TeamHealth {
	team := schema.TeamHealth{
		TeamSize:         len(scores),
		AtRisk:           []schema.AtRiskEntry{},
		HighPerformers:   []schema.HighPerformer{},
		IndividualScores: scores,
	}

	var measured int
	var overall float64
	var avg schema.CategoryAverages
	for _, h := range scores {
		switch {
		case h.OverallScore >= schema.HealthyThreshold:
			team.HealthDistribution.Healthy++
		case h.OverallScore >= schema.NeedsSupportThreshold:
			team.HealthDistribution.Watch++
		default:
			team.HealthDistribution.NeedsHelp++
		}

		if h.NeedsSupport {
			entry := schema.AtRiskEntry{Engineer: h.Engineer, Score: h.OverallScore, PrimaryConcerns: []schema.Category{}}
			if h.Measured() {
				entry.PrimaryConcerns = weakestCategories(h.Breakdown, 2)
			}
			team.AtRisk = append(team.AtRisk, entry)
		}
		if !h.Measured() {
			continue
		}
		if h.OverallScore >= schema.HighPerformerThreshold {
			team.HighPerformers = append(team.HighPerformers, schema.HighPerformer{
				Engineer:  h.Engineer,
				Score:     h.OverallScore,
				Strengths: strengths(h.Breakdown),
			})
		}

		measured++
		overall += float64(h.OverallScore)
		avg.CodeQuality += float64(h.Breakdown.CodeQuality)
		avg.KnowledgeSharing += float64(h.Breakdown.KnowledgeSharing)
		avg.Velocity += float64(h.Breakdown.Velocity)
		avg.Collaboration += float64(h.Breakdown.Collaboration)
	}

	if measured > 0 {
		n := float64(measured)
		team.AvgOverall = roundTenth(overall / n)
		team.AvgBreakdown = schema.CategoryAverages{
			CodeQuality:      roundTenth(avg.CodeQuality / n),
			KnowledgeSharing: roundTenth(avg.KnowledgeSharing / n),
			Velocity:         roundTenth(avg.Velocity / n),
			Collaboration:    roundTenth(avg.Collaboration / n),
		}
	}

	slices.SortStableFunc(team.AtRisk, func(a, b schema.AtRiskEntry) int {
		return cmp.Compare(a.Score, b.Score)
	})
	slices.SortStableFunc(team.HighPerformers, func(a, b schema.HighPerformer) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return team
}

// weakestCategories returns up to n categories ordered by ascending score.
// Ties keep the fixed category order.
func weakestCategories(b schema.Breakdown, n int) []schema.Category {
	cats := slices.Clone(schema.AllCategories)
	slices.SortStableFunc(cats, func(x, y schema.Category) int {
		return cmp.Compare(b.Score(x), b.Score(y))
	})
	return cats[:min(n, len(cats))]
}

func strengths(b schema.Breakdown) []schema.Category {
	out := []schema.Category{}
	for _, c := range schema.AllCategories {
		if b.Score(c) >= schema.HighPerformerThreshold {
			out = append(out, c)
		}
	}
	return out
}

func neutralHealth(name string, err error) schema.OverallHealth {
	return schema.OverallHealth{
		Engineer:     name,
		OverallScore: schema.NeutralScore,
		Trending:     schema.TrendError,
		NeedsSupport: schema.NeutralScore < schema.NeedsSupportThreshold,
		Error:        err.Error(),
	}
}

// guard converts a panic inside an analyzer into a failed outcome.
func guard[M any](fn func() (schema.AnalyzerResult[M], error)) (out analyzer.Outcome[M]) {
	defer func() {
		if r := recover(); r != nil {
			out = analyzer.Failed[M](fmt.Errorf("analyzer panic: %v", r))
		}
	}()
	result, err := fn()
	if err != nil {
		return analyzer.Failed[M](err)
	}
	return analyzer.Succeeded(result)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

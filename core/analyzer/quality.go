package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// Message vocabularies, matched as case-insensitive substrings.
var (
	bugVocabulary    = []string{"fix", "bug", "hotfix", "patch", "resolve", "correct"}
	revertVocabulary = []string{"revert", "rollback", "roll back", "backout", "back out"}
)

// QualityAnalyzer scores code quality from commit messages and sizes.
type QualityAnalyzer struct {
	history contract.HistoryProvider
}

// NewQualityAnalyzer creates a code quality analyzer.
func NewQualityAnalyzer(history contract.HistoryProvider) *QualityAnalyzer {
	return &QualityAnalyzer{history: history}
}

// Analyze runs once per identity and keeps the identity with the most commits.
func (a *QualityAnalyzer) Analyze(ctx context.Context, identities []string, w schema.Window) (schema.QualityResult, error) {
	best, id, total, err := bestIdentity(ctx, a.history, identities, w, ScoreQuality,
		func(r schema.QualityResult) int { return r.Metrics.TotalCommits })
	if err != nil {
		return schema.QualityResult{}, fmt.Errorf("code quality: %w", err)
	}
	best.Metrics.TotalCommits = total
	best.Metrics.Identity = id
	return best, nil
}

// ScoreQuality computes the code quality result for one identity.
func ScoreQuality(records []schema.ChangeRecord, w schema.Window) schema.QualityResult {
	records = inWindow(records, w)
	if len(records) == 0 {
		return schema.QualityResult{
			Score: schema.NeutralScore,
			Trend: schema.TrendInsufficientData,
		}
	}

	var bugFixes, clean, lines int
	var m schema.QualityMetrics
	for _, r := range records {
		if isBugFix(r.Message) {
			bugFixes++
		}
		if isRevert(r.Message) {
			m.RevertedCommits++
		}
		if r.LinesChanged() < schema.CleanCommitLineCutoff {
			clean++
		}
		lines += r.LinesChanged()
	}
	n := float64(len(records))
	m.TotalCommits = len(records)
	m.BugFixRatio = float64(bugFixes) / n
	m.AvgCommitSize = float64(lines) / n
	m.CleanCommitsRatio = float64(clean) / n

	older, recent := splitHalves(records, w)
	return schema.QualityResult{
		Score:   Clamp(QualityRawScore(m.BugFixRatio, m.RevertedCommits, m.CleanCommitsRatio)),
		Trend:   qualityTrend(older, recent),
		Metrics: m,
	}
}

// qualityTrend compares fix ratios of the two halves. Only an empty older
// half is incomparable; from a clean older half any fix is a decline.
func qualityTrend(older, recent []schema.ChangeRecord) schema.Trend {
	if len(older) == 0 {
		return schema.TrendStable
	}
	olderRatio, recentRatio := bugFixRatio(older), bugFixRatio(recent)
	if olderRatio == 0 {
		if recentRatio > 0 {
			return schema.TrendDeclining
		}
		return schema.TrendStable
	}
	return ClassifyChange(olderRatio, recentRatio, true)
}

// QualityRawScore is the unclamped code quality formula.
func QualityRawScore(bugFixRatio float64, reverted int, cleanRatio float64) float64 {
	return 80 - bugFixRatio*100 - float64(reverted)*5 + cleanRatio*20
}

func bugFixRatio(records []schema.ChangeRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	n := 0
	for _, r := range records {
		if isBugFix(r.Message) {
			n++
		}
	}
	return float64(n) / float64(len(records))
}

func isBugFix(message string) bool {
	return containsAny(message, bugVocabulary)
}

func isRevert(message string) bool {
	return containsAny(message, revertVocabulary)
}

func containsAny(s string, vocabulary []string) bool {
	s = strings.ToLower(s)
	for _, v := range vocabulary {
		if strings.Contains(s, v) {
			return true
		}
	}
	return false
}

// bestIdentity scores every identity separately. The identity with strictly
// more commits wins, so the primary address wins ties. The last int is the
// commit count across all identities.
func bestIdentity[R any](
	ctx context.Context,
	history contract.HistoryProvider,
	identities []string,
	w schema.Window,
	score func([]schema.ChangeRecord, schema.Window) R,
	commits func(R) int,
) (R, string, int, error) {
	best := score(nil, w)
	bestID, bestCommits, total := "", -1, 0
	for _, id := range identities {
		records, err := history.Commits(ctx, id, w.Start())
		if err != nil {
			return best, "", 0, fmt.Errorf("history for %s: %w", id, err)
		}
		r := score(records, w)
		c := commits(r)
		total += c
		if c > bestCommits {
			best, bestID, bestCommits = r, id, c
		}
	}
	return best, bestID, total, nil
}

package analyzer

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// KnowledgeAnalyzer scores an engineer's contributions to the knowledge log.
type KnowledgeAnalyzer struct {
	store  contract.KnowledgeStore
	logger *zap.Logger
}

// NewKnowledgeAnalyzer creates a knowledge analyzer on top of a store.
func NewKnowledgeAnalyzer(store contract.KnowledgeStore, logger *zap.Logger) *KnowledgeAnalyzer {
	return &KnowledgeAnalyzer{store: store, logger: logger}
}

// Analyze never fails. A store error yields the zero-count result with a reason.
func (a *KnowledgeAnalyzer) Analyze(ctx context.Context, engineer schema.Engineer, w schema.Window) schema.KnowledgeResult {
	obs, err := a.store.Observations(ctx)
	if err != nil {
		a.logger.Warn("knowledge store read failed",
			zap.String("engineer", engineer.Name),
			zap.Error(err))
		result := ScoreKnowledge(engineer.Name, nil, w)
		result.Metrics.Reason = "knowledge store unavailable: " + err.Error()
		return result
	}
	return ScoreKnowledge(engineer.Name, obs, w)
}

// ScoreKnowledge computes the knowledge sharing result from the raw log.
func ScoreKnowledge(author string, log []schema.Observation, w schema.Window) schema.KnowledgeResult {
	var own, others []schema.Observation
	for _, o := range log {
		if !w.Contains(o.Timestamp) {
			continue
		}
		if sameAuthor(o.Author, author) {
			own = append(own, o)
		} else {
			others = append(others, o)
		}
	}

	var m schema.KnowledgeMetrics
	var confidenceSum float64
	var olderCount, recentCount int
	for _, o := range own {
		if o.IsOrgWide() {
			m.OrgContributions++
		} else {
			m.ProjectContributions++
		}
		conf := o.ConfidenceOrDefault()
		confidenceSum += conf
		if conf < schema.CorrectionConfidence {
			m.CorrectionsReceived++
		}
		if w.IsRecent(o.Timestamp) {
			recentCount++
		} else {
			olderCount++
		}
	}
	if len(own) > 0 {
		m.AvgConfidence = confidenceSum / float64(len(own))
	}
	m.MemoryReferences = countReferences(own, others)

	raw := float64(m.OrgContributions)*10 +
		float64(m.ProjectContributions)*5 +
		m.AvgConfidence*30 +
		float64(m.MemoryReferences)*5 -
		float64(m.CorrectionsReceived)*3

	return schema.KnowledgeResult{
		Score:   Clamp(raw),
		Trend:   ClassifyChange(float64(olderCount), float64(recentCount), false),
		Metrics: m,
	}
}

// countReferences counts entries of other authors sharing enough content
// words with at least one of the engineer's entries.
func countReferences(own, others []schema.Observation) int {
	if len(own) == 0 {
		return 0
	}
	ownWords := make([]map[string]struct{}, len(own))
	for i, o := range own {
		ownWords[i] = contentWords(o.Content)
	}

	count := 0
	for _, o := range others {
		words := contentWords(o.Content)
		for _, mine := range ownWords {
			if sharedWords(words, mine) >= schema.MinSharedWords {
				count++
				break
			}
		}
	}
	return count
}

// contentWords returns the distinct lowercase words long enough to be meaningful.
func contentWords(content string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= schema.MinContentWordLength {
			words[f] = struct{}{}
		}
	}
	return words
}

func sharedWords(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

func sameAuthor(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

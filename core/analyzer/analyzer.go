// Package analyzer has the four category analyzers that feed the health engine.
package analyzer

import (
	"math"

	"github.com/huangsam/teampulse/schema"
)

// Outcome is the result of one analyzer run: either a result or the error
// that prevented it.
type Outcome[M any] struct {
	Result schema.AnalyzerResult[M]
	Err    error
}

// Succeeded wraps a successful result.
func Succeeded[M any](r schema.AnalyzerResult[M]) Outcome[M] {
	return Outcome[M]{Result: r}
}

// Failed wraps an analyzer failure.
func Failed[M any](err error) Outcome[M] {
	return Outcome[M]{Err: err}
}

// Ok reports whether the analyzer produced a result.
func (o Outcome[M]) Ok() bool {
	return o.Err == nil
}

// Clamp rounds a raw score and bounds it to [0, 100].
func Clamp(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	r := math.Round(raw)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	default:
		return int(r)
	}
}

// RelativeChange returns (recent-older)/older. It is not defined when older is zero.
func RelativeChange(older, recent float64) (float64, bool) {
	if older == 0 {
		return 0, false
	}
	return (recent - older) / older, true
}

// ClassifyChange compares the two halves of a window using the shared
// ±20% threshold. When lowerIsBetter is set a decrease counts as improving.
func ClassifyChange(older, recent float64, lowerIsBetter bool) schema.Trend {
	change, ok := RelativeChange(older, recent)
	if !ok {
		return schema.TrendStable
	}
	if lowerIsBetter {
		change = -change
	}
	switch {
	case change > schema.TrendChangeThreshold:
		return schema.TrendImproving
	case change < -schema.TrendChangeThreshold:
		return schema.TrendDeclining
	default:
		return schema.TrendStable
	}
}

// MajorityTrend needs at least two votes in one direction to leave stable.
func MajorityTrend(trends ...schema.Trend) schema.Trend {
	var up, down int
	for _, t := range trends {
		switch t {
		case schema.TrendImproving:
			up++
		case schema.TrendDeclining:
			down++
		}
	}
	switch {
	case up >= 2:
		return schema.TrendImproving
	case down >= 2:
		return schema.TrendDeclining
	default:
		return schema.TrendStable
	}
}

// splitHalves partitions records inside the window into older and recent halves.
func splitHalves(records []schema.ChangeRecord, w schema.Window) (older, recent []schema.ChangeRecord) {
	for _, r := range records {
		if !w.Contains(r.Timestamp) {
			continue
		}
		if w.IsRecent(r.Timestamp) {
			recent = append(recent, r)
		} else {
			older = append(older, r)
		}
	}
	return older, recent
}

// inWindow keeps the records inside the window.
func inWindow(records []schema.ChangeRecord, w schema.Window) []schema.ChangeRecord {
	out := make([]schema.ChangeRecord, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

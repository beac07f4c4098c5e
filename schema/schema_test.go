package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngineerIdentities(t *testing.T) {
	e := Engineer{
		Name:    "Alice",
		Email:   "alice@corp.com",
		Aliases: []string{"alice@personal.dev", " ALICE@corp.com ", ""},
	}
	assert.Equal(t, []string{"alice@corp.com", "alice@personal.dev"}, e.Identities())
	assert.Empty(t, Engineer{Name: "nobody"}.Identities())
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	w := NewWindow(30, now)

	assert.Equal(t, now.AddDate(0, 0, -30), w.Start())
	assert.Equal(t, now.AddDate(0, 0, -15), w.Midpoint())
	assert.True(t, w.Contains(now.AddDate(0, 0, -29)))
	assert.False(t, w.Contains(now.AddDate(0, 0, -31)))
	assert.False(t, w.Contains(now.Add(time.Hour)))
	assert.True(t, w.IsRecent(now.AddDate(0, 0, -1)))
	assert.False(t, w.IsRecent(now.AddDate(0, 0, -20)))

	tests := []struct {
		days int
		want int
	}{
		{1, 1},
		{7, 1},
		{8, 2},
		{30, 5},
		{0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewWindow(tt.days, now).Weeks(), "days=%d", tt.days)
	}
}

func TestObservationDefaults(t *testing.T) {
	low := 0.4
	assert.Equal(t, DefaultConfidence, Observation{}.ConfidenceOrDefault())
	assert.Equal(t, 0.4, Observation{Confidence: &low}.ConfidenceOrDefault())

	assert.True(t, Observation{Scope: "org"}.IsOrgWide())
	assert.True(t, Observation{Scope: " Organization "}.IsOrgWide())
	assert.False(t, Observation{Scope: "payments-service"}.IsOrgWide())
	assert.False(t, Observation{}.IsOrgWide())
}

func TestBreakdownScore(t *testing.T) {
	b := Breakdown{CodeQuality: 1, KnowledgeSharing: 2, Velocity: 3, Collaboration: 4}
	for i, c := range AllCategories {
		assert.Equal(t, i+1, b.Score(c))
	}
	assert.Equal(t, 0, b.Score(OverallCategory))
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, c := range AllCategories {
		sum += DefaultWeights()[c]
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestActivityCountsAdd(t *testing.T) {
	a := ActivityCounts{Submissions: 1, ReviewsGiven: 2, ReviewComments: 3, IssuesCreated: 4, IssueComments: 5}
	assert.Equal(t, ActivityCounts{Submissions: 2, ReviewsGiven: 4, ReviewComments: 6, IssuesCreated: 8, IssueComments: 10}, a.Add(a))
}

package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/teampulse/schema"
)

// Alert priorities. Lower is more urgent.
const (
	priorityOverallCritical = 1
	priorityQualityCritical = 2
	priorityQualityWarning  = 3
	priorityVelocityWarning = 4
	priorityKnowledgeLow    = 5
	priorityMentorPotential = 8
	priorityImproving       = 9
)

// trainingTopic is the fixed training offer for one category.
type trainingTopic struct {
	category schema.Category
	topic    string
	urgency  schema.Urgency
	reason   string
}

// trainingTopics is also the output order of recommendations.
var trainingTopics = []trainingTopic{
	{
		category: schema.CodeQuality,
		topic:    "structured testing practice",
		urgency:  schema.UrgencyHigh,
		reason:   "Code quality alerts point to a high share of fixes and reverts",
	},
	{
		category: schema.KnowledgeSharing,
		topic:    "documentation & knowledge sharing",
		urgency:  schema.UrgencyMedium,
		reason:   "Few recorded observations keep knowledge in individual heads",
	},
	{
		category: schema.Velocity,
		topic:    "task management & productivity",
		urgency:  schema.UrgencyMedium,
		reason:   "Commit throughput dropped compared to the previous period",
	},
}

// GenerateAlerts evaluates the fixed thresholds for one engineer and sorts
// the alerts by priority. Unmeasured health produces no alerts.
func GenerateAlerts(h schema.OverallHealth) []schema.Alert {
	alerts := []schema.Alert{}
	if !h.Measured() {
		return alerts
	}
	add := func(sev schema.Severity, cat schema.Category, prio int, msg, rec string) {
		alerts = append(alerts, schema.Alert{
			Engineer:       h.Engineer,
			Severity:       sev,
			Category:       cat,
			Message:        msg,
			Recommendation: rec,
			Priority:       prio,
		})
	}

	if h.OverallScore < schema.CriticalThreshold {
		add(schema.SeverityCritical, schema.OverallCategory, priorityOverallCritical,
			fmt.Sprintf("Overall health critically low (%d)", h.OverallScore),
			"Schedule a 1:1 to review workload, blockers and support needs")
	}

	quality := h.Breakdown.CodeQuality
	switch {
	case quality < schema.CriticalThreshold:
		add(schema.SeverityCritical, schema.CodeQuality, priorityQualityCritical,
			fmt.Sprintf("Code quality critically low (%d, bug-fix ratio %.0f%%)",
				quality, h.DetailedMetrics.CodeQuality.Metrics.BugFixRatio*100),
			"Pair on tests for recent fixes and tighten code review")
	case quality < schema.NeedsSupportThreshold:
		add(schema.SeverityWarning, schema.CodeQuality, priorityQualityWarning,
			fmt.Sprintf("Code quality declining (%d)", quality),
			"Add tests before merging and keep changes small")
	}

	if trend := h.DetailedMetrics.Velocity.Metrics.VelocityTrend; trend < schema.VelocityDropThreshold {
		add(schema.SeverityWarning, schema.Velocity, priorityVelocityWarning,
			fmt.Sprintf("Velocity declining (%.0f%% versus the previous period)", trend*100),
			"Check for blockers and context switching in the current work")
	}

	if h.Breakdown.KnowledgeSharing < schema.LowKnowledgeThreshold {
		add(schema.SeverityWarning, schema.KnowledgeSharing, priorityKnowledgeLow,
			fmt.Sprintf("Low knowledge sharing (%d)", h.Breakdown.KnowledgeSharing),
			"Record decisions and lessons learned in the knowledge log")
	}

	if h.OverallScore >= schema.MentorPotential {
		add(schema.SeverityPositive, schema.MentoringCategory, priorityMentorPotential,
			fmt.Sprintf("Mentor potential (%d)", h.OverallScore),
			"Consider pairing with engineers who need support")
	}

	if h.Trending == schema.TrendImproving {
		add(schema.SeverityPositive, schema.TrendCategory, priorityImproving,
			"Consistent improvement across categories",
			"Recognize the progress in the next team sync")
	}

	slices.SortStableFunc(alerts, func(a, b schema.Alert) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return alerts
}

// GenerateTrainingRecommendations groups critical and warning alerts by
// category into the fixed training topics.
func GenerateTrainingRecommendations(scores []schema.OverallHealth) []schema.TrainingRecommendation {
	attendees := make(map[schema.Category][]string)
	for _, h := range scores {
		for _, a := range GenerateAlerts(h) {
			if a.Severity == schema.SeverityPositive {
				continue
			}
			if !slices.Contains(attendees[a.Category], h.Engineer) {
				attendees[a.Category] = append(attendees[a.Category], h.Engineer)
			}
		}
	}

	recs := []schema.TrainingRecommendation{}
	for _, t := range trainingTopics {
		names := attendees[t.category]
		if len(names) == 0 {
			continue
		}
		recs = append(recs, schema.TrainingRecommendation{
			Topic:     t.topic,
			Category:  t.category,
			Attendees: names,
			Urgency:   t.urgency,
			Reason:    t.reason,
		})
	}
	return recs
}

// FilterTrainingByUrgency keeps the recommendations of one urgency.
// An empty urgency keeps everything.
func FilterTrainingByUrgency(recs []schema.TrainingRecommendation, urgency schema.Urgency) []schema.TrainingRecommendation {
	if urgency == "" {
		return recs
	}
	out := []schema.TrainingRecommendation{}
	for _, r := range recs {
		if r.Urgency == urgency {
			out = append(out, r)
		}
	}
	return out
}

// GenerateMentoringPairs matches mentees with mentors greedily. Mentees are
// visited in roster order and each tries its two weakest categories in
// ascending order; the first unassigned mentor in roster order that is
// strong in the category wins. Mentors and mentees appear in at most one pair.
func GenerateMentoringPairs(scores []schema.OverallHealth) []schema.MentoringPair {
	var mentors []schema.OverallHealth
	for _, h := range scores {
		if h.Measured() && h.OverallScore >= schema.HighPerformerThreshold {
			mentors = append(mentors, h)
		}
	}
	assigned := make([]bool, len(mentors))

	pairs := []schema.MentoringPair{}
	for _, mentee := range scores {
		if !mentee.Measured() || !mentee.NeedsSupport {
			continue
		}
	search:
		for _, cat := range weakestCategories(mentee.Breakdown, 2) {
			for i, mentor := range mentors {
				if assigned[i] || mentor.Engineer == mentee.Engineer {
					continue
				}
				mentorScore := mentor.Breakdown.Score(cat)
				if mentorScore < schema.HighPerformerThreshold {
					continue
				}
				menteeScore := mentee.Breakdown.Score(cat)
				assigned[i] = true
				pairs = append(pairs, schema.MentoringPair{
					Mentor:          mentor.Engineer,
					Mentee:          mentee.Engineer,
					Focus:           cat,
					MentorScore:     mentorScore,
					MenteeScore:     menteeScore,
					EstimatedImpact: estimateImpact(mentorScore - menteeScore),
				})
				break search
			}
		}
	}
	return pairs
}

// FilterPairsByMentee keeps the pairs of one mentee, matched case-insensitively.
// An empty mentee keeps everything.
func FilterPairsByMentee(pairs []schema.MentoringPair, mentee string) []schema.MentoringPair {
	mentee = strings.TrimSpace(mentee)
	if mentee == "" {
		return pairs
	}
	out := []schema.MentoringPair{}
	for _, p := range pairs {
		if strings.EqualFold(p.Mentee, mentee) {
			out = append(out, p)
		}
	}
	return out
}

// GenerateDailySummary condenses team health into the daily digest.
func GenerateDailySummary(team schema.TeamHealth, now time.Time) schema.DailySummary {
	summary := schema.DailySummary{
		Date:                    now.Format(time.DateOnly),
		TeamSize:                team.TeamSize,
		AvgOverall:              team.AvgOverall,
		Critical:                []schema.SummaryEntry{},
		Warning:                 []schema.SummaryEntry{},
		Positives:               []string{},
		FocusAreas:              []string{},
		TrainingRecommendations: GenerateTrainingRecommendations(team.IndividualScores),
		MentoringPairs:          GenerateMentoringPairs(team.IndividualScores),
	}

	for _, r := range team.AtRisk {
		entry := schema.SummaryEntry{Engineer: r.Engineer, Score: r.Score}
		if r.Score < schema.CriticalThreshold {
			summary.Critical = append(summary.Critical, entry)
		} else {
			summary.Warning = append(summary.Warning, entry)
		}
	}

	measured := 0
	for _, h := range team.IndividualScores {
		if h.Trending == schema.TrendImproving {
			summary.Positives = append(summary.Positives, h.Engineer)
		}
		if h.Measured() {
			measured++
		}
	}

	if measured > 0 {
		avg := team.AvgBreakdown
		if avg.CodeQuality < schema.FocusCodeQuality {
			summary.FocusAreas = append(summary.FocusAreas, "Team code quality below target")
		}
		if avg.KnowledgeSharing < schema.FocusKnowledgeSharing {
			summary.FocusAreas = append(summary.FocusAreas, "Team knowledge sharing below target")
		}
		if avg.Velocity < schema.FocusVelocity {
			summary.FocusAreas = append(summary.FocusAreas, "Team velocity below target")
		}
	}
	return summary
}

func estimateImpact(gap int) schema.Impact {
	switch {
	case gap >= 40:
		return schema.ImpactHigh
	case gap >= 25:
		return schema.ImpactMedium
	default:
		return schema.ImpactLow
	}
}

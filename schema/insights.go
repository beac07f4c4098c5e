package schema

// Alert is a threshold-based finding for one engineer. Priority 1 is most urgent.
type Alert struct {
	Engineer       string   `json:"engineer"`
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
	Priority       int      `json:"priority"`
}

// TrainingRecommendation groups engineers that triggered the same category.
type TrainingRecommendation struct {
	Topic     string   `json:"topic"`
	Category  Category `json:"category"`
	Attendees []string `json:"attendees"`
	Urgency   Urgency  `json:"urgency"`
	Reason    string   `json:"reason"`
}

// MentoringPair matches a strong engineer with one that needs support.
type MentoringPair struct {
	Mentor          string   `json:"mentor"`
	Mentee          string   `json:"mentee"`
	Focus           Category `json:"focus"`
	MentorScore     int      `json:"mentor_score"`
	MenteeScore     int      `json:"mentee_score"`
	EstimatedImpact Impact   `json:"estimated_impact"`
}

// EngineerReport is the result of the engineer_health operation.
type EngineerReport struct {
	Health OverallHealth `json:"health"`
	Alerts []Alert       `json:"alerts"`
}

// TeamInsights is the result of the team_insights operation.
type TeamInsights struct {
	Team                    TeamHealth               `json:"team"`
	TrainingRecommendations []TrainingRecommendation `json:"training_recommendations"`
	MentoringPairs          []MentoringPair          `json:"mentoring_pairs"`
}

// SummaryEntry names an engineer with their overall score.
type SummaryEntry struct {
	Engineer string `json:"engineer"`
	Score    int    `json:"score"`
}

// DailySummary is the result of the daily_summary operation.
type DailySummary struct {
	Date                    string                   `json:"date"`
	TeamSize                int                      `json:"team_size"`
	AvgOverall              float64                  `json:"avg_overall"`
	Critical                []SummaryEntry           `json:"critical"`
	Warning                 []SummaryEntry           `json:"warning"`
	Positives               []string                 `json:"positives"`
	FocusAreas              []string                 `json:"focus_areas"`
	TrainingRecommendations []TrainingRecommendation `json:"training_recommendations"`
	MentoringPairs          []MentoringPair          `json:"mentoring_pairs"`
}

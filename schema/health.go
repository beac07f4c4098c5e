package schema

// AnalyzerResult is the normalized output of one category analyzer.
// Score is always within [0, 100].
type AnalyzerResult[M any] struct {
	Score   int   `json:"score"`
	Trend   Trend `json:"trend"`
	Metrics M     `json:"metrics"`
}

// Per-category analyzer results.
type (
	KnowledgeResult     = AnalyzerResult[KnowledgeMetrics]
	QualityResult       = AnalyzerResult[QualityMetrics]
	VelocityResult      = AnalyzerResult[VelocityMetrics]
	CollaborationResult = AnalyzerResult[CollaborationMetrics]
)

// KnowledgeMetrics are derived from the knowledge log.
type KnowledgeMetrics struct {
	OrgContributions     int     `json:"org_contributions"`
	ProjectContributions int     `json:"project_contributions"`
	AvgConfidence        float64 `json:"avg_confidence"`
	MemoryReferences     int     `json:"memory_references"`
	CorrectionsReceived  int     `json:"corrections_received"`
	Reason               string  `json:"reason,omitempty"`
}

// QualityMetrics are derived from commit messages and sizes.
type QualityMetrics struct {
	TotalCommits      int     `json:"total_commits"`
	BugFixRatio       float64 `json:"bug_fix_ratio"`
	AvgCommitSize     float64 `json:"avg_commit_size"`
	CleanCommitsRatio float64 `json:"clean_commits_ratio"`
	RevertedCommits   int     `json:"reverted_commits"`
	Identity          string  `json:"identity,omitempty"`
}

// VelocityMetrics are derived from commit counts over time.
type VelocityMetrics struct {
	TotalCommits   int     `json:"total_commits"`
	LinesChanged   int     `json:"lines_changed"`
	CommitsPerWeek float64 `json:"commits_per_week"`
	LinesPerWeek   float64 `json:"lines_per_week"`
	VelocityTrend  float64 `json:"velocity_trend"`
	Identity       string  `json:"identity,omitempty"`
}

// CollaborationMetrics combine the cross-file signal with remote activity.
type CollaborationMetrics struct {
	OwnFiles          int            `json:"own_files"`
	SharedFiles       int            `json:"shared_files"`
	SharedRatio       float64        `json:"shared_ratio"`
	CrossFilePoints   float64        `json:"cross_file_points"`
	ProviderAvailable bool           `json:"provider_available"`
	Activity          ActivityCounts `json:"activity"`
	Reason            string         `json:"reason,omitempty"`
}

// Breakdown holds the four category scores.
type Breakdown struct {
	CodeQuality      int `json:"code_quality"`
	KnowledgeSharing int `json:"knowledge_sharing"`
	Velocity         int `json:"velocity"`
	Collaboration    int `json:"collaboration"`
}

// Score returns the score for one category, or 0 for non-health categories.
func (b Breakdown) Score(c Category) int {
	switch c {
	case CodeQuality:
		return b.CodeQuality
	case KnowledgeSharing:
		return b.KnowledgeSharing
	case Velocity:
		return b.Velocity
	case Collaboration:
		return b.Collaboration
	default:
		return 0
	}
}

// DetailedMetrics keeps every analyzer result behind a breakdown.
type DetailedMetrics struct {
	CodeQuality      QualityResult       `json:"code_quality"`
	KnowledgeSharing KnowledgeResult     `json:"knowledge_sharing"`
	Velocity         VelocityResult      `json:"velocity"`
	Collaboration    CollaborationResult `json:"collaboration"`
}

// OverallHealth combines the four analyzer results for one engineer.
type OverallHealth struct {
	Engineer        string          `json:"engineer"`
	OverallScore    int             `json:"overall_score"`
	Breakdown       Breakdown       `json:"breakdown"`
	DetailedMetrics DetailedMetrics `json:"detailed_metrics"`
	Trending        Trend           `json:"trending"`
	NeedsSupport    bool            `json:"needs_support"`
	Error           string          `json:"error,omitempty"`
}

// Measured reports whether the health came from a successful analysis.
func (h OverallHealth) Measured() bool {
	return h.Trending != TrendError
}

// CategoryAverages are per-category means across a team.
type CategoryAverages struct {
	CodeQuality      float64 `json:"code_quality"`
	KnowledgeSharing float64 `json:"knowledge_sharing"`
	Velocity         float64 `json:"velocity"`
	Collaboration    float64 `json:"collaboration"`
}

// HealthDistribution buckets engineers by overall score.
type HealthDistribution struct {
	Healthy   int `json:"healthy"`
	Watch     int `json:"watch"`
	NeedsHelp int `json:"needs_help"`
}

// AtRiskEntry is an engineer that needs support.
type AtRiskEntry struct {
	Engineer        string     `json:"engineer"`
	Score           int        `json:"score"`
	PrimaryConcerns []Category `json:"primary_concerns"`
}

// HighPerformer is an engineer at or above the high performer threshold.
type HighPerformer struct {
	Engineer  string     `json:"engineer"`
	Score     int        `json:"score"`
	Strengths []Category `json:"strengths"`
}

// TeamHealth aggregates every engineer of the roster.
type TeamHealth struct {
	TeamSize           int                `json:"team_size"`
	AvgOverall         float64            `json:"avg_overall"`
	AvgBreakdown       CategoryAverages   `json:"avg_breakdown"`
	HealthDistribution HealthDistribution `json:"health_distribution"`
	AtRisk             []AtRiskEntry      `json:"at_risk"`
	HighPerformers     []HighPerformer    `json:"high_performers"`
	IndividualScores   []OverallHealth    `json:"individual_scores"`
}

package schema

// Custom string types for type safety.
type (
	// Category names one health dimension.
	Category string

	// Trend is the direction of a signal over the analysis window.
	Trend string

	// Severity ranks an alert.
	Severity string

	// Urgency ranks a training recommendation.
	Urgency string

	// Impact estimates the benefit of a mentoring pair.
	Impact string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshot history.
	DatabaseBackend string
)

// Health categories.
const (
	CodeQuality      Category = "code_quality"
	KnowledgeSharing Category = "knowledge_sharing"
	Velocity         Category = "velocity"
	Collaboration    Category = "collaboration"

	// Alert-only categories.
	OverallCategory   Category = "overall"
	MentoringCategory Category = "mentoring"
	TrendCategory     Category = "trend"
)

// AllCategories is the fixed category order, also used to break score ties.
var AllCategories = []Category{CodeQuality, KnowledgeSharing, Velocity, Collaboration}

// All trends supported.
const (
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDeclining        Trend = "declining"
	TrendInsufficientData Trend = "insufficient_data"
	TrendError            Trend = "error"
)

// All alert severities.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityPositive Severity = "positive"
)

// All training urgencies.
const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// All mentoring impacts.
const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidUrgencies lists all valid urgencies.
var ValidUrgencies = map[Urgency]struct{}{
	UrgencyHigh:   {},
	UrgencyMedium: {},
	UrgencyLow:    {},
}

// Knowledge log defaults.
const (
	ScopeOrg              = "org"
	DefaultConfidence     = 0.8
	CorrectionConfidence  = 0.6
	MinSharedWords        = 2
	MinContentWordLength  = 5
	NeutralScore          = 50
	DefaultWindowDays     = 30
	MaxWindowDays         = 365
	TrendChangeThreshold  = 0.20
	VelocityLabelCutoff   = 0.15
	TargetCommitsPerWeek  = 12.0
	CleanCommitLineCutoff = 200
)

// Health thresholds.
const (
	NeedsSupportThreshold  = 65
	HealthyThreshold       = 75
	HighPerformerThreshold = 85
	CriticalThreshold      = 50
	MentorPotential        = 90
	LowKnowledgeThreshold  = 40
	VelocityDropThreshold  = -0.20
)

// Team focus-area thresholds on category averages.
const (
	FocusCodeQuality      = 70.0
	FocusKnowledgeSharing = 60.0
	FocusVelocity         = 70.0
)

// DefaultWeights returns the default category weights. They sum to 1.0.
func DefaultWeights() map[Category]float64 {
	return map[Category]float64{
		CodeQuality:      0.35,
		KnowledgeSharing: 0.25,
		Velocity:         0.25,
		Collaboration:    0.15,
	}
}

// DefaultProtectedBranches are the integration branches that count as submissions.
var DefaultProtectedBranches = []string{"main", "develop"}

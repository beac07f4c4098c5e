package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/teampulse/schema"
)

// Default values for configuration.
const (
	DefaultPrecision      = 1
	DefaultGitHubTimeout  = 20 * time.Second
	MinGitHubTimeout      = 10 * time.Second
	MaxGitHubTimeout      = 30 * time.Second
	DefaultGitHubRPS      = 0.5
	DefaultGitConcurrency = 4
	MaxWorkers            = 64
	weightSumTolerance    = 0.001
)

// DefaultWorkers is the default number of concurrent engineer analyses.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath   string
	WindowDays int
	Weights    map[schema.Category]float64
	Engineers  []schema.Engineer

	KnowledgePath string

	GitHubOwner       string
	GitHubRepo        string
	GitHubToken       string // Please use env var as this is plaintext
	ProtectedBranches []string
	GitHubTimeout     time.Duration
	GitHubRPS         float64

	Workers        int
	GitConcurrency int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel string
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WeightsRawInput holds optional weight overrides from the YAML config file.
type WeightsRawInput struct {
	CodeQuality      *float64 `mapstructure:"code_quality"`
	KnowledgeSharing *float64 `mapstructure:"knowledge_sharing"`
	Velocity         *float64 `mapstructure:"velocity"`
	Collaboration    *float64 `mapstructure:"collaboration"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	RepoPathStr string            `mapstructure:"repo-path"`
	Window      int               `mapstructure:"window"`
	Weights     WeightsRawInput   `mapstructure:"weights"`
	Engineers   []schema.Engineer `mapstructure:"engineers"`

	KnowledgePath string `mapstructure:"knowledge-path"`

	GitHubOwner       string   `mapstructure:"github-owner"`
	GitHubRepo        string   `mapstructure:"github-repo"`
	GitHubToken       string   `mapstructure:"github-token"`
	ProtectedBranches []string `mapstructure:"protected-branches"`
	GitHubTimeout     string   `mapstructure:"github-timeout"`
	GitHubRPS         float64  `mapstructure:"github-rps"`

	Workers        int `mapstructure:"workers"`
	GitConcurrency int `mapstructure:"git-concurrency"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	LogLevel string `mapstructure:"log-level"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = maps.Clone(c.Weights)
	}
	clone.Engineers = slices.Clone(c.Engineers)
	clone.ProtectedBranches = slices.Clone(c.ProtectedBranches)
	return &clone
}

// CloneWithWindow returns a copy of the Config using a different window size.
// A non-positive days keeps the configured window.
func (c *Config) CloneWithWindow(days int) (*Config, error) {
	clone := c.Clone()
	if days <= 0 {
		return clone, nil
	}
	if err := validateWindow(days); err != nil {
		return nil, err
	}
	clone.WindowDays = days
	return clone, nil
}

// Window returns the analysis window anchored at now.
func (c *Config) Window(now time.Time) schema.Window {
	return schema.NewWindow(c.WindowDays, now)
}

// FindEngineer looks up a roster entry by display name or email address.
func (c *Config) FindEngineer(name string) (schema.Engineer, error) {
	needle := strings.TrimSpace(name)
	for _, e := range c.Engineers {
		if strings.EqualFold(e.Name, needle) || strings.EqualFold(e.Email, needle) {
			return e, nil
		}
	}
	return schema.Engineer{}, fmt.Errorf("%w %q. Check the engineers list in your config", ErrUnknownEngineer, name)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processRoster(cfg, input); err != nil {
		return err
	}
	if err := processGitHub(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPath(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateWeights checks that every category has a weight in [0, 1] and that they sum to 1.0.
func ValidateWeights(weights map[schema.Category]float64) error {
	sum := 0.0
	for _, c := range schema.AllCategories {
		w, ok := weights[c]
		if !ok {
			return fmt.Errorf("%w: missing weight for %s", ErrInvalidWeights, c)
		}
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: weight for %s must be between 0 and 1, got %.3f", ErrInvalidWeights, c, w)
		}
		sum += w
	}
	if sum < 1-weightSumTolerance || sum > 1+weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %.3f", ErrInvalidWeights, sum)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

func validateWindow(days int) error {
	if days <= 0 || days > schema.MaxWindowDays {
		return fmt.Errorf("%w: window must be between 1 and %d days (received %d)", ErrInvalidInput, schema.MaxWindowDays, days)
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.KnowledgePath = input.KnowledgePath
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Window == 0 {
		input.Window = schema.DefaultWindowDays
	}
	if err := validateWindow(input.Window); err != nil {
		return err
	}
	cfg.WindowDays = input.Window

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	if input.GitConcurrency <= 0 {
		return fmt.Errorf("git-concurrency must be greater than 0 (received %d)", input.GitConcurrency)
	}
	cfg.GitConcurrency = input.GitConcurrency

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processWeights merges the raw overrides onto the defaults and validates the result.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.DefaultWeights()
	overrides := map[schema.Category]*float64{
		schema.CodeQuality:      input.Weights.CodeQuality,
		schema.KnowledgeSharing: input.Weights.KnowledgeSharing,
		schema.Velocity:         input.Weights.Velocity,
		schema.Collaboration:    input.Weights.Collaboration,
	}
	for c, w := range overrides {
		if w != nil {
			weights[c] = *w
		}
	}
	if err := ValidateWeights(weights); err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// processRoster normalizes the engineer list and rejects ambiguous entries.
func processRoster(cfg *Config, input *ConfigRawInput) error {
	seen := make(map[string]struct{}, len(input.Engineers))
	cfg.Engineers = make([]schema.Engineer, 0, len(input.Engineers))
	for i, e := range input.Engineers {
		e.Name = strings.TrimSpace(e.Name)
		e.Email = strings.TrimSpace(e.Email)
		e.GitHub = strings.TrimPrefix(strings.TrimSpace(e.GitHub), "@")
		if e.Name == "" {
			return fmt.Errorf("engineer #%d has no name. Every roster entry needs a display name", i+1)
		}
		if e.Email == "" {
			return fmt.Errorf("engineer %q has no email. Commits are matched by email address", e.Name)
		}
		key := strings.ToLower(e.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("engineer %q is listed more than once", e.Name)
		}
		seen[key] = struct{}{}
		cfg.Engineers = append(cfg.Engineers, e)
	}
	return nil
}

// processGitHub validates the activity provider settings.
func processGitHub(cfg *Config, input *ConfigRawInput) error {
	cfg.GitHubOwner = strings.TrimSpace(input.GitHubOwner)
	cfg.GitHubRepo = strings.TrimSpace(input.GitHubRepo)
	cfg.GitHubToken = input.GitHubToken
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	cfg.ProtectedBranches = nil
	for _, b := range input.ProtectedBranches {
		if b = strings.TrimSpace(b); b != "" {
			cfg.ProtectedBranches = append(cfg.ProtectedBranches, b)
		}
	}
	if len(cfg.ProtectedBranches) == 0 {
		cfg.ProtectedBranches = slices.Clone(schema.DefaultProtectedBranches)
	}

	cfg.GitHubTimeout = DefaultGitHubTimeout
	if input.GitHubTimeout != "" {
		d, err := time.ParseDuration(input.GitHubTimeout)
		if err != nil {
			return fmt.Errorf("invalid github-timeout %q: %w", input.GitHubTimeout, err)
		}
		cfg.GitHubTimeout = d
	}
	if cfg.GitHubTimeout < MinGitHubTimeout || cfg.GitHubTimeout > MaxGitHubTimeout {
		return fmt.Errorf("github-timeout must be between %s and %s (received %s)", MinGitHubTimeout, MaxGitHubTimeout, cfg.GitHubTimeout)
	}

	cfg.GitHubRPS = input.GitHubRPS
	if cfg.GitHubRPS <= 0 {
		cfg.GitHubRPS = DefaultGitHubRPS
	}
	return nil
}

// resolveGitPath resolves the Git repository root that holds the team history.
func resolveGitPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}

// ProcessProfilingConfig enables profiling when a prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

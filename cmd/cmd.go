// Package cmd defines the command-line interface for teampulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(engineerCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(trainingCmd)
	rootCmd.AddCommand(mentorsCmd)
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyEngineerCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("repo-path", ".", "Path inside the Git repository that holds the team history")
	rootCmd.PersistentFlags().IntP("window", "w", schema.DefaultWindowDays, "Analysis window in days (1-365)")
	rootCmd.PersistentFlags().String("knowledge-path", "", "Path to the YAML or JSON knowledge log")
	rootCmd.PersistentFlags().String("github-owner", "", "GitHub organization or user that owns the repository")
	rootCmd.PersistentFlags().String("github-repo", "", "GitHub repository name (empty = whole organization)")
	rootCmd.PersistentFlags().String("github-timeout", contract.DefaultGitHubTimeout.String(), "Timeout per GitHub API call (10s-30s)")
	rootCmd.PersistentFlags().Float64("github-rps", contract.DefaultGitHubRPS, "GitHub search requests per second")
	rootCmd.PersistentFlags().StringSlice("protected-branches", schema.DefaultProtectedBranches, "Integration branches counted as submissions")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of engineers analyzed concurrently")
	rootCmd.PersistentFlags().Int("git-concurrency", contract.DefaultGitConcurrency, "Maximum concurrent git subprocesses")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Snapshot history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of trainingCmd to Viper
	trainingCmd.Flags().String("urgency", "", "Only show recommendations of this urgency: high or medium or low")
	if err := viper.BindPFlags(trainingCmd.Flags()); err != nil {
		contract.LogFatal("Error binding training flags", err)
	}

	// Bind all flags of mentorsCmd to Viper
	mentorsCmd.Flags().String("mentee", "", "Only show the pair of this mentee")
	if err := viper.BindPFlags(mentorsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding mentors flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", defaultServeAddr, "Address for the HTTP API to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("to", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}

	// observe flags are command-local and read directly from Cobra
	observeCmd.Flags().String("author", "", "Roster name or email of the engineer who made the observation")
	observeCmd.Flags().String("scope", "project", "Observation scope: org or project")
	observeCmd.Flags().Float64("confidence", schema.DefaultConfidence, "Confidence in the observation (0-1)")
	_ = observeCmd.MarkFlagRequired("author")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/teampulse/core"
	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/internal/iostore"
	"github.com/huangsam/teampulse/schema"
)

// loadHistoryBackend reads and validates the history backend settings without
// touching the Git repository or the roster.
func loadHistoryBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := loadHistoryBackend()
	if err != nil {
		return err
	}
	if err := setupLogger(viper.GetString("log-level")); err != nil {
		return err
	}
	if err := iostore.InitHistory(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup is a specialized setup that does NOT initialize the store
// or create tables, allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadHistoryBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on snapshot history management.
//
// Note: history subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup. This avoids Git repo validation and roster processing.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded health snapshots and exports",
	Long: `Manage the snapshot history used for trajectories and reporting.

When --history-backend is set, every engineer and team analysis records:
- Run metadata (timestamp, window, configuration, duration)
- Overall and category scores per engineer

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status   - Show snapshot statistics
  export   - Export snapshots to Parquet for analytics
  migrate  - Run database schema migrations
  clear    - Remove all snapshot data
  engineer - Show one engineer's recorded scores over time

Examples:
  teampulse history status --history-backend sqlite
  teampulse history export --history-backend sqlite --output-file pulse`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display snapshot statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iostore.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports snapshot data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded snapshots to Parquet for BI tools and analytics",
	Long: `Export all recorded snapshots to Parquet.

Writes two files next to --output-file:
- <output-file>.snapshot_runs.parquet    - one row per analysis run
- <output-file>.engineer_scores.parquet  - one row per engineer per run

Examples:
  teampulse history export --history-backend sqlite --output-file pulse
  duckdb -c "SELECT engineer, avg(overall_score) FROM 'pulse.engineer_scores.parquet' GROUP BY 1"`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteHistoryExport(iostore.Manager.GetHistoryStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the snapshot history store.

By default, migrates to the latest version. Use --to for specific versions.

Examples:
  # Migrate to latest version (default)
  teampulse history migrate --history-backend sqlite

  # Rollback to initial state
  teampulse history migrate --history-backend sqlite --to 0`,
	Args:    cobra.NoArgs,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, viper.GetInt("to")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("History migrations applied successfully.")
	},
}

// historyClearCmd clears the snapshot data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded snapshots",
	Long: `Delete all recorded runs and engineer scores.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  teampulse history export --history-backend sqlite --output-file backup
  teampulse history clear --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyEngineerCmd shows the recorded trajectory of one engineer.
var historyEngineerCmd = &cobra.Command{
	Use:   "engineer <name-or-email>",
	Short: "Show one engineer's recorded scores over time",
	Long: `List the recorded overall and category scores of one engineer, oldest run first.

Examples:
  teampulse history engineer alice@example.com --history-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		var store contract.HistoryStore
		if cfg.HistoryBackend != schema.NoneBackend {
			store = iostore.Manager.GetHistoryStore()
		}
		if err := core.ExecuteEngineerTrajectory(cfg, store, args[0]); err != nil {
			contract.LogFatal("Cannot show engineer trajectory", err)
		}
	},
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/plugcheck/plugcheck/internal/contract"
	"github.com/plugcheck/plugcheck/internal/history"
	"github.com/plugcheck/plugcheck/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as the SQLite default
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the store with the loaded config
	if err := history.InitHistory(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as the SQLite default
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on audit history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead
// of the full sharedSetup used by validate/audit. This avoids plugin path
// validation and complex config processing for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded audit runs and exports",
	Long: `Manage the historical audit data used for trend tracking and reporting.

When enabled, plugcheck records every audit run, storing:
- Plugin name and path
- Validation score and overall health tier
- Test pass rate and coverage percentage when available

This enables longitudinal tracking of plugin quality and data export
for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show audit history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded audit runs
  migrate - Run database schema migrations

Examples:
  # Check history status
  plugcheck history status

  # Export for analysis in pandas/DuckDB
  plugcheck history export --output-file audit-data.parquet`,
}

// historyStatusCmd shows audit history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display audit history statistics and connection details",
	Long: `Show detailed information about recorded audit runs.

Displays:
- Backend type and connection status
- Total number of audit runs stored
- Last and oldest audit run timestamps

Examples:
  # Check audit history status
  plugcheck history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := history.Manager.GetAuditStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", errors.New("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the audit history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded audit runs",
	Long: `Delete all stored audit run history.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  plugcheck history export --output-file backup.parquet
  plugcheck history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear audit history", err)
		}
		fmt.Println("Audit history cleared successfully.")
	},
}

// historyExportCmd exports audit history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit history to Parquet for BI tools and analytics",
	Long: `Export all recorded audit runs to Parquet format for analytics tools.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all audit runs
  plugcheck history export --output-file audit-data.parquet

  # Use with DuckDB for analysis
  plugcheck history export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.audit_runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export audit history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the audit history store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  plugcheck history migrate

  # Migrate to specific version
  plugcheck history migrate --target-version 1

  # Rollback to initial state
  plugcheck history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

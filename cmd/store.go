package cmd

import (
	"fmt"
	"strings"

	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/internal/iocache"
	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig reads and validates the store settings without touching the database.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	output := schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", output)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetup loads minimal configuration and opens the stores.
// Store commands skip the full sharedSetup since they need no user or models.
func storeSetup() error {
	if err := storeConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigWrapper validates the store settings for commands that manage the
// database themselves, so migrations can run on a fresh database.
func storeConfigWrapper(_ *cobra.Command, _ []string) error {
	return storeConfig()
}

// storeCmd focused on store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the session store",
	Long: `Manage the store holding sessions, weekly aggregates and runner signatures.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  export  - Export sessions and weeks to Parquet
  migrate - Run database schema migrations

Examples:
  # Check store status
  coach store status

  # Use PostgreSQL (set connection string via env variable)
  COACH_STORE_BACKEND=postgresql COACH_STORE_DB_CONNECT="host=localhost dbname=coach" coach store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the session store.

Displays:
- Backend type and connection status
- Number of sessions and runners
- Oldest and latest session timestamps
- Signatures flagged for recomputation
- Row counts per table

Examples:
  coach store status
  coach store status --output json`,
	PreRunE: storeSetupWrapper,
	Run:     runExecutor("Failed to get store status", core.ExecuteStoreStatus),
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored sessions, weeks and signatures",
	Long: `Delete all data from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the coach tables

Examples:
  coach store export --output-file backup
  coach store clear`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStores(cfg.StoreBackend, iocache.SQLiteFilePath(cfg.StoreDBConnect), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports the store to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions and weeks to Parquet for analytics",
	Long: `Export all stored sessions and weekly aggregates to Parquet files.

Writes two files next to --output-file:
- <output-file>.sessions.parquet
- <output-file>.weeks.parquet

Requires: --output-file parameter

Examples:
  coach store export --output-file coach
  duckdb -c "SELECT * FROM read_parquet('coach.weeks.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteStoreExport(rootCtx, iocache.Manager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions of the session store.

Other commands migrate to the latest version on startup. Use this command to
move to a specific version or to roll back.

Examples:
  # Migrate to latest version (default)
  coach store migrate

  # Migrate to specific version
  coach store migrate --target-version 2

  # Rollback to initial state
  coach store migrate --target-version 0`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.StoreDBConnect
		if cfg.StoreBackend == schema.SQLiteBackend {
			connStr = iocache.SQLiteFilePath(connStr)
		}
		if err := iocache.MigrateStore(cfg.StoreBackend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

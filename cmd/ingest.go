package cmd

import (
	"fmt"

	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/spf13/cobra"
)

// ingestCmd imports CSV exports of running sessions.
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv>...",
	Short: "Import running sessions from CSV exports.",
	Long: `Import one or more CSV exports of running sessions for the configured user.

Sessions are keyed by start time, so importing the same export twice stores
nothing new. After every import the weekly aggregates are rebuilt and the
stored runner signature is flagged for recomputation. A file that cannot be
read is reported and the remaining files are still imported.

Expected columns (header names, any order):
  start_time, distance_km, duration_min (required)
  avg_hr, z1_min..z5_min, elevation_gain_m, active_energy_kcal (optional)

Examples:
  # Import an export for the default user
  coach ingest runs-2025.csv

  # Import several files for a specific runner
  coach ingest --user 3f1c2a8e-9b7d-4c1e-8a2f-6d5e4c3b2a10 jan.csv feb.csv

  # Print the import summary as JSON
  coach ingest runs.csv --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		failed := 0
		for _, path := range args {
			if err := core.ExecuteIngest(rootCtx, cfg, path); err != nil {
				contract.LogWarn("Cannot import "+path, err)
				failed++
			}
		}
		if failed > 0 {
			contract.LogFatal("Import", fmt.Errorf("%d of %d files failed", failed, len(args)))
		}
	},
}

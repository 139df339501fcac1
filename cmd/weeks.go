package cmd

import (
	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/spf13/cobra"
)

// weeksCmd lists the weekly aggregates.
var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "Show the weekly training aggregates.",
	Long: `Rebuild and display one row per ISO week with at least one session.

Each week reports the number of runs, distance, duration, the share of time
spent in heart rate zones 1-3 and 4-5, and the training load.

Examples:
  # Show all weeks
  coach weeks

  # Export weeks to CSV
  coach weeks --output csv --output-file weeks.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot list weeks", core.ExecuteWeeks),
}

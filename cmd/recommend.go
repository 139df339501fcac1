package cmd

import (
	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/spf13/cobra"
)

// recommendCmd proposes the sessions left for the current week.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the remaining sessions of the current week.",
	Long: `Build the plan of the current ISO week from the runner's dominant week
profile, adjust it for the overload risk of the last three weeks and remove
the sessions already done.

Requires at least three completed weeks of history.

Examples:
  # Recommend for today
  coach recommend

  # Recommend as of a past date
  coach recommend --now 2025-10-15`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot recommend", core.ExecuteRecommend),
}

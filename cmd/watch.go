package cmd

import (
	"context"
	"errors"

	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchCmd imports exports as they land in a directory.
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Import CSV exports written into a directory.",
	Long: `Watch a directory and import every CSV export created or rewritten in it.

Writes are debounced so a file is imported once it stops changing. Stop with Ctrl+C.

Examples:
  # Watch the sync folder of a phone export
  coach watch ~/Sync/health-exports

  # Skip drafts saved next to the exports
  coach watch ~/Sync/health-exports --exclude draft`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		err := core.ExecuteWatch(rootCtx, cfg, args[0], viper.GetStringSlice("exclude"))
		if err != nil && !errors.Is(err, context.Canceled) {
			contract.LogFatal("Cannot watch "+args[0], err)
		}
	},
}

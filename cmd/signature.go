package cmd

import (
	"context"

	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// signatureCmd shows the runner signature.
var signatureCmd = &cobra.Command{
	Use:   "signature",
	Short: "Show the long-term runner signature.",
	Long: `Display the runner signature computed over the trailing 52 weeks.

The signature covers volume, duration, frequency, intensity, load and the
acute:chronic workload ratio, regularity, robustness and adaptation. It is
stored after computation and served from the store until a newer session is
imported.

Examples:
  # Show the signature
  coach signature

  # Force a recomputation
  coach signature --refresh --output json`,
	PreRunE: sharedSetupWrapper,
	Run: runExecutor("Cannot compute signature", func(ctx context.Context, cfg *contract.Config) error {
		return core.ExecuteSignature(ctx, cfg, viper.GetBool("refresh"))
	}),
}

package cmd

import (
	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/iocache"
	"github.com/albanecoiffe/health-data-coach/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the coach MCP server",
	Long:    `Launch an MCP server that lets AI agents read weeks, signatures and recommendations via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := core.NewServiceFromConfig(cfg, iocache.Manager)
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, svc)
	},
}

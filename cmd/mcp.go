package cmd

import (
	"github.com/huangsam/burndown/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the burndown MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents list releases and
compute release burndowns through standard tools.

Tools:
  get_release_burndown - burndown series, forecast and outlook of one release
  list_releases        - releases with their closed sprint count and workdays`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Burndown headers are suppressed per request so stdio only carries the protocol
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager, version)
	},
}

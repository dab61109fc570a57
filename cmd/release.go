package cmd

import (
	"github.com/huangsam/burndown/core"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/spf13/cobra"
)

// releaseCmd groups release related subcommands.
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Inspect releases in the data store",
}

// releaseListCmd lists the stored releases.
var releaseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List releases with their closed sprint count and workdays",
	Long: `List every release in the release data store, ordered by start date.

Examples:
  # List releases
  burndown release list

  # Workdays elapsed so far in each release
  burndown release list --as-of today --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReleaseList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list releases", err)
		}
	},
}

package cmd

import (
	"github.com/huangsam/burndown/core"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/spf13/cobra"
)

// chartCmd computes the burndown of one release.
var chartCmd = &cobra.Command{
	Use:   "chart <release-id>",
	Short: "Compute the burndown chart series of a release.",
	Long: `Compute the burndown of a release from its closed sprints and open backlog.

For every closed sprint in the release window the chart reports:
- Backlog: story points still planned from the original scope
- Added: scope added after the release started (stacked below zero)
- Closed: story points closed in that sprint

The series are padded with forecast slots and carry two trend lines built
from a trailing average over the last sprints. The outlook is Converging when
work closes faster than it is added, Stalled when both move at the same pace,
and Diverging otherwise.

Computed burndowns are cached by content, so rerunning on unchanged data is free.

Examples:
  # Print the burndown of a release
  burndown chart rel-1

  # Count workdays up to today instead of the release end
  burndown chart rel-1 --as-of today

  # Export the series for a charting tool
  burndown chart rel-1 --output json --output-file burndown.json

  # Ignore the cache
  burndown chart rel-1 --refresh`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBurndownChart(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute burndown", err)
		}
	},
}

//go:build basic || database

package integration

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// padded appends the default forecast horizon of zeros to values.
func padded(values ...float64) []float64 {
	return append(values, make([]float64, schema.DefaultForecastHorizon)...)
}

// chartJSON runs 'chart rel-1' with JSON output and decodes the result.
func chartJSON(t *testing.T, env map[string]string, extra ...string) schema.BurndownResult {
	t.Helper()
	args := append([]string{"chart", "rel-1", "--output", "json"}, extra...)
	out, err := runBurndown(t, env, args...)
	require.NoError(t, err)

	var result schema.BurndownResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result
}

// runScenario imports the release fixture into the configured backends and
// checks the burndown end to end, including the bundle cache.
func runScenario(t *testing.T, env map[string]string) {
	t.Helper()

	out, err := runBurndown(t, env, "data", "import", absFixture(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported release 1.0 (rel-1): 5 sprints, 3 stories")

	out, err = runBurndown(t, env, "release", "list", "--output", "json")
	require.NoError(t, err)
	var summaries []schema.ReleaseSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries), out)
	require.Len(t, summaries, 1)
	assert.Equal(t, 4, summaries[0].ClosedSprints)
	assert.Equal(t, 45, summaries[0].Workdays)

	result := chartJSON(t, env)
	assert.Equal(t, 4, result.Sprints)
	assert.Equal(t, padded(20, 20, 15, 15), result.BacklogPoints)
	assert.Equal(t, padded(0, 0, 5, 0), result.ClosedPoints)
	assert.Equal(t, padded(0, 0, 0, -3), result.AddedPoints)
	assert.Equal(t, padded(0, 0, 0, 3), result.AddedPointsPos)
	assert.Equal(t, []schema.TrendPoint{{X: 4, Y: -3}, {X: 14, Y: -13}}, result.TrendAdded)
	assert.Equal(t, schema.ConvergingTrend, result.Label)

	again := chartJSON(t, env)
	assert.Equal(t, result.BacklogPoints, again.BacklogPoints)

	refreshed := chartJSON(t, env, "--refresh")
	assert.False(t, refreshed.Cached)

	out, err = runBurndown(t, env, "data", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Releases: 1")
	assert.Contains(t, out, "Sprints: 5")
	assert.Contains(t, out, "Stories: 3")

	out, err = runBurndown(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")

	out, err = runBurndown(t, env, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared successfully.")
}

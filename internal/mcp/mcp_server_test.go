package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/iocache"
	mcp_internal "github.com/huangsam/burndown/internal/mcp"
	"github.com/huangsam/burndown/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		ForecastWindow:  schema.DefaultForecastWindow,
		ForecastHorizon: schema.DefaultForecastHorizon,
		Output:          schema.JSONOut,
	}
}

func newManager(t *testing.T) *iocache.StoreManager {
	t.Helper()
	dir := t.TempDir()
	bundles, err := iocache.NewCacheStore("bundles", schema.SQLiteBackend, filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	releases, err := iocache.NewReleaseStore(schema.SQLiteBackend, filepath.Join(dir, "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = bundles.Close()
		_ = releases.Close()
	})
	_, err = iocache.ImportFixtureFile(context.Background(), releases, filepath.Join("..", "iocache", "testdata", "release.yaml"))
	require.NoError(t, err)
	return iocache.NewStoreManager(bundles, releases)
}

func call(t *testing.T, tool string, args map[string]any, mgr contract.CacheManager) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr, "test")
	st := s.GetTool(tool)
	require.NotNil(t, st, "Tool %s should exist", tool)

	res, err := st.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: tool, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// Validation fails before the manager is touched
	var mgr contract.CacheManager

	t.Run("get_release_burndown missing release_id", func(t *testing.T) {
		res := call(t, "get_release_burndown", map[string]any{"release_id": " "}, mgr)
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "release_id is required")
	})

	t.Run("get_release_burndown invalid as_of", func(t *testing.T) {
		res := call(t, "get_release_burndown", map[string]any{"release_id": "rel-1", "as_of": "someday"}, mgr)
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid as_of")
	})

	t.Run("get_release_burndown invalid window", func(t *testing.T) {
		res := call(t, "get_release_burndown", map[string]any{"release_id": "rel-1", "window": -2.0}, mgr)
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "window must be at least 1")
	})

	t.Run("list_releases invalid as_of", func(t *testing.T) {
		res := call(t, "list_releases", map[string]any{"as_of": "2024-13-45"}, mgr)
		assert.True(t, res.IsError)
	})
}

func TestGetReleaseBurndownTool(t *testing.T) {
	mgr := newManager(t)

	res := call(t, "get_release_burndown", map[string]any{"release_id": "rel-1"}, mgr)
	require.False(t, res.IsError, text(res))

	var result schema.BurndownResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &result))
	assert.Equal(t, 4, result.Sprints)
	assert.Equal(t, schema.ConvergingTrend, result.Label)
	assert.Equal(t, 45, result.Release.Workdays)
	assert.False(t, result.Cached)

	res = call(t, "get_release_burndown", map[string]any{"release_id": "rel-1", "as_of": "2024-01-07"}, mgr)
	require.NoError(t, json.Unmarshal([]byte(text(res)), &result))
	assert.True(t, result.Cached)
	assert.Equal(t, 5, result.Release.Workdays)

	res = call(t, "get_release_burndown", map[string]any{"release_id": "rel-1", "refresh": true, "horizon": 2.0}, mgr)
	require.NoError(t, json.Unmarshal([]byte(text(res)), &result))
	assert.False(t, result.Cached)
	assert.Equal(t, 2, result.Horizon)
	assert.Len(t, result.BacklogPoints, 6)
}

func TestGetReleaseBurndownToolUnknownRelease(t *testing.T) {
	res := call(t, "get_release_burndown", map[string]any{"release_id": "nope"}, newManager(t))
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "burndown failed")
}

func TestListReleasesTool(t *testing.T) {
	res := call(t, "list_releases", map[string]any{}, newManager(t))
	require.False(t, res.IsError, text(res))

	var summaries []schema.ReleaseSummary
	require.NoError(t, json.Unmarshal([]byte(text(res)), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "rel-1", summaries[0].Release.ID)
	assert.Equal(t, 4, summaries[0].ClosedSprints)
}

func TestListReleasesToolNoStore(t *testing.T) {
	res := call(t, "list_releases", map[string]any{}, iocache.NewStoreManager(nil, nil))
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "release data store is not initialized")
}

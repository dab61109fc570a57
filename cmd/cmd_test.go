package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	tests := []struct {
		path []string
		use  string
	}{
		{path: []string{"chart"}, use: "chart <release-id>"},
		{path: []string{"release", "list"}, use: "list"},
		{path: []string{"data", "import"}, use: "import <file.yaml>"},
		{path: []string{"data", "export"}, use: "export <release-id>"},
		{path: []string{"data", "migrate"}, use: "migrate"},
		{path: []string{"data", "status"}, use: "status"},
		{path: []string{"cache", "clear"}, use: "clear"},
		{path: []string{"cache", "status"}, use: "status"},
		{path: []string{"mcp"}, use: "mcp"},
		{path: []string{"version"}, use: "version"},
	}
	for _, tt := range tests {
		found, _, err := rootCmd.Find(tt.path)
		require.NoError(t, err, "command %v should exist", tt.path)
		assert.Equal(t, tt.use, found.Use)
	}
}

func TestFlagsBound(t *testing.T) {
	for _, name := range []string{"output", "output-file", "precision", "as-of", "cache-backend", "data-backend", "verbose", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "root flag %s", name)
	}
	assert.NotNil(t, chartCmd.Flags().Lookup("refresh"))
	assert.NotNil(t, dataMigrateCmd.Flags().Lookup("target-version"))
}

func TestChartRequiresReleaseID(t *testing.T) {
	assert.Error(t, chartCmd.Args(chartCmd, nil))
	assert.NoError(t, chartCmd.Args(chartCmd, []string{"rel-1"}))
	assert.Error(t, chartCmd.Args(chartCmd, []string{"rel-1", "rel-2"}))
}

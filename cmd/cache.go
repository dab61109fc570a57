package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/iocache"
	"github.com/huangsam/burndown/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("cache-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by the chart commands. No release data store is opened.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the burndown bundle cache",
	Long: `Manage the cache of computed burndown bundles.

Bundles are keyed by a fingerprint of the release data and forecast settings,
so a cached bundle is only reused while its inputs are unchanged.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached bundles`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached burndown bundles",
	Long: `Delete all cached bundles from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  burndown cache clear

  # Clear MySQL cache (set connection string via env variable)
  BURNDOWN_CACHE_BACKEND=mysql BURNDOWN_CACHE_DB_CONNECT="..." burndown cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		dbPath := cfg.CacheDBConnect
		if cfg.CacheBackend == schema.SQLiteBackend && dbPath == "" {
			dbPath = contract.GetCacheDBFilePath()
		}
		if err := iocache.ClearCache(cfg.CacheBackend, dbPath, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the number of cached bundles, their age range and
the size of the cache table.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cacheSetupWrapper(cmd, args); err != nil {
			return err
		}
		if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, "", ""); err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetBundleStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(cmd.OutOrStdout(), status)
	},
}

package cmd

import (
	"fmt"
	"os"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfigSetup loads the cache settings only.
// This is used by commands that need cache access without full shared setup.
func cacheConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ValidateCacheBackend(viper.GetString("cache-backend"), viper.GetString("cache-db-connect"))
	if err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = viper.GetString("cache-db-connect")
	cfg.CacheDir = viper.GetString("cache-dir")
	cfg.CacheFile = viper.GetString("cache-file")
	return nil
}

// cacheSetup loads the cache settings and opens the configured store.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := cacheConfigSetup(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheDir, cfg.CacheFile); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by heatmap commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the record cache of fetched assignments",
	Long: `Manage the cache of enriched comments that lets heatmaps be rebuilt without codePost.

Supported backends: file (default, one JSON file per assignment), SQLite, MySQL,
PostgreSQL, or none.

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run schema migrations of the SQL backends

Examples:
  # Check cache status
  cpheatmap cache status

  # Clear the SQLite cache
  cpheatmap cache clear --cache-backend sqlite`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached records",
	Long: `Delete all cached records from the configured backend.

For the file backend: Deletes the cache files of --cache-dir
For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  cpheatmap cache clear

  # Clear MySQL cache (set connection string via env variable)
  CPHEATMAP_CACHE_BACKEND=mysql CPHEATMAP_CACHE_DB_CONNECT="..." cpheatmap cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheDir, cfg.CacheFile); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the number of cached assignments and comments,
the newest and oldest entries, and the size of the cache.

Examples:
  cpheatmap cache status`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRecordCache().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheMigrateCmd runs schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run record cache schema migrations (upgrades/downgrades)",
	Long: `Manage the schema version of the SQL record cache.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  cpheatmap cache migrate --cache-backend sqlite

  # Rollback to initial state
  cpheatmap cache migrate --cache-backend postgresql --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		schemaVersion, err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Printf("Record cache is at schema version %d.\n", schemaVersion)
	},
}

package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
)

// bundleTable is the name of the table for bundle caching.
const bundleTable = "burndown_bundle_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetDataDBFilePath returns the path to the SQLite DB file for release data.
func GetDataDBFilePath() string {
	return contract.GetDataDBFilePath()
}

// InitStores initializes the global manager with the bundle cache and release data stores.
// An empty backend leaves the matching store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, dataBackend schema.DatabaseBackend, dataConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var bundleStore contract.CacheStore
		if cacheBackend != "" {
			bundleStore, err = NewCacheStore(bundleTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize bundle caching: %w", err)
				return
			}
		}

		var releaseStore contract.ReleaseStore
		if dataBackend != "" {
			releaseStore, err = NewReleaseStore(dataBackend, dataConnStr)
			if err != nil {
				if bundleStore != nil {
					_ = bundleStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize release data store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.bundles = bundleStore
		Manager.releases = releaseStore
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.bundles != nil {
			_ = Manager.bundles.Close()
		}
		if Manager.releases != nil {
			_ = Manager.releases.Close()
		}
	})
}

// ClearCache clears the bundle cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, bundleTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, bundleTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}

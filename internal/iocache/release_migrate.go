package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/burndown/schema"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// LatestSchemaVersion is the newest migration shipped with the binary.
const LatestSchemaVersion = 3

// migrationsDir returns the embedded migration directory for the backend.
func migrationsDir(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "migrations/sqlite", nil
	case schema.MySQLBackend:
		return "migrations/mysql", nil
	case schema.PostgreSQLBackend:
		return "migrations/postgres", nil
	default:
		return "", fmt.Errorf("migrations are not supported for %s backend", backend)
	}
}

// newMigrate builds a migrate instance over an open connection.
// Closing the returned instance also closes db.
func newMigrate(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	dir, err := migrationsDir(backend)
	if err != nil {
		return nil, err
	}

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "burndown", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateTo opens its own connection and moves the release schema to targetVersion.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
// It returns the version before and after, and whether anything changed.
func migrateTo(backend schema.DatabaseBackend, connStr string, targetVersion int) (from, to uint, changed bool, err error) {
	db, err := openDB(backend, connStr, GetDataDBFilePath())
	if err != nil {
		return 0, 0, false, err
	}
	m, err := newMigrate(db, backend)
	if err != nil {
		_ = db.Close()
		return 0, 0, false, err
	}
	defer func() { _, _ = m.Close() }()

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, false, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return from, from, false, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", from)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return from, from, false, nil
	}
	if err != nil {
		return from, from, false, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	to, _, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return from, 0, true, nil
	}
	if err != nil {
		return from, 0, true, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return from, to, true, nil
}

// MigrateReleaseData runs database migrations for the release data store and
// reports the outcome to w.
func MigrateReleaseData(w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	from, to, changed, err := migrateTo(backend, connStr, targetVersion)
	if err != nil {
		return err
	}
	if !changed {
		_, _ = fmt.Fprintf(w, "No migration needed. Database is already at version %d\n", from)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", from, to)
	return nil
}

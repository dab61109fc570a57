package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/iocache"
	"github.com/huangsam/burndown/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveDataBackend reads and validates the release data backend settings.
func resolveDataBackend() (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("data-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok || backend == schema.NoneBackend {
		return "", "", fmt.Errorf("invalid data backend '%s'. must be sqlite, mysql, postgresql", backend)
	}
	connStr := viper.GetString("data-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", fmt.Errorf("data-db-connect: %w", err)
	}
	return backend, connStr, nil
}

// dataSetup loads minimal configuration needed for release data operations.
// It opens the release store only; no bundle cache is needed here.
func dataSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := resolveDataBackend()
	if err != nil {
		return err
	}
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize release data store: %w", err)
	}
	cfg.DataBackend = backend
	cfg.DataDBConnect = connStr
	return nil
}

// dataCmd focused on release data management.
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage release, sprint and story data",
	Long: `Manage the release data store that burndowns are computed from.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  import  - Load a YAML release fixture
  export  - Write a release and its sprints and stories as a YAML fixture
  migrate - Move the schema to a specific version
  status  - Show row counts and schema version`,
}

// dataImportCmd loads a fixture file.
var dataImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Load a YAML release fixture into the data store",
	Long: `Load a release together with its sprints and stories from a YAML file.

Records are upserted by id, so importing the same file twice is safe.
Records without an id get a generated one.

Example fixture:
  release:
    id: rel-1
    project_id: apollo
    name: "1.0"
    start_date: 2024-01-01T00:00:00Z
    end_date: 2024-03-01T00:00:00Z
    initial_story_points: 20
  sprints:
    - id: sp-1
      name: Sprint 1
      start_date: 2024-01-01T00:00:00Z
      effective_date: 2024-01-12T00:00:00Z
  stories:
    - id: st-1
      sprint_id: sp-1
      subject: Login page
      points: 5
      created_on: 2023-12-20T00:00:00Z
      closed_on: 2024-01-10T00:00:00Z`,
	Args:    cobra.ExactArgs(1),
	PreRunE: dataSetup,
	Run: func(cmd *cobra.Command, args []string) {
		fixture, err := iocache.ImportFixtureFile(rootCtx, iocache.Manager.GetReleaseStore(), args[0])
		if err != nil {
			contract.LogFatal("Failed to import release data", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported release %s (%s): %d sprints, %d stories\n",
			fixture.Release.Name, fixture.Release.ID, len(fixture.Sprints), len(fixture.Stories))
	},
}

// dataExportCmd writes a fixture file.
var dataExportCmd = &cobra.Command{
	Use:   "export <release-id>",
	Short: "Write the data behind a release burndown as a YAML fixture",
	Long: `Export a release with the closed sprints in its window, their stories and
the open backlog of its project. The output can be loaded back with 'data import'.

Examples:
  burndown data export rel-1 --output-file rel-1.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: dataSetup,
	Run: func(_ *cobra.Command, args []string) {
		outputFile := viper.GetString("output-file")
		file, err := contract.SelectOutputFile(outputFile)
		if err != nil {
			contract.LogFatal("Failed to open output file", err)
		}
		if file != os.Stdout {
			defer func() { _ = file.Close() }()
		}
		if err := iocache.ExportFixture(rootCtx, iocache.Manager.GetReleaseStore(), args[0], file); err != nil {
			contract.LogFatal("Failed to export release data", err)
		}
		if file != os.Stdout {
			_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote release fixture to %s\n", outputFile)
		}
	},
}

// dataMigrateCmd runs schema migrations.
var dataMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run release data schema migrations",
	Long: `Move the release data schema to a given version.

The store migrates itself to the latest version whenever it is opened; use this
command to roll back or to inspect what a migration would change.

Examples:
  # Migrate to latest
  burndown data migrate

  # Roll back everything
  burndown data migrate --target-version 0`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfigFile()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		backend, connStr, err := resolveDataBackend()
		if err != nil {
			contract.LogFatal("Invalid data backend", err)
		}
		if err := iocache.MigrateReleaseData(cmd.OutOrStdout(), backend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate release data", err)
		}
	},
}

// dataStatusCmd shows data store status.
var dataStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display release data statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: dataSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetReleaseStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get release data status", err)
		}
		iocache.PrintDataStatus(cmd.OutOrStdout(), status)
	},
}

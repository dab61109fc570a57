package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		ReleaseID:     " rel-1 ",
		Precision:     1,
		Output:        "text",
		Color:         "yes",
		CacheBackend:  "none",
		DataBackend:   "sqlite",
		DataDBConnect: "/tmp/burndown-test-data.db",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "precision too high",
			mutate:      func(in *ConfigRawInput) { in.Precision = 4 },
			expectError: "precision must be between 1 and 3",
		},
		{
			name:        "precision zero",
			mutate:      func(in *ConfigRawInput) { in.Precision = 0 },
			expectError: "precision",
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "parquet output requires --output-file",
		},
		{
			name: "parquet with file",
			mutate: func(in *ConfigRawInput) {
				in.Output = "PARQUET"
				in.OutputFile = "out.parquet"
			},
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: "invalid --color value",
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: "invalid cache backend",
		},
		{
			name:        "data backend none",
			mutate:      func(in *ConfigRawInput) { in.DataBackend = "none" },
			expectError: "invalid data backend",
		},
		{
			name: "mysql data backend without dsn",
			mutate: func(in *ConfigRawInput) {
				in.DataBackend = "mysql"
				in.DataDBConnect = ""
			},
			expectError: "data-db-connect",
		},
		{
			name:        "negative forecast window",
			mutate:      func(in *ConfigRawInput) { in.Forecast.Window = -1 },
			expectError: "forecast window",
		},
		{
			name:        "negative forecast horizon",
			mutate:      func(in *ConfigRawInput) { in.Forecast.Horizon = -2 },
			expectError: "forecast horizon",
		},
		{
			name:        "bad as-of",
			mutate:      func(in *ConfigRawInput) { in.AsOf = "next tuesday" },
			expectError: "invalid --as-of value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidate_Values(t *testing.T) {
	input := validInput()
	input.Output = "JSON"
	input.Precision = 2
	input.Color = "no"
	input.Width = 120
	input.Verbose = true
	input.Refresh = true
	input.AsOf = "2025-03-14"
	input.Forecast = ForecastRawInput{Window: 4, Horizon: 6}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "rel-1", cfg.ReleaseID)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, 2, cfg.Precision)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, 120, cfg.Width)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Refresh)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), cfg.AsOf)
	assert.Equal(t, 4, cfg.ForecastWindow)
	assert.Equal(t, 6, cfg.ForecastHorizon)
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
	assert.Equal(t, schema.SQLiteBackend, cfg.DataBackend)
}

func TestProcessForecastDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, processForecast(cfg, &ConfigRawInput{}))
	assert.Equal(t, schema.DefaultForecastWindow, cfg.ForecastWindow)
	assert.Equal(t, schema.DefaultForecastHorizon, cfg.ForecastHorizon)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/burndown", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/burndown", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=burndown", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=burndown", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigs_SameSQLiteFile(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared.db")

	cfg := &Config{}
	err := validateBackendConfigs(cfg, &ConfigRawInput{
		CacheBackend:   "sqlite",
		CacheDBConnect: shared,
		DataBackend:    "sqlite",
		DataDBConnect:  shared,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")

	// Defaults resolve to distinct files.
	err = validateBackendConfigs(&Config{}, &ConfigRawInput{CacheBackend: "sqlite", DataBackend: "sqlite"})
	assert.NoError(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{ReleaseID: "a", ForecastWindow: 3}
	clone := cfg.Clone()
	clone.ReleaseID = "b"
	assert.Equal(t, "a", cfg.ReleaseID)
	assert.Equal(t, 3, clone.ForecastWindow)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, "  "))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "out/burndown"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "out/burndown", profile.Prefix)

	err := ProcessProfilingConfig(&ProfileConfig{}, "out/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must name a file")
}

package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/burndown/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MaxPrecision     = 3
)

// DateFormat is the date representation used for release and sprint dates.
const DateFormat = time.DateOnly

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ForecastRawInput holds forecast settings from the YAML config file.
type ForecastRawInput struct {
	Window  int `mapstructure:"window"`
	Horizon int `mapstructure:"horizon"`
}

// Config holds the runtime configuration for a burndown command.
// This struct remains the "final, validated" config.
type Config struct {
	ReleaseID  string
	AsOf       time.Time // cutoff for the workday count (zero = release end)
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	Verbose    bool
	Refresh    bool

	ForecastWindow  int
	ForecastHorizon int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	DataBackend   schema.DatabaseBackend
	DataDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ProfileConfig holds CPU and memory profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string // profiles are written to <Prefix>.cpu.prof and <Prefix>.mem.prof
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ReleaseID string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	Verbose        bool   `mapstructure:"verbose"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	DataBackend    string `mapstructure:"data-backend"`
	DataDBConnect  string `mapstructure:"data-db-connect"`
	Color          string `mapstructure:"color"`

	// --- Fields from chartCmd.Flags() ---
	AsOf    string `mapstructure:"as-of"`
	Refresh bool   `mapstructure:"refresh"`

	// --- Forecast settings from config file ---
	Forecast ForecastRawInput `mapstructure:"forecast"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processForecast(cfg, input); err != nil {
		return err
	}
	if err := processAsOf(cfg, input, time.Now()); err != nil {
		return err
	}
	cfg.ReleaseID = strings.TrimSpace(input.ReleaseID)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and release data backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- Data Backend Validation ---
	cfg.DataBackend = schema.DatabaseBackend(strings.ToLower(input.DataBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DataBackend]; !ok || cfg.DataBackend == schema.NoneBackend {
		return fmt.Errorf("invalid data backend '%s'. must be sqlite, mysql, postgresql", input.DataBackend)
	}
	cfg.DataDBConnect = input.DataDBConnect
	if err := ValidateDatabaseConnectionString(cfg.DataBackend, cfg.DataDBConnect); err != nil {
		return fmt.Errorf("data-db-connect: %w", err)
	}

	// Cache and release data must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.DataBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		dataDBPath := cfg.DataDBConnect
		if dataDBPath == "" {
			dataDBPath = GetDataDBFilePath()
		}
		if cacheDBPath == dataDBPath {
			return fmt.Errorf("cache and release data storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the output and backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.Refresh = input.Refresh

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return validateBackendConfigs(cfg, input)
}

// processForecast applies the forecast window and horizon, falling back to defaults when unset.
func processForecast(cfg *Config, input *ConfigRawInput) error {
	cfg.ForecastWindow = schema.DefaultForecastWindow
	cfg.ForecastHorizon = schema.DefaultForecastHorizon
	if input.Forecast.Window != 0 {
		if input.Forecast.Window < 1 {
			return fmt.Errorf("forecast window must be at least 1 (received %d)", input.Forecast.Window)
		}
		cfg.ForecastWindow = input.Forecast.Window
	}
	if input.Forecast.Horizon != 0 {
		if input.Forecast.Horizon < 1 {
			return fmt.Errorf("forecast horizon must be at least 1 (received %d)", input.Forecast.Horizon)
		}
		cfg.ForecastHorizon = input.Forecast.Horizon
	}
	return nil
}

// processAsOf parses the optional workday cutoff.
func processAsOf(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.AsOf = time.Time{}
	if strings.TrimSpace(input.AsOf) == "" {
		return nil
	}
	t, err := ParseDate(input.AsOf, now)
	if err != nil {
		return fmt.Errorf("invalid --as-of value: %w", err)
	}
	cfg.AsOf = t
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, "/") {
		return fmt.Errorf("profile prefix %q must name a file, not a directory", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}

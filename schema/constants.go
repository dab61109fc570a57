package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and release data.
	DatabaseBackend string

	// TrendLabel summarizes the direction of a release forecast.
	TrendLabel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All trend labels supported.
const (
	ConvergingTrend TrendLabel = "Converging"
	StalledTrend    TrendLabel = "Stalled"
	DivergingTrend  TrendLabel = "Diverging"
	UnknownTrend    TrendLabel = "Unknown" // not enough sprints to forecast
)

// Forecast defaults: number of trailing sprints averaged, and slots projected forward.
const (
	DefaultForecastWindow  = 3
	DefaultForecastHorizon = 10
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

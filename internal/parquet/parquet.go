// Package parquet provides data structures and functions for exporting release
// burndown data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/burndown/schema"
	"github.com/parquet-go/parquet-go"
)

// BurndownPoint is one value of one burndown series, in long format.
// Chart series produce one point per slot; trend series one point per forecast vertex.
type BurndownPoint struct {
	// ReleaseID identifies the release the burndown belongs to
	ReleaseID string `parquet:"release_id,snappy"`

	// Series is the series name, e.g. backlog_points or trend_closed
	Series string `parquet:"series,snappy"`

	// X is the slot index for chart series and the forecast position for trends
	X float64 `parquet:"x,snappy"`

	// Y is the story point value
	Y float64 `parquet:"y,snappy"`

	// SlotName is the sprint name of a closed sprint slot (nullable)
	SlotName *string `parquet:"slot_name,optional,snappy"`

	// Forecast is set for padded slots and trend vertices
	Forecast bool `parquet:"forecast,snappy"`
}

// ReleaseRow is one listed release with its summary counters.
type ReleaseRow struct {
	ReleaseID string `parquet:"release_id,snappy"`
	ProjectID string `parquet:"project_id,snappy"`
	Name      string `parquet:"name,snappy"`

	// StartDate and EndDate bound the release (stored as TIMESTAMP)
	StartDate time.Time `parquet:"start_date,snappy"`
	EndDate   time.Time `parquet:"end_date,snappy"`

	// InitialStoryPoints is the planned scope (nullable)
	InitialStoryPoints *float64 `parquet:"initial_story_points,optional,snappy"`

	ClosedSprints int32 `parquet:"closed_sprints,snappy"`
	Workdays      int32 `parquet:"workdays,snappy"`
}

// writeRows writes rows to a new Parquet file whose schema is inferred from T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row groups and writes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteBurndownParquet writes burndown points to a Parquet file.
func WriteBurndownParquet(data []BurndownPoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteReleasesParquet writes release rows to a Parquet file.
func WriteReleasesParquet(data []ReleaseRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertBurndownResult flattens a burndown into long-format points: the
// chart series slot by slot, followed by the trend series.
func ConvertBurndownResult(result schema.BurndownResult) []BurndownPoint {
	chart := map[schema.SeriesName][]float64{
		schema.AddedPoints:    result.AddedPoints,
		schema.AddedPointsPos: result.AddedPointsPos,
		schema.BacklogPoints:  result.BacklogPoints,
		schema.ClosedPoints:   result.ClosedPoints,
	}
	trends := map[schema.SeriesName][]schema.TrendPoint{
		schema.TrendClosed: result.TrendClosed,
		schema.TrendAdded:  result.TrendAdded,
	}
	releaseID := result.Release.Release.ID

	points := make([]BurndownPoint, 0, len(schema.ChartSeries)*result.Slots()+len(result.TrendClosed)+len(result.TrendAdded))
	for i := range result.Slots() {
		var slotName *string
		if i < result.Sprints {
			name := result.SlotName(i)
			slotName = &name
		}
		for _, name := range schema.ChartSeries {
			values := chart[name]
			if i >= len(values) {
				continue
			}
			points = append(points, BurndownPoint{
				ReleaseID: releaseID,
				Series:    string(name),
				X:         float64(i),
				Y:         values[i],
				SlotName:  slotName,
				Forecast:  i >= result.Sprints,
			})
		}
	}
	for _, name := range schema.TrendSeries {
		for _, p := range trends[name] {
			points = append(points, BurndownPoint{
				ReleaseID: releaseID,
				Series:    string(name),
				X:         p.X,
				Y:         p.Y,
				Forecast:  true,
			})
		}
	}
	return points
}

// ConvertReleaseSummaries converts listed releases to ReleaseRow for Parquet export.
func ConvertReleaseSummaries(summaries []schema.ReleaseSummary) []ReleaseRow {
	result := make([]ReleaseRow, len(summaries))
	for i, s := range summaries {
		result[i] = ReleaseRow{
			ReleaseID:          s.Release.ID,
			ProjectID:          s.Release.ProjectID,
			Name:               s.Release.Name,
			StartDate:          s.Release.StartDate,
			EndDate:            s.Release.EndDate,
			InitialStoryPoints: s.Release.InitialStoryPoints,
			ClosedSprints:      int32(s.ClosedSprints),
			Workdays:           int32(s.Workdays),
		}
	}
	return result
}

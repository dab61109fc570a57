package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/burndown/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() schema.BurndownResult {
	initial := 20.0
	return schema.BurndownResult{
		Release: schema.ReleaseSummary{
			Release: schema.ReleaseRecord{
				ID:                 "rel-1",
				ProjectID:          "apollo",
				Name:               "1.0",
				StartDate:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				InitialStoryPoints: &initial,
			},
			ClosedSprints: 2,
		},
		SprintNames:    []string{"Sprint 1", "Sprint 2"},
		Sprints:        2,
		Horizon:        1,
		AddedPoints:    []float64{0, -3, 0},
		AddedPointsPos: []float64{0, 3, 0},
		BacklogPoints:  []float64{20, 15, 0},
		ClosedPoints:   []float64{0, 5, 0},
		TrendClosed:    []schema.TrendPoint{{X: 2, Y: 15}, {X: 3, Y: 12.5}},
		TrendAdded:     []schema.TrendPoint{{X: 2, Y: -3}, {X: 3, Y: -4.5}},
		Label:          schema.ConvergingTrend,
	}
}

func readRows[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestBurndownPointStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(BurndownPoint))
	require.NotNil(t, s)

	for _, colName := range []string{"release_id", "series", "x", "y", "slot_name", "forecast"} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col)
	}
}

func TestReleaseRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ReleaseRow))
	require.NotNil(t, s)

	expectedColumns := []string{
		"release_id",
		"project_id",
		"name",
		"start_date",
		"end_date",
		"initial_story_points",
		"closed_sprints",
		"workdays",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertBurndownResult(t *testing.T) {
	points := ConvertBurndownResult(sampleResult())

	// 3 slots x 4 chart series, then 2 trends x 2 vertices
	require.Len(t, points, 16)

	first := points[0]
	assert.Equal(t, "rel-1", first.ReleaseID)
	assert.Equal(t, string(schema.AddedPoints), first.Series)
	assert.Equal(t, 0.0, first.X)
	require.NotNil(t, first.SlotName)
	assert.Equal(t, "Sprint 1", *first.SlotName)
	assert.False(t, first.Forecast)

	backlogAtSprint2 := points[4+2]
	assert.Equal(t, string(schema.BacklogPoints), backlogAtSprint2.Series)
	assert.Equal(t, 1.0, backlogAtSprint2.X)
	assert.Equal(t, 15.0, backlogAtSprint2.Y)
	assert.Equal(t, "Sprint 2", *backlogAtSprint2.SlotName)

	padded := points[8]
	assert.True(t, padded.Forecast)
	assert.Nil(t, padded.SlotName)

	trend := points[12]
	assert.Equal(t, string(schema.TrendClosed), trend.Series)
	assert.Equal(t, 2.0, trend.X)
	assert.Equal(t, 15.0, trend.Y)
	assert.True(t, trend.Forecast)
	assert.Equal(t, string(schema.TrendAdded), points[15].Series)
	assert.Equal(t, -4.5, points[15].Y)
}

func TestConvertBurndownResultEmpty(t *testing.T) {
	points := ConvertBurndownResult(schema.BurndownResult{})
	assert.Empty(t, points)
}

func TestWriteBurndownParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "burndown.parquet")
	data := ConvertBurndownResult(sampleResult())

	require.NoError(t, WriteBurndownParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	readData := readRows[BurndownPoint](t, outputPath)
	require.Len(t, readData, len(data))
	for i := range data {
		assert.Equal(t, data[i].Series, readData[i].Series)
		assert.Equal(t, data[i].X, readData[i].X)
		assert.Equal(t, data[i].Y, readData[i].Y)
		assert.Equal(t, data[i].Forecast, readData[i].Forecast)
		if data[i].SlotName == nil {
			assert.Nil(t, readData[i].SlotName)
		} else {
			require.NotNil(t, readData[i].SlotName)
			assert.Equal(t, *data[i].SlotName, *readData[i].SlotName)
		}
	}
}

func TestWriteReleasesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "releases.parquet")
	withPoints := sampleResult().Release
	withPoints.Workdays = 45
	noPoints := schema.ReleaseSummary{Release: schema.ReleaseRecord{
		ID:        "rel-2",
		ProjectID: "apollo",
		Name:      "2.0",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}

	data := ConvertReleaseSummaries([]schema.ReleaseSummary{withPoints, noPoints})
	require.NoError(t, WriteReleasesParquet(data, outputPath))

	readData := readRows[ReleaseRow](t, outputPath)
	require.Len(t, readData, 2)
	assert.Equal(t, "rel-1", readData[0].ReleaseID)
	assert.Equal(t, int32(2), readData[0].ClosedSprints)
	assert.Equal(t, int32(45), readData[0].Workdays)
	require.NotNil(t, readData[0].InitialStoryPoints)
	assert.Equal(t, 20.0, *readData[0].InitialStoryPoints)
	assert.WithinDuration(t, data[0].StartDate, readData[0].StartDate, time.Nanosecond)
	assert.Nil(t, readData[1].InitialStoryPoints)
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteBurndownParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

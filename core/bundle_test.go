package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/huangsam/burndown/core/series"
	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := NewBuilder(DefaultForecaster()).Build(t.Context(), scenarioRelease())
	require.NoError(t, err)
	return b
}

func TestBundleGetUnknownSeries(t *testing.T) {
	b := scenarioBundle(t)

	_, err := b.Get("not_a_series")
	require.Error(t, err)
	assert.ErrorIs(t, err, series.ErrUnknownSeries)

	var unknown *series.UnknownSeriesError
	require.True(t, errors.As(err, &unknown))
	assert.ElementsMatch(t, []schema.SeriesName{
		schema.AddedPoints, schema.AddedPointsPos, schema.BacklogPoints,
		schema.ClosedPoints, schema.TrendClosed, schema.TrendAdded,
	}, unknown.Known)
	for _, name := range schema.AllSeries {
		assert.Contains(t, err.Error(), string(name))
	}

	_, err = b.Trend(schema.BacklogPoints)
	assert.ErrorIs(t, err, series.ErrUnknownSeries, "chart series are not trends")
}

func TestBundleGetReturnsCopies(t *testing.T) {
	b := scenarioBundle(t)

	v, err := b.Get(schema.BacklogPoints)
	require.NoError(t, err)
	v[0] = -1
	again, _ := b.Get(schema.BacklogPoints)
	assert.Equal(t, 20.0, again[0])

	names := b.SeriesNames()
	names[0] = "mutated"
	assert.Equal(t, schema.AllSeries, b.SeriesNames())
}

func TestBundleGetFlattensTrends(t *testing.T) {
	b := scenarioBundle(t)

	flat, err := b.Get(schema.TrendAdded)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, -3, 14, -13}, flat)
}

func TestBundleJSON(t *testing.T) {
	b := scenarioBundle(t)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var shape map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &shape))
	assert.JSONEq(t, `[[4,-3],[14,-13]]`, string(shape["trend_added"]))
	assert.JSONEq(t, `[20,20,15,15,0,0,0,0,0,0,0,0,0,0]`, string(shape["backlog_points"]))

	var restored Bundle
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, b.Sprints(), restored.Sprints())
	assert.Equal(t, b.Horizon(), restored.Horizon())
	assert.Equal(t, b.SprintNames(), restored.SprintNames())
	for _, name := range schema.AllSeries {
		want, _ := b.Get(name)
		got, err := restored.Get(name)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want, got, 1e-9, "series %s", name)
	}
}

func TestBundleUnmarshalRejectsBadLengths(t *testing.T) {
	var b Bundle
	err := json.Unmarshal([]byte(`{"sprints":2,"horizon":1,"added_points":[0,0,0],"added_points_pos":[0,0,0],"backlog_points":[1,1],"closed_points":[0,0,0]}`), &b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backlog_points")

	err = json.Unmarshal([]byte(`{"sprints":0,"horizon":0,"added_points":[],"added_points_pos":[],"backlog_points":[],"closed_points":[]}`), &b)
	require.NoError(t, err)
	trend, err := b.Trend(schema.TrendClosed)
	require.NoError(t, err)
	assert.NotNil(t, trend)
	assert.Empty(t, trend)
}

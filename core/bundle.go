package core

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/huangsam/burndown/core/series"
	"github.com/huangsam/burndown/schema"
)

// Bundle is the immutable result of one burndown computation.
// The four chart series hold N sprint slots followed by the forecast padding.
type Bundle struct {
	sprints int
	horizon int
	names   []string
	series  map[schema.SeriesName][]float64
	trends  map[schema.SeriesName][]schema.TrendPoint
}

func newBundle(names []string, horizon int, adjusted stacked, trendClosed, trendAdded []schema.TrendPoint) *Bundle {
	b := &Bundle{
		sprints: len(adjusted.backlog),
		horizon: horizon,
		names:   slices.Clone(names),
		series:  make(map[schema.SeriesName][]float64, len(schema.ChartSeries)),
		trends: map[schema.SeriesName][]schema.TrendPoint{
			schema.TrendClosed: trendClosed,
			schema.TrendAdded:  trendAdded,
		},
	}
	for _, name := range schema.ChartSeries {
		b.series[name] = pad(adjusted.vector(name), horizon)
	}
	return b
}

// pad appends n zero slots to a copy of v.
func pad(v []float64, n int) []float64 {
	out := make([]float64, len(v), len(v)+n)
	copy(out, v)
	return append(out, make([]float64, n)...)
}

func unknownSeries(name schema.SeriesName) error {
	return &series.UnknownSeriesError{Name: name, Known: slices.Clone(schema.AllSeries)}
}

// Get returns a copy of the named series. Trend series come back flattened
// as x0, y0, x1, y1; use Trend for the point form.
func (b *Bundle) Get(name schema.SeriesName) ([]float64, error) {
	if name.IsTrend() {
		points, err := b.Trend(name)
		if err != nil {
			return nil, err
		}
		flat := make([]float64, 0, 2*len(points))
		for _, p := range points {
			flat = append(flat, p.X, p.Y)
		}
		return flat, nil
	}
	v, ok := b.series[name]
	if !ok {
		return nil, unknownSeries(name)
	}
	return slices.Clone(v), nil
}

// Trend returns a copy of one of the two trend series.
func (b *Bundle) Trend(name schema.SeriesName) ([]schema.TrendPoint, error) {
	points, ok := b.trends[name]
	if !ok {
		return nil, unknownSeries(name)
	}
	return slices.Clone(points), nil
}

// SeriesNames returns the six series a bundle exposes.
func (b *Bundle) SeriesNames() []schema.SeriesName {
	return slices.Clone(schema.AllSeries)
}

// Sprints returns the number of closed sprint slots N.
func (b *Bundle) Sprints() int {
	return b.sprints
}

// SprintNames returns the display name of each closed sprint slot.
func (b *Bundle) SprintNames() []string {
	return slices.Clone(b.names)
}

// Horizon returns the number of forecast slots appended to each chart series.
func (b *Bundle) Horizon() int {
	return b.horizon
}

// Len returns the padded length of every chart series.
func (b *Bundle) Len() int {
	return b.sprints + b.horizon
}

type bundleJSON struct {
	Sprints        int                 `json:"sprints"`
	Horizon        int                 `json:"horizon"`
	SprintNames    []string            `json:"sprint_names,omitempty"`
	AddedPoints    []float64           `json:"added_points"`
	AddedPointsPos []float64           `json:"added_points_pos"`
	BacklogPoints  []float64           `json:"backlog_points"`
	ClosedPoints   []float64           `json:"closed_points"`
	TrendClosed    []schema.TrendPoint `json:"trend_closed"`
	TrendAdded     []schema.TrendPoint `json:"trend_added"`
}

// MarshalJSON encodes the bundle in the shape chart libraries consume,
// with each trend as a list of [x, y] pairs.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(bundleJSON{
		Sprints:        b.sprints,
		Horizon:        b.horizon,
		SprintNames:    b.names,
		AddedPoints:    b.series[schema.AddedPoints],
		AddedPointsPos: b.series[schema.AddedPointsPos],
		BacklogPoints:  b.series[schema.BacklogPoints],
		ClosedPoints:   b.series[schema.ClosedPoints],
		TrendClosed:    b.trends[schema.TrendClosed],
		TrendAdded:     b.trends[schema.TrendAdded],
	})
}

// UnmarshalJSON restores a bundle previously written by MarshalJSON.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var raw bundleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	columns := map[schema.SeriesName][]float64{
		schema.AddedPoints:    raw.AddedPoints,
		schema.AddedPointsPos: raw.AddedPointsPos,
		schema.BacklogPoints:  raw.BacklogPoints,
		schema.ClosedPoints:   raw.ClosedPoints,
	}
	want := raw.Sprints + raw.Horizon
	for name, v := range columns {
		if len(v) != want {
			return fmt.Errorf("series %s has %d slots, want %d", name, len(v), want)
		}
	}
	if len(raw.SprintNames) > 0 && len(raw.SprintNames) != raw.Sprints {
		return fmt.Errorf("bundle has %d sprint names for %d sprints", len(raw.SprintNames), raw.Sprints)
	}
	if raw.TrendClosed == nil {
		raw.TrendClosed = []schema.TrendPoint{}
	}
	if raw.TrendAdded == nil {
		raw.TrendAdded = []schema.TrendPoint{}
	}
	*b = Bundle{
		sprints: raw.Sprints,
		horizon: raw.Horizon,
		names:   raw.SprintNames,
		series:  columns,
		trends: map[schema.SeriesName][]schema.TrendPoint{
			schema.TrendClosed: raw.TrendClosed,
			schema.TrendAdded:  raw.TrendAdded,
		},
	}
	return nil
}

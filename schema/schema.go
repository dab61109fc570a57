// Package schema has configs, models and global variables for all parts of burndown.
package schema

import (
	"encoding/json"
	"fmt"
)

// SeriesName identifies one named series of a release burndown.
// The set of names is closed: every valid value is declared below.
type SeriesName string

// Raw series accumulated from per-story contributions.
const (
	BacklogPoints SeriesName = "backlog_points"
	AddedPoints   SeriesName = "added_points"
	ClosedPoints  SeriesName = "closed_points"
)

// Derived series produced by stack adjustment and forecasting.
const (
	AddedPointsPos SeriesName = "added_points_pos"
	TrendClosed    SeriesName = "trend_closed"
	TrendAdded     SeriesName = "trend_added"
)

// RawSeries lists the series every story contribution is accumulated into.
var RawSeries = []SeriesName{BacklogPoints, AddedPoints, ClosedPoints}

// ChartSeries lists the padded, stack-adjusted series of a burndown bundle.
var ChartSeries = []SeriesName{AddedPoints, AddedPointsPos, BacklogPoints, ClosedPoints}

// TrendSeries lists the forecast series of a burndown bundle.
var TrendSeries = []SeriesName{TrendClosed, TrendAdded}

// AllSeries lists every series a burndown bundle exposes, in display order.
var AllSeries = []SeriesName{AddedPoints, AddedPointsPos, BacklogPoints, ClosedPoints, TrendClosed, TrendAdded}

// IsTrend reports whether the series holds (x, y) forecast points.
func (s SeriesName) IsTrend() bool {
	return s == TrendClosed || s == TrendAdded
}

// IsValid reports whether the series is one of the declared names.
func (s SeriesName) IsValid() bool {
	for _, name := range AllSeries {
		if name == s {
			return true
		}
	}
	return false
}

// TrendPoint is one (x, y) point of a forecast line. X is a sprint slot position.
type TrendPoint struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as a two-element array, the shape chart libraries expect.
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element array into the point.
func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("trend point must have 2 coordinates, got %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

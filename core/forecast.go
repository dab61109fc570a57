package core

import "github.com/huangsam/burndown/schema"

// Forecaster extrapolates two-point trend lines from a trailing moving average.
type Forecaster struct {
	Window  int // trailing sprints averaged
	Horizon int // slots projected forward
}

// DefaultForecaster returns a forecaster using the default window and horizon.
func DefaultForecaster() Forecaster {
	return Forecaster{Window: schema.DefaultForecastWindow, Horizon: schema.DefaultForecastHorizon}
}

// normalized falls back to the defaults for non-positive settings.
func (f Forecaster) normalized() Forecaster {
	if f.Window < 1 {
		f.Window = schema.DefaultForecastWindow
	}
	if f.Horizon < 1 {
		f.Horizon = schema.DefaultForecastHorizon
	}
	return f
}

// forecast computes the closed and added trend lines over adjusted vectors.
// Both lines are empty when there are fewer sprints than the window.
func (f Forecaster) forecast(s stacked) (trendClosed, trendAdded []schema.TrendPoint) {
	f = f.normalized()
	n := len(s.backlog)
	if n < f.Window {
		return []schema.TrendPoint{}, []schema.TrendPoint{}
	}
	w := float64(f.Window)
	h := float64(f.Horizon)
	last := n - 1

	avgAdded := (s.added[last] - s.added[n-f.Window]) / w
	var closedSum float64
	for _, v := range s.closed[n-f.Window:] {
		closedSum += v
	}
	avgClosed := closedSum / w

	currentBacklog := s.added[last] + s.addedPos[last] + s.backlog[last]
	currentAdded := s.added[last]

	x0 := float64(n)
	trendClosed = []schema.TrendPoint{
		{X: x0, Y: currentBacklog},
		{X: x0 + h, Y: currentBacklog - avgClosed*h},
	}
	trendAdded = []schema.TrendPoint{
		{X: x0, Y: currentAdded},
		{X: x0 + h, Y: currentAdded + avgAdded*h},
	}
	return trendClosed, trendAdded
}

// Label classifies the closed trend against the added trend at the horizon.
// The release converges when remaining work is forecast to drop below added scope.
func Label(b *Bundle) schema.TrendLabel {
	closed, _ := b.Trend(schema.TrendClosed)
	added, _ := b.Trend(schema.TrendAdded)
	if len(closed) < 2 || len(added) < 2 {
		return schema.UnknownTrend
	}
	closing := closed[0].Y - closed[1].Y
	growing := added[0].Y - added[1].Y
	switch {
	case closing > growing:
		return schema.ConvergingTrend
	case closing == growing:
		return schema.StalledTrend
	default:
		return schema.DivergingTrend
	}
}

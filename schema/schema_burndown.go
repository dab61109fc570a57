package schema

import "time"

// BurndownResult is a computed burndown ready for output.
// The four chart series hold Sprints slots followed by Horizon forecast slots.
type BurndownResult struct {
	Release        ReleaseSummary `json:"release"`
	AsOf           time.Time      `json:"as_of"`
	SprintNames    []string       `json:"sprint_names"`
	Sprints        int            `json:"sprints"`
	Horizon        int            `json:"horizon"`
	AddedPoints    []float64      `json:"added_points"`
	AddedPointsPos []float64      `json:"added_points_pos"`
	BacklogPoints  []float64      `json:"backlog_points"`
	ClosedPoints   []float64      `json:"closed_points"`
	TrendClosed    []TrendPoint   `json:"trend_closed"`
	TrendAdded     []TrendPoint   `json:"trend_added"`
	Label          TrendLabel     `json:"label"`
	Cached         bool           `json:"cached"`
}

// Slots returns the padded length of the chart series.
func (r BurndownResult) Slots() int {
	return r.Sprints + r.Horizon
}

// SlotName returns the display name of slot i: the sprint name for closed
// sprint slots and a forecast marker for padded slots.
func (r BurndownResult) SlotName(i int) string {
	if i < len(r.SprintNames) {
		return r.SprintNames[i]
	}
	return "forecast"
}

// Remaining returns the stacked backlog total at the last closed sprint.
func (r BurndownResult) Remaining() float64 {
	if r.Sprints == 0 {
		return 0
	}
	last := r.Sprints - 1
	return r.AddedPoints[last] + r.AddedPointsPos[last] + r.BacklogPoints[last]
}

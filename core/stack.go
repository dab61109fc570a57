package core

import (
	"fmt"

	"github.com/huangsam/burndown/schema"
)

// stacked holds the chart-ready vectors produced from the raw series.
type stacked struct {
	added    []float64 // sign-flipped so added scope renders below the axis
	addedPos []float64
	backlog  []float64
	closed   []float64
}

// stackAdjust reshapes raw backlog/added/closed vectors for a stacked chart.
// Negative backlog is folded into the positive added band so that
// -added + addedPos + backlog still equals the raw backlog at every slot.
func stackAdjust(backlog, added, closed []float64) (stacked, error) {
	n := len(backlog)
	if len(added) != n || len(closed) != n {
		return stacked{}, fmt.Errorf("stack adjust: backlog=%d added=%d closed=%d slots", len(backlog), len(added), len(closed))
	}
	out := stacked{
		added:    make([]float64, n),
		addedPos: make([]float64, n),
		backlog:  make([]float64, n),
		closed:   make([]float64, n),
	}
	for i := range n {
		out.added[i] = 0 - added[i] // no negative zero
		if backlog[i] >= 0 {
			out.addedPos[i] = added[i]
			out.backlog[i] = backlog[i]
		} else {
			out.addedPos[i] = added[i] + backlog[i]
		}
	}
	copy(out.closed, closed)
	return out, nil
}

// vector returns the adjusted vector for one of the chart series.
func (s stacked) vector(name schema.SeriesName) []float64 {
	switch name {
	case schema.AddedPoints:
		return s.added
	case schema.AddedPointsPos:
		return s.addedPos
	case schema.BacklogPoints:
		return s.backlog
	case schema.ClosedPoints:
		return s.closed
	}
	return nil
}

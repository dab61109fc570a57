package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackAdjust(t *testing.T) {
	tests := []struct {
		name                            string
		backlog, added, closed          []float64
		wantAdded, wantPos, wantBacklog []float64
	}{
		{
			name:        "positive backlog",
			backlog:     []float64{20, 20, 15, 15},
			added:       []float64{0, 0, 0, 3},
			closed:      []float64{0, 0, 5, 0},
			wantAdded:   []float64{0, 0, 0, -3},
			wantPos:     []float64{0, 0, 0, 3},
			wantBacklog: []float64{20, 20, 15, 15},
		},
		{
			name:        "negative backlog folds into added band",
			backlog:     []float64{2, -3, -8},
			added:       []float64{0, 5, 10},
			closed:      []float64{0, 5, 5},
			wantAdded:   []float64{0, -5, -10},
			wantPos:     []float64{0, 2, 2},
			wantBacklog: []float64{2, 0, 0},
		},
		{
			name:        "zero backlog counts as non-negative",
			backlog:     []float64{0},
			added:       []float64{4},
			closed:      []float64{1},
			wantAdded:   []float64{-4},
			wantPos:     []float64{4},
			wantBacklog: []float64{0},
		},
		{
			name:        "empty",
			backlog:     []float64{},
			added:       []float64{},
			closed:      []float64{},
			wantAdded:   []float64{},
			wantPos:     []float64{},
			wantBacklog: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stackAdjust(tt.backlog, tt.added, tt.closed)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantAdded, got.added); diff != "" {
				t.Errorf("added (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPos, got.addedPos); diff != "" {
				t.Errorf("added_pos (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantBacklog, got.backlog); diff != "" {
				t.Errorf("backlog (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.closed, got.closed); diff != "" {
				t.Errorf("closed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStackAdjustLengthMismatch(t *testing.T) {
	_, err := stackAdjust([]float64{1, 2}, []float64{1}, []float64{1, 2})
	assert.Error(t, err)
}

func TestStackAdjustDoesNotAliasInput(t *testing.T) {
	closed := []float64{1, 2}
	got, err := stackAdjust([]float64{0, 0}, []float64{0, 0}, closed)
	require.NoError(t, err)
	got.closed[0] = 99
	assert.Equal(t, 1.0, closed[0])
}

// checkStackInvariants asserts the band sum and non-negative backlog at every slot.
func checkStackInvariants(t *testing.T, backlog, added, closed []float64) {
	t.Helper()
	got, err := stackAdjust(backlog, added, closed)
	require.NoError(t, err)
	for i := range backlog {
		sum := got.added[i] + got.addedPos[i] + got.backlog[i]
		assert.InDelta(t, backlog[i], sum, 1e-6*math.Max(1, math.Abs(backlog[i])+math.Abs(added[i])), "slot %d sum", i)
		assert.GreaterOrEqual(t, got.backlog[i], 0.0, "slot %d backlog", i)
		assert.Equal(t, closed[i], got.closed[i], "slot %d closed", i)
	}
}

func TestStackAdjustInvariants(t *testing.T) {
	checkStackInvariants(t,
		[]float64{-10, -0.5, 0, 0.5, 10, 100},
		[]float64{3, 0, 7, 2.25, 0, 40},
		[]float64{1, 2, 3, 4, 5, 6})
}

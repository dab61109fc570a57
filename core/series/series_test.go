package series

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRawStore(t *testing.T, n int) *Store {
	t.Helper()
	s := New()
	for _, name := range schema.RawSeries {
		require.NoError(t, s.Register(name, Zeros(n)))
	}
	return s
}

func TestRegister(t *testing.T) {
	t.Run("copies baseline", func(t *testing.T) {
		baseline := []float64{1, 2, 3}
		s := New()
		require.NoError(t, s.Register(schema.BacklogPoints, baseline))

		baseline[0] = 99
		got, err := s.Vector(schema.BacklogPoints)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, got)
	})

	t.Run("duplicate name", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Register(schema.BacklogPoints, Zeros(2)))
		err := s.Register(schema.BacklogPoints, Zeros(2))
		assert.ErrorIs(t, err, ErrDuplicateSeries)
	})

	t.Run("mismatched baseline", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Register(schema.BacklogPoints, Zeros(3)))
		err := s.Register(schema.AddedPoints, Zeros(4))
		assert.ErrorIs(t, err, ErrLengthMismatch)
		assert.Equal(t, []schema.SeriesName{schema.BacklogPoints}, s.Names())
	})

	t.Run("empty baseline", func(t *testing.T) {
		s := newRawStore(t, 0)
		assert.Equal(t, 0, s.Len())
		got, err := s.Vector(schema.ClosedPoints)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})
}

func TestAccumulate(t *testing.T) {
	tests := []struct {
		name          string
		contributions []Contribution
		expected      map[schema.SeriesName][]float64
	}{
		{
			name: "single contribution",
			contributions: []Contribution{
				{schema.BacklogPoints: {5, 5, 0}},
			},
			expected: map[schema.SeriesName][]float64{
				schema.BacklogPoints: {5, 5, 0},
				schema.AddedPoints:   {0, 0, 0},
				schema.ClosedPoints:  {0, 0, 0},
			},
		},
		{
			name: "sums across contributions",
			contributions: []Contribution{
				{schema.BacklogPoints: {5, 5, 0}, schema.ClosedPoints: {0, 0, 5}},
				{schema.BacklogPoints: {3, 3, 3}},
				{schema.AddedPoints: {0, 2, 2}},
			},
			expected: map[schema.SeriesName][]float64{
				schema.BacklogPoints: {8, 8, 3},
				schema.AddedPoints:   {0, 2, 2},
				schema.ClosedPoints:  {0, 0, 5},
			},
		},
		{
			name: "ignores unregistered series",
			contributions: []Contribution{
				{schema.TrendClosed: {1, 1, 1}, schema.ClosedPoints: {1, 0, 0}},
			},
			expected: map[schema.SeriesName][]float64{
				schema.BacklogPoints: {0, 0, 0},
				schema.AddedPoints:   {0, 0, 0},
				schema.ClosedPoints:  {1, 0, 0},
			},
		},
		{
			name: "fractional and negative values",
			contributions: []Contribution{
				{schema.BacklogPoints: {0.5, -1.5, 2}},
				{schema.BacklogPoints: {0.25, -0.5, -2}},
			},
			expected: map[schema.SeriesName][]float64{
				schema.BacklogPoints: {0.75, -2, 0},
				schema.AddedPoints:   {0, 0, 0},
				schema.ClosedPoints:  {0, 0, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRawStore(t, 3)
			for _, c := range tt.contributions {
				require.NoError(t, s.Accumulate(c))
			}
			for name, want := range tt.expected {
				got, err := s.Vector(name)
				require.NoError(t, err)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
				}
			}
		})
	}
}

func TestAccumulate_LengthMismatchLeavesStoreUntouched(t *testing.T) {
	s := newRawStore(t, 3)
	err := s.Accumulate(Contribution{
		schema.BacklogPoints: {1, 1, 1},
		schema.ClosedPoints:  {1, 1},
	})
	require.ErrorIs(t, err, ErrLengthMismatch)

	backlog, err := s.Vector(schema.BacklogPoints)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, backlog, "no column should change when validation fails")
}

func TestAccumulate_OrderIndependent(t *testing.T) {
	const slots = 6
	rng := rand.New(rand.NewPCG(7, 11))

	// Integer-valued deltas keep float addition exact, so any order must agree bit for bit.
	contributions := make([]Contribution, 40)
	for i := range contributions {
		c := Contribution{}
		for _, name := range schema.RawSeries {
			if rng.IntN(2) == 0 {
				continue
			}
			v := Zeros(slots)
			v[rng.IntN(slots)] = float64(rng.IntN(21) - 10)
			c[name] = v
		}
		contributions[i] = c
	}

	reference := newRawStore(t, slots)
	for _, c := range contributions {
		require.NoError(t, reference.Accumulate(c))
	}

	for range 25 {
		perm := rng.Perm(len(contributions))
		s := newRawStore(t, slots)
		for _, idx := range perm {
			require.NoError(t, s.Accumulate(contributions[idx]))
		}
		for _, name := range schema.RawSeries {
			want, _ := reference.Vector(name)
			got, _ := s.Vector(name)
			require.Equal(t, want, got, "series %s differs for permutation %v", name, perm)
		}
	}
}

func TestAccumulate_Associative(t *testing.T) {
	a := Contribution{schema.BacklogPoints: {1, 2}, schema.AddedPoints: {0, 3}}
	b := Contribution{schema.BacklogPoints: {4, 0}}
	c := Contribution{schema.AddedPoints: {2, 2}, schema.ClosedPoints: {1, 0}}

	// (a + b) + c
	left := newRawStore(t, 2)
	require.NoError(t, left.Accumulate(a))
	require.NoError(t, left.Accumulate(b))
	require.NoError(t, left.Accumulate(c))

	// a + (b + c), with b and c merged into one contribution first
	bc := newRawStore(t, 2)
	require.NoError(t, bc.Accumulate(b))
	require.NoError(t, bc.Accumulate(c))
	merged := Contribution{}
	for _, name := range bc.Names() {
		merged[name], _ = bc.Vector(name)
	}
	right := newRawStore(t, 2)
	require.NoError(t, right.Accumulate(a))
	require.NoError(t, right.Accumulate(merged))

	for _, name := range schema.RawSeries {
		l, _ := left.Vector(name)
		r, _ := right.Vector(name)
		assert.Equal(t, l, r, name)
	}
}

func TestVector_UnknownSeries(t *testing.T) {
	s := newRawStore(t, 2)
	_, err := s.Vector(schema.TrendAdded)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSeries)

	var unknown *UnknownSeriesError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, schema.RawSeries, unknown.Known)
	assert.Contains(t, err.Error(), "backlog_points")
}

func TestVector_ReturnsCopy(t *testing.T) {
	s := newRawStore(t, 2)
	v, err := s.Vector(schema.BacklogPoints)
	require.NoError(t, err)
	v[0] = 42

	again, _ := s.Vector(schema.BacklogPoints)
	assert.Equal(t, []float64{0, 0}, again)
}

func TestSlot(t *testing.T) {
	s := newRawStore(t, 3)
	require.NoError(t, s.Accumulate(Contribution{
		schema.BacklogPoints: {10, 8, 6},
		schema.ClosedPoints:  {0, 2, 2},
	}))

	row, err := s.Slot(1)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Index())
	assert.Equal(t, 8.0, row.Get(schema.BacklogPoints))
	assert.Equal(t, 2.0, row.Get(schema.ClosedPoints))
	_, ok := row.Value(schema.TrendClosed)
	assert.False(t, ok)

	_, err = s.Slot(3)
	assert.Error(t, err)
	_, err = s.Slot(-1)
	assert.Error(t, err)

	rows := s.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, 6.0, rows[2].Get(schema.BacklogPoints))
}

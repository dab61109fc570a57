// Package series has the aligned series table that per-story contributions are merged into.
package series

import (
	"errors"
	"fmt"
	"slices"

	"github.com/huangsam/burndown/schema"
)

// Errors returned by Store operations.
var (
	ErrLengthMismatch  = errors.New("series length mismatch")
	ErrDuplicateSeries = errors.New("duplicate series")
	ErrUnknownSeries   = errors.New("unknown series")
)

// UnknownSeriesError reports a lookup of a series that is not available.
// It unwraps to ErrUnknownSeries.
type UnknownSeriesError struct {
	Name  schema.SeriesName
	Known []schema.SeriesName
}

// Error implements the error interface.
func (e *UnknownSeriesError) Error() string {
	return fmt.Sprintf("no burndown data series %q, available: %v", e.Name, e.Known)
}

// Unwrap lets errors.Is match ErrUnknownSeries.
func (e *UnknownSeriesError) Unwrap() error {
	return ErrUnknownSeries
}

// Contribution holds the per-slot deltas one story adds to each named series.
// Vectors are typically zero everywhere except where the story changed state.
type Contribution map[schema.SeriesName][]float64

// Row exposes the value of every registered series at one slot.
type Row struct {
	index  int
	values map[schema.SeriesName]float64
}

// Index returns the slot position of the row.
func (r Row) Index() int {
	return r.index
}

// Value returns the value of the named series at this slot.
func (r Row) Value(name schema.SeriesName) (float64, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Get returns the value of the named series at this slot, or 0 when it is not registered.
func (r Row) Get(name schema.SeriesName) float64 {
	return r.values[name]
}

// Store is a dense table of named columns that all share one length,
// one row per closed sprint slot. Columns change only through Accumulate.
type Store struct {
	length  int
	names   []schema.SeriesName
	columns map[schema.SeriesName][]float64
}

// New creates an empty store. The first registered series fixes its length.
func New() *Store {
	return &Store{columns: make(map[schema.SeriesName][]float64)}
}

// Zeros returns a zero vector of length n.
func Zeros(n int) []float64 {
	return make([]float64, max(n, 0))
}

// Register adds a named column holding a copy of baseline.
func (s *Store) Register(name schema.SeriesName, baseline []float64) error {
	if _, ok := s.columns[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSeries, name)
	}
	if len(s.names) == 0 {
		s.length = len(baseline)
	} else if len(baseline) != s.length {
		return fmt.Errorf("%w: baseline for %s has %d slots, store has %d", ErrLengthMismatch, name, len(baseline), s.length)
	}
	s.columns[name] = slices.Clone(baseline)
	if s.columns[name] == nil {
		s.columns[name] = []float64{}
	}
	s.names = append(s.names, name)
	return nil
}

// Accumulate adds each contribution vector elementwise into the matching column.
// Series the store does not know are ignored. A vector of the wrong length
// fails the whole call before any column is modified.
func (s *Store) Accumulate(c Contribution) error {
	for _, name := range s.names {
		delta, ok := c[name]
		if !ok {
			continue
		}
		if len(delta) != s.length {
			return fmt.Errorf("%w: contribution to %s has %d slots, store has %d", ErrLengthMismatch, name, len(delta), s.length)
		}
	}
	for _, name := range s.names {
		delta, ok := c[name]
		if !ok {
			continue
		}
		column := s.columns[name]
		for i, v := range delta {
			column[i] += v
		}
	}
	return nil
}

// Vector returns a copy of the named column.
func (s *Store) Vector(name schema.SeriesName) ([]float64, error) {
	column, ok := s.columns[name]
	if !ok {
		return nil, &UnknownSeriesError{Name: name, Known: s.Names()}
	}
	return slices.Clone(column), nil
}

// Slot returns the row view at index i.
func (s *Store) Slot(i int) (Row, error) {
	if i < 0 || i >= s.length {
		return Row{}, fmt.Errorf("slot %d out of range [0, %d)", i, s.length)
	}
	values := make(map[schema.SeriesName]float64, len(s.names))
	for _, name := range s.names {
		values[name] = s.columns[name][i]
	}
	return Row{index: i, values: values}, nil
}

// Rows returns every row view in slot order.
func (s *Store) Rows() []Row {
	rows := make([]Row, 0, s.length)
	for i := range s.length {
		row, _ := s.Slot(i)
		rows = append(rows, row)
	}
	return rows
}

// Len returns the number of slots.
func (s *Store) Len() int {
	return s.length
}

// Names returns the registered series in registration order.
func (s *Store) Names() []schema.SeriesName {
	return slices.Clone(s.names)
}

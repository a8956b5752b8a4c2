package data

import (
	"errors"
	"fmt"
)

var (
	// NoDataErr signals that there is no usable data for the requested source.
	NoDataErr = errors.New("no data")
	// InvalidSizeErr signals a mismatch between indices or dimensions and the data set.
	InvalidSizeErr = errors.New("invalid size")
)

// Distancer exposes the pairwise distance between the examples of a set.
type Distancer interface {
	// Size returns the number of examples.
	Size() int
	// Distance returns the distance between the examples at the given indices.
	Distance(i, j int) (float64, error)
}

// Set is an ordered and immutable collection of examples that share the same dimension.
type Set struct {
	name     string
	dim      int
	examples []Example
}

// NewSet creates a new data set from the given examples.
func NewSet(name string, examples ...Example) (*Set, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("empty set '%s': %w", name, NoDataErr)
	}
	dim := examples[0].Len()
	if dim == 0 {
		return nil, fmt.Errorf("examples without attributes in '%s': %w", name, NoDataErr)
	}
	ee := make([]Example, len(examples))
	for i, e := range examples {
		if e.Len() != dim {
			return nil, fmt.Errorf("example %d has %d attributes instead of %d in '%s': %w", i, e.Len(), dim, name, NoDataErr)
		}
		ee[i] = e
	}
	return &Set{
		name:     name,
		dim:      dim,
		examples: ee,
	}, nil
}

// FromValues creates a set out of raw rows of values.
func FromValues(name string, rows ...[]float64) (*Set, error) {
	examples := make([]Example, len(rows))
	for i, row := range rows {
		examples[i] = NewExample(row...)
	}
	return NewSet(name, examples...)
}

// Name returns the name of the source the set was loaded from.
func (s *Set) Name() string {
	return s.name
}

// Size returns the number of examples in the set.
func (s *Set) Size() int {
	return len(s.examples)
}

// Dim returns the number of attributes of each example.
func (s *Set) Dim() int {
	return s.dim
}

// Example returns the example at the given index.
func (s *Set) Example(i int) (Example, error) {
	if i < 0 || i >= len(s.examples) {
		return Example{}, fmt.Errorf("index %d out of range [0,%d): %w", i, len(s.examples), InvalidSizeErr)
	}
	return s.examples[i], nil
}

// Distance returns the euclidean distance between the examples at the given indices.
func (s *Set) Distance(i, j int) (float64, error) {
	a, err := s.Example(i)
	if err != nil {
		return 0, err
	}
	b, err := s.Example(j)
	if err != nil {
		return 0, err
	}
	return a.Distance(b)
}

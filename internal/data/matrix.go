package data

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix holds the pre-computed distances between all the examples of a set.
type Matrix struct {
	n int
	m *mat.SymDense
}

// NewMatrix computes the distance matrix for the given set.
func NewMatrix(set Distancer) (*Matrix, error) {
	n := set.Size()
	if n == 0 {
		return nil, fmt.Errorf("cannot build distance matrix: %w", NoDataErr)
	}
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, err := set.Distance(i, j)
			if err != nil {
				return nil, fmt.Errorf("could not compute distance for [%d,%d]: %w", i, j, err)
			}
			m.SetSym(i, j, d)
		}
	}
	return &Matrix{
		n: n,
		m: m,
	}, nil
}

// Size returns the number of examples covered by the matrix.
func (m *Matrix) Size() int {
	return m.n
}

// Distance returns the memoized distance between the examples at the given indices.
func (m *Matrix) Distance(i, j int) (float64, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, fmt.Errorf("index [%d,%d] out of range [0,%d): %w", i, j, m.n, InvalidSizeErr)
	}
	return m.m.At(i, j), nil
}

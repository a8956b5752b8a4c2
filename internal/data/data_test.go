package data

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExample_Distance(t *testing.T) {

	type test struct {
		a, b     Example
		distance float64
		err      error
	}

	tests := map[string]test{
		"same": {
			a:        NewExample(1, 2, 3),
			b:        NewExample(1, 2, 3),
			distance: 0,
		},
		"one-dim": {
			a:        NewExample(0),
			b:        NewExample(5),
			distance: 5,
		},
		"two-dim": {
			a:        NewExample(0, 0),
			b:        NewExample(3, 4),
			distance: 5,
		},
		"mismatch": {
			a:   NewExample(0, 0),
			b:   NewExample(3),
			err: InvalidSizeErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := tt.a.Distance(tt.b)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.distance, d)
			// symmetry
			r, err := tt.b.Distance(tt.a)
			assert.NoError(t, err)
			assert.Equal(t, d, r)
		})
	}
}

func TestExample_Immutable(t *testing.T) {
	values := []float64{1, 2}
	e := NewExample(values...)
	values[0] = 10
	assert.Equal(t, 1.0, e.Get(0))

	vv := e.Values()
	vv[1] = 10
	assert.Equal(t, 2.0, e.Get(1))
}

func TestExample_String(t *testing.T) {
	assert.Equal(t, "[0.0]", NewExample(0).String())
	assert.Equal(t, "[1.5,-2.0,3.25]", NewExample(1.5, -2, 3.25).String())
}

func TestNewSet(t *testing.T) {

	type test struct {
		rows [][]float64
		err  error
	}

	tests := map[string]test{
		"valid": {
			rows: [][]float64{{1, 2}, {3, 4}},
		},
		"empty": {
			err: NoDataErr,
		},
		"no-attributes": {
			rows: [][]float64{{}},
			err:  NoDataErr,
		},
		"ragged": {
			rows: [][]float64{{1, 2}, {3}},
			err:  NoDataErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			set, err := FromValues(name, tt.rows...)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), set.Size())
			assert.Equal(t, name, set.Name())
			assert.Equal(t, 2, set.Dim())
		})
	}
}

func TestSet_Example(t *testing.T) {
	set, err := FromValues("test", []float64{0}, []float64{1})
	require.NoError(t, err)

	e, err := set.Example(1)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, e.Get(0))

	_, err = set.Example(2)
	assert.ErrorIs(t, err, InvalidSizeErr)
	_, err = set.Example(-1)
	assert.ErrorIs(t, err, InvalidSizeErr)
	_, err = set.Distance(0, 5)
	assert.ErrorIs(t, err, InvalidSizeErr)
}

func TestMatrix(t *testing.T) {
	set, err := FromValues("test", []float64{0, 0}, []float64{3, 4}, []float64{6, 8})
	require.NoError(t, err)

	m, err := NewMatrix(set)
	require.NoError(t, err)
	assert.Equal(t, set.Size(), m.Size())

	for i := 0; i < set.Size(); i++ {
		for j := 0; j < set.Size(); j++ {
			expected, err := set.Distance(i, j)
			require.NoError(t, err)
			actual, err := m.Distance(i, j)
			require.NoError(t, err)
			assert.True(t, math.Abs(expected-actual) < 1e-12, "distance [%d,%d]", i, j)
		}
	}

	_, err = m.Distance(0, 3)
	assert.ErrorIs(t, err, InvalidSizeErr)
}

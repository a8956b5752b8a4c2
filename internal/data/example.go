package data

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Example is a single record of the data set as a vector of numeric attributes.
type Example struct {
	values []float64
}

// NewExample creates a new example from the given values.
// The values are copied, so that the example stays immutable.
func NewExample(values ...float64) Example {
	vv := make([]float64, len(values))
	copy(vv, values)
	return Example{values: vv}
}

// Len returns the number of attributes of the example.
func (e Example) Len() int {
	return len(e.values)
}

// Get returns the value of the attribute at the given position.
func (e Example) Get(i int) float64 {
	return e.values[i]
}

// Values returns a copy of the attribute values.
func (e Example) Values() []float64 {
	vv := make([]float64, len(e.values))
	copy(vv, e.values)
	return vv
}

// Distance returns the euclidean distance to the other example.
func (e Example) Distance(other Example) (float64, error) {
	if len(e.values) != len(other.values) {
		return 0, fmt.Errorf("dimension mismatch [%d | %d]: %w", len(e.values), len(other.values), InvalidSizeErr)
	}
	return floats.Distance(e.values, other.values, 2), nil
}

// String renders the example as '[v1,v2,...]'.
func (e Example) String() string {
	ss := make([]string, len(e.values))
	for i, v := range e.values {
		ss[i] = strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(ss[i], ".eE") {
			ss[i] += ".0"
		}
	}
	return fmt.Sprintf("[%s]", strings.Join(ss, ","))
}

package table

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/drakos74/h-clus/internal/data"
)

// Loader gives access to the named tables that can be clustered.
type Loader interface {
	// Tables lists the available table names in order.
	Tables(ctx context.Context) ([]string, error)
	// Load loads the rows of the named table as a data set.
	// Returns data.NoDataErr if the table is missing, empty or not numeric.
	Load(ctx context.Context, name string) (*data.Set, error)
}

// Table is the raw content of a table.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Set converts the table rows into a data set.
func (t Table) Set(name string) (*data.Set, error) {
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("table '%s' is empty: %w", name, data.NoDataErr)
	}
	examples := make([]data.Example, len(t.Rows))
	for i, row := range t.Rows {
		if len(t.Columns) > 0 && len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d of table '%s' has %d values for %d columns: %w", i, name, len(row), len(t.Columns), data.NoDataErr)
		}
		values := make([]float64, len(row))
		for j, s := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("value '%s' at [%d,%d] of table '%s' is not numeric: %w", s, i, j, name, data.NoDataErr)
			}
			values[j] = v
		}
		examples[i] = data.NewExample(values...)
	}
	return data.NewSet(name, examples...)
}

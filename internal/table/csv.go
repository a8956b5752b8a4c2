package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a table from csv content.
// The first record is the header with the column names.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, errors.New("csv content has no header")
	}
	if err != nil {
		return Table{}, fmt.Errorf("could not read csv header: %w", err)
	}

	t := Table{
		Columns: make([]string, len(header)),
		Rows:    make([][]string, 0),
	}
	for i, c := range header {
		t.Columns[i] = strings.TrimSpace(c)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("could not read csv record %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

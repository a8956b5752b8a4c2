package table

import (
	"context"
	"strings"
	"testing"

	"github.com/drakos74/h-clus/internal/data"
	badgerdb "github.com/drakos74/h-clus/internal/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Set(t *testing.T) {

	type test struct {
		table Table
		size  int
		err   error
	}

	tests := map[string]test{
		"numeric": {
			table: Table{
				Columns: []string{"x", "y"},
				Rows:    [][]string{{"1", "2.5"}, {" 3 ", "-4"}},
			},
			size: 2,
		},
		"empty": {
			table: Table{Columns: []string{"x"}},
			err:   data.NoDataErr,
		},
		"text": {
			table: Table{
				Columns: []string{"x"},
				Rows:    [][]string{{"1"}, {"abc"}},
			},
			err: data.NoDataErr,
		},
		"nan": {
			table: Table{
				Columns: []string{"x"},
				Rows:    [][]string{{"NaN"}},
			},
			err: data.NoDataErr,
		},
		"ragged": {
			table: Table{
				Columns: []string{"x", "y"},
				Rows:    [][]string{{"1", "2"}, {"3"}},
			},
			err: data.NoDataErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			set, err := tt.table.Set(name)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, set.Size())
		})
	}
}

func TestReadCSV(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader("x, y\n1,2\n3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tb.Columns)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, tb.Rows)

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("x,y\n1\n"))
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	db, err := badgerdb.Open(badgerdb.InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	store := NewStore(db)

	names, err := store.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Put(ctx, "points", Table{
		Columns: []string{"x"},
		Rows:    [][]string{{"0"}, {"1"}, {"5"}},
	}))
	require.NoError(t, store.Put(ctx, "empty", Table{Columns: []string{"x"}}))
	require.NoError(t, store.Put(ctx, "labels", Table{
		Columns: []string{"name"},
		Rows:    [][]string{{"a"}},
	}))
	assert.Error(t, store.Put(ctx, "", Table{}))

	names, err = store.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty", "labels", "points"}, names)

	set, err := store.Load(ctx, "points")
	require.NoError(t, err)
	assert.Equal(t, 3, set.Size())
	assert.Equal(t, "points", set.Name())

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, data.NoDataErr)
	_, err = store.Load(ctx, "empty")
	assert.ErrorIs(t, err, data.NoDataErr)
	_, err = store.Load(ctx, "labels")
	assert.ErrorIs(t, err, data.NoDataErr)

	require.NoError(t, store.Delete(ctx, "labels"))
	names, err = store.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty", "points"}, names)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(map[string]Table{
		"b": {Rows: [][]string{{"1"}, {"2"}}},
		"a": {Rows: [][]string{{"1"}}},
	})

	names, err := m.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	set, err := m.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, set.Size())

	_, err = m.Load(ctx, "c")
	assert.ErrorIs(t, err, data.NoDataErr)
}

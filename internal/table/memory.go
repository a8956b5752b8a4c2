package table

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/drakos74/h-clus/internal/data"
)

// Memory is an in-memory table loader.
type Memory struct {
	mutex  *sync.RWMutex
	tables map[string]Table
}

// NewMemory creates a new in-memory loader with the given tables.
func NewMemory(tables map[string]Table) *Memory {
	tt := make(map[string]Table, len(tables))
	for name, t := range tables {
		tt[name] = t
	}
	return &Memory{
		mutex:  new(sync.RWMutex),
		tables: tt,
	}
}

// Tables lists the table names in lexicographic order.
func (m *Memory) Tables(_ context.Context) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load loads the named table as a data set.
func (m *Memory) Load(_ context.Context, name string) (*data.Set, error) {
	m.mutex.RLock()
	t, ok := m.tables[name]
	m.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("table '%s' does not exist: %w", name, data.NoDataErr)
	}
	return t.Set(name)
}

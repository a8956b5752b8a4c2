package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/drakos74/h-clus/internal/data"
	"github.com/rs/zerolog/log"
)

const prefix = "table/"

// Store keeps the tables in a badger database, one key per table.
type Store struct {
	db *badger.DB
}

// NewStore creates a new table store on top of the given database.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

func key(name string) []byte {
	return []byte(prefix + name)
}

// Put stores the table under the given name, replacing any previous one.
func (s *Store) Put(ctx context.Context, name string, t Table) error {
	if name == "" {
		return errors.New("table name is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("could not encode table '%s': %w", name, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(name), b)
	})
	if err != nil {
		return fmt.Errorf("could not store table '%s': %w", name, err)
	}
	log.Debug().Str("table", name).Int("rows", len(t.Rows)).Msg("stored table")
	return nil
}

// Delete removes the table with the given name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(name))
	})
}

// Tables lists the names of all stored tables in lexicographic order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), prefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not list tables: %w", err)
	}
	return names, nil
}

// Get returns the raw content of the named table.
func (s *Store) Get(ctx context.Context, name string) (Table, error) {
	var t Table
	if err := ctx.Err(); err != nil {
		return t, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &t)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return t, fmt.Errorf("table '%s' does not exist: %w", name, data.NoDataErr)
	}
	if err != nil {
		return t, fmt.Errorf("could not read table '%s': %v: %w", name, err, data.NoDataErr)
	}
	return t, nil
}

// Load loads the named table as a data set.
func (s *Store) Load(ctx context.Context, name string) (*data.Set, error) {
	t, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return t.Set(name)
}

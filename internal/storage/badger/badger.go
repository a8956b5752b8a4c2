package badger

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration of a badger instance.
type Config struct {
	// Path is the directory of the database files. Ignored for in-memory databases.
	Path string
	// InMemory keeps all data in memory only.
	InMemory bool
	// SyncWrites flushes every write to disk.
	SyncWrites bool
	// Verbose forwards the badger internal logs.
	Verbose bool
}

// DefaultConfig returns the configuration for a persistent database at the given path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns the configuration for an in-memory database.
func InMemoryConfig() Config {
	return Config{
		InMemory: true,
	}
}

// logger adapts zerolog to the badger logger interface.
type logger struct {
	log zerolog.Logger
}

func (l logger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l logger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l logger) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l logger) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

// Open opens the badger database for the given configuration.
// The caller is responsible for closing it.
func Open(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("could not create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Verbose {
		opts = opts.WithLogger(logger{log: log.With().Str("component", "badger").Logger()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open badger database: %w", err)
	}
	return db, nil
}

package storage

import (
	"errors"
)

var (
	// DefaultDir is the root directory for relative file paths.
	DefaultDir = "file-storage"
)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
	FormatErr       = errors.New("invalid format")
	InvalidPathErr  = errors.New("invalid path")
)

// Persistence stores and retrieves raw payloads under a path.
type Persistence interface {
	// Save writes the payload under the given path, replacing any previous one.
	Save(path string, payload []byte) error
	// Load reads the payload stored under the given path.
	// Returns NotFoundErr if nothing is stored there.
	Load(path string) ([]byte, error)
}

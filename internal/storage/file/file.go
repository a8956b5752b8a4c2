package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/drakos74/h-clus/internal/storage"
	"github.com/rs/zerolog/log"
)

// Storage persists payloads as files on the local disk.
// Paths are relative to the root directory and cannot leave it.
type Storage struct {
	root  string
	debug bool
}

// NewStorage creates a new file storage rooted at the given directory.
// An empty root falls back to storage.DefaultDir.
func NewStorage(root string) *Storage {
	if root == "" {
		root = storage.DefaultDir
	}
	return &Storage{root: root}
}

// Debug enables logging of every stored file.
func (s *Storage) Debug() *Storage {
	s.debug = true
	return s
}

func (s *Storage) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute path '%s': %w", path, storage.InvalidPathErr)
	}
	p := filepath.Join(s.root, path)
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path '%s' is outside of '%s': %w", path, s.root, storage.InvalidPathErr)
	}
	return p, nil
}

// Save writes the payload into the file at the given path.
func (s *Storage) Save(path string, payload []byte) error {
	p, err := s.resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	// check if the directory exists
	info, err := os.Stat(dir)
	if err != nil {
		err := os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", dir, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", dir)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", p, err)
	}
	defer f.Close()

	_, err = f.Write(payload)
	if err != nil {
		return fmt.Errorf("could not write %d bytes to file '%s': %w", len(payload), p, err)
	}

	if s.debug {
		log.Info().Str("path", p).Int("bytes", len(payload)).Msg("stored file")
	}
	return nil
}

// Load reads the payload from the file at the given path.
func (s *Storage) Load(path string) ([]byte, error) {
	p, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read file '%s': %w", path, storage.NotFoundErr)
		}
		return nil, fmt.Errorf("could not read file '%s': %v: %w", path, err, storage.CouldNotLoadErr)
	}
	return b, nil
}

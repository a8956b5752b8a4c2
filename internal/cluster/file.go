package cluster

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/drakos74/h-clus/internal/storage"
)

// InvalidFileNameErr signals a file name without one of the accepted extensions.
var InvalidFileNameErr = errors.New("invalid file name")

// Extensions are the accepted extensions for persisted dendrograms.
var Extensions = []string{".bin", ".ser", ".dat"}

// CheckFileName verifies that the file name carries one of the accepted extensions.
func CheckFileName(name string) error {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		// a bare '.bin' is not a file name
		return fmt.Errorf("'%s' has no name before the extension: %w", name, InvalidFileNameErr)
	}
	for _, e := range Extensions {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("'%s' must end with %s: %w", name, strings.Join(Extensions, " | "), InvalidFileNameErr)
}

// Save persists the dendrogram under the given path.
func Save(p storage.Persistence, d *Dendrogram, path string) error {
	if err := CheckFileName(path); err != nil {
		return err
	}
	b, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := p.Save(path, b); err != nil {
		return fmt.Errorf("could not save dendrogram: %w", err)
	}
	return nil
}

// Load restores a dendrogram from the given path.
func Load(p storage.Persistence, path string) (*Dendrogram, error) {
	b, err := p.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load dendrogram: %w", err)
	}
	return Unmarshal(b)
}

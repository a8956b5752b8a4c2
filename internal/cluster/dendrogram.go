package cluster

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/drakos74/h-clus/internal/data"
	"github.com/drakos74/h-clus/internal/storage"
)

var (
	// InvalidDepthErr signals a depth that does not fit the data set.
	InvalidDepthErr = errors.New("invalid depth")
	// InvalidClustersNumberErr signals that there are not enough clusters left to merge.
	InvalidClustersNumberErr = errors.New("invalid number of clusters")
)

// Level is a partition of all the examples of a data set into clusters.
type Level []Cluster

// Size returns the number of examples covered by the level.
func (l Level) Size() int {
	n := 0
	for _, c := range l {
		n += c.Size()
	}
	return n
}

// Dendrogram is the sequence of levels produced by merging the nearest clusters.
type Dendrogram struct {
	depth  int
	levels []Level
}

// Depth returns the number of levels of the dendrogram.
func (d *Dendrogram) Depth() int {
	return d.depth
}

// Level returns the level at the given position.
func (d *Dendrogram) Level(i int) (Level, error) {
	if i < 0 || i >= len(d.levels) {
		return nil, fmt.Errorf("level %d out of range [0,%d): %w", i, len(d.levels), InvalidDepthErr)
	}
	level := make(Level, len(d.levels[i]))
	copy(level, d.levels[i])
	return level, nil
}

// Examples returns the number of examples the dendrogram was built for.
func (d *Dendrogram) Examples() int {
	if len(d.levels) == 0 {
		return 0
	}
	return d.levels[0].Size()
}

// String renders the dendrogram with the raw example indices.
func (d *Dendrogram) String() string {
	var b strings.Builder
	for l, level := range d.levels {
		b.WriteString(fmt.Sprintf("level%d:\n", l))
		for i, c := range level {
			b.WriteString(fmt.Sprintf("cluster%d:%s\n", i, c.String()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Render renders the dendrogram with the examples of the given set.
func (d *Dendrogram) Render(set *data.Set) (string, error) {
	var b strings.Builder
	for l, level := range d.levels {
		b.WriteString(fmt.Sprintf("level%d:\n", l))
		for i, c := range level {
			b.WriteString(fmt.Sprintf("cluster%d:", i))
			err := c.Each(func(m int) error {
				e, err := set.Example(m)
				if err != nil {
					return err
				}
				b.WriteString(fmt.Sprintf("<%s>", e.String()))
				return nil
			})
			if err != nil {
				return "", fmt.Errorf("could not render cluster %d of level %d: %w", i, l, err)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

type dendrogram struct {
	Depth  int     `json:"depth"`
	Levels []Level `json:"levels"`
}

// Marshal serializes the dendrogram.
func (d *Dendrogram) Marshal() ([]byte, error) {
	b, err := json.Marshal(dendrogram{
		Depth:  d.depth,
		Levels: d.levels,
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal dendrogram: %w", err)
	}
	return b, nil
}

// Unmarshal reconstructs a dendrogram out of its serialized form.
func Unmarshal(b []byte) (*Dendrogram, error) {
	var raw dendrogram
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("could not decode dendrogram: %v: %w", err, storage.FormatErr)
	}
	d := &Dendrogram{
		depth:  raw.Depth,
		levels: raw.Levels,
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("invalid dendrogram: %v: %w", err, storage.FormatErr)
	}
	return d, nil
}

// validate checks that all levels partition the same examples
// and that every level has one cluster less than the previous one.
func (d *Dendrogram) validate() error {
	if d.depth < 1 {
		return fmt.Errorf("depth %d below 1", d.depth)
	}
	if len(d.levels) != d.depth {
		return fmt.Errorf("found %d levels for depth %d", len(d.levels), d.depth)
	}
	n := len(d.levels[0])
	if d.depth > n-1 {
		return fmt.Errorf("depth %d for %d examples", d.depth, n)
	}
	for l, level := range d.levels {
		if len(level) != n-l {
			return fmt.Errorf("level %d has %d clusters instead of %d", l, len(level), n-l)
		}
		seen := make([]bool, n)
		for _, c := range level {
			if c.Size() == 0 {
				return fmt.Errorf("empty cluster in level %d", l)
			}
			err := c.Each(func(m int) error {
				if m < 0 || m >= n {
					return fmt.Errorf("index %d out of range [0,%d) in level %d", m, n, l)
				}
				if seen[m] {
					return fmt.Errorf("index %d appears twice in level %d", m, l)
				}
				seen[m] = true
				return nil
			})
			if err != nil {
				return err
			}
		}
		for m, ok := range seen {
			if !ok {
				return fmt.Errorf("index %d missing from level %d", m, l)
			}
		}
	}
	return nil
}

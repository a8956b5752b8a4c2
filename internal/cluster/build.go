package cluster

import (
	"fmt"
	"math"

	"github.com/drakos74/h-clus/internal/data"
)

// Build creates the dendrogram for the given examples,
// merging at each level the two nearest clusters according to the linkage.
func Build(set data.Distancer, depth int, linkage Linkage) (*Dendrogram, error) {
	n := set.Size()
	if depth < 1 || depth > n-1 {
		return nil, fmt.Errorf("depth %d outside [1,%d] for %d examples: %w", depth, n-1, n, InvalidDepthErr)
	}

	matrix, err := data.NewMatrix(set)
	if err != nil {
		return nil, fmt.Errorf("could not compute distances: %w", err)
	}

	level := make(Level, n)
	for i := 0; i < n; i++ {
		level[i] = New(i)
	}

	levels := make([]Level, 1, depth)
	levels[0] = level
	for l := 1; l < depth; l++ {
		next, err := merge(levels[l-1], matrix, linkage)
		if err != nil {
			return nil, fmt.Errorf("could not build level %d: %w", l, err)
		}
		levels = append(levels, next)
	}

	return &Dendrogram{
		depth:  depth,
		levels: levels,
	}, nil
}

// closest finds the positions of the two nearest clusters of the level.
// Ties are resolved in favour of the lowest pair of positions.
func closest(level Level, d data.Distancer, linkage Linkage) (int, int, float64, error) {
	if len(level) < 2 {
		return 0, 0, 0, fmt.Errorf("found %d clusters: %w", len(level), InvalidClustersNumberErr)
	}
	minI, minJ := -1, -1
	min := math.Inf(1)
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			v, err := linkage.Distance(level[i], level[j], d)
			if err != nil {
				return 0, 0, 0, fmt.Errorf("could not measure clusters [%d,%d]: %w", i, j, err)
			}
			if minI < 0 || v < min {
				minI, minJ, min = i, j, v
			}
		}
	}
	return minI, minJ, min, nil
}

// merge creates the next level by replacing the two nearest clusters with their union,
// which is appended at the end.
func merge(level Level, d data.Distancer, linkage Linkage) (Level, error) {
	i, j, _, err := closest(level, d, linkage)
	if err != nil {
		return nil, err
	}
	next := make(Level, 0, len(level)-1)
	for k, c := range level {
		if k == i || k == j {
			continue
		}
		next = append(next, c)
	}
	return append(next, level[i].Merge(level[j])), nil
}

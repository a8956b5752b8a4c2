package cluster

import (
	"fmt"
	"math"

	"github.com/drakos74/h-clus/internal/data"
)

// Linkage defines how the distance between two clusters is derived
// from the distances of their members.
type Linkage int

const (
	// AverageLink uses the mean distance over all member pairs.
	AverageLink Linkage = iota
	// SingleLink uses the minimum distance over all member pairs.
	SingleLink
)

// ParseLinkage maps the protocol distance mode to a linkage.
func ParseLinkage(mode int) (Linkage, error) {
	switch Linkage(mode) {
	case AverageLink, SingleLink:
		return Linkage(mode), nil
	}
	return 0, fmt.Errorf("unknown distance mode '%d'", mode)
}

func (l Linkage) String() string {
	switch l {
	case AverageLink:
		return "average-link"
	case SingleLink:
		return "single-link"
	}
	return fmt.Sprintf("linkage(%d)", int(l))
}

// Distance computes the distance between the two clusters.
func (l Linkage) Distance(c1, c2 Cluster, d data.Distancer) (float64, error) {
	if c1.Size() == 0 || c2.Size() == 0 {
		return 0, fmt.Errorf("cannot measure empty cluster [%d | %d]: %w", c1.Size(), c2.Size(), data.InvalidSizeErr)
	}
	switch l {
	case SingleLink:
		return singleLink(c1, c2, d)
	case AverageLink:
		return averageLink(c1, c2, d)
	}
	return 0, fmt.Errorf("unknown linkage '%d'", int(l))
}

func singleLink(c1, c2 Cluster, d data.Distancer) (float64, error) {
	min := math.MaxFloat64
	for _, a := range c1.members {
		for _, b := range c2.members {
			v, err := d.Distance(a, b)
			if err != nil {
				return 0, err
			}
			if v < min {
				min = v
			}
		}
	}
	return min, nil
}

func averageLink(c1, c2 Cluster, d data.Distancer) (float64, error) {
	var sum float64
	for _, a := range c1.members {
		for _, b := range c2.members {
			v, err := d.Distance(a, b)
			if err != nil {
				return 0, err
			}
			sum += v
		}
	}
	return sum / float64(c1.Size()*c2.Size()), nil
}

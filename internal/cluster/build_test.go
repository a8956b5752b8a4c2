package cluster

import (
	"math/rand"
	"testing"

	"github.com/drakos74/h-clus/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func members(level Level) [][]int {
	mm := make([][]int, len(level))
	for i, c := range level {
		mm[i] = c.Members()
	}
	return mm
}

func TestBuild_Line(t *testing.T) {

	set := line(t, 0, 1, 5, 6)

	type test struct {
		depth   int
		linkage Linkage
		levels  [][][]int
	}

	tests := map[string]test{
		"single-link": {
			depth:   3,
			linkage: SingleLink,
			levels: [][][]int{
				{{0}, {1}, {2}, {3}},
				{{2}, {3}, {0, 1}},
				{{0, 1}, {2, 3}},
			},
		},
		"average-link": {
			depth:   3,
			linkage: AverageLink,
			levels: [][][]int{
				{{0}, {1}, {2}, {3}},
				{{2}, {3}, {0, 1}},
				{{0, 1}, {2, 3}},
			},
		},
		"one-level": {
			depth:   1,
			linkage: AverageLink,
			levels: [][][]int{
				{{0}, {1}, {2}, {3}},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := Build(set, tt.depth, tt.linkage)
			require.NoError(t, err)
			assert.Equal(t, tt.depth, d.Depth())
			assert.Equal(t, 4, d.Examples())
			for l, expected := range tt.levels {
				level, err := d.Level(l)
				require.NoError(t, err)
				assert.Equal(t, expected, members(level), "level %d", l)
			}
		})
	}
}

func TestBuild_Depth(t *testing.T) {
	set := line(t, 0, 1, 5, 6)

	for _, depth := range []int{-1, 0, 4, 5} {
		_, err := Build(set, depth, SingleLink)
		assert.ErrorIs(t, err, InvalidDepthErr, "depth %d", depth)
	}

	single := line(t, 1)
	_, err := Build(single, 1, SingleLink)
	assert.ErrorIs(t, err, InvalidDepthErr)
}

func TestBuild_FinalCluster(t *testing.T) {
	set := line(t, 3, 9, 1, 4, 7)
	d, err := Build(set, set.Size()-1, AverageLink)
	require.NoError(t, err)

	last, err := d.Level(d.Depth() - 1)
	require.NoError(t, err)
	assert.Equal(t, 2, len(last))

	// one more merge would produce the single cluster of all examples
	next, err := merge(last, set, AverageLink)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4}}, members(next))

	_, err = merge(next, set, AverageLink)
	assert.ErrorIs(t, err, InvalidClustersNumberErr)
}

func TestBuild_Partitions(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for _, linkage := range []Linkage{SingleLink, AverageLink} {
		for n := 2; n <= 9; n++ {
			rows := make([][]float64, n)
			for i := range rows {
				rows[i] = []float64{float64(rnd.Intn(5)), float64(rnd.Intn(5))}
			}
			set, err := data.FromValues("random", rows...)
			require.NoError(t, err)

			for depth := 1; depth <= n-1; depth++ {
				d, err := Build(set, depth, linkage)
				require.NoError(t, err)
				assert.Equal(t, depth, d.Depth())
				for l := 0; l < depth; l++ {
					level, err := d.Level(l)
					require.NoError(t, err)
					assert.Equal(t, n-l, len(level))
					seen := make(map[int]bool)
					for _, c := range level {
						assert.True(t, c.Size() > 0)
						for _, m := range c.Members() {
							assert.False(t, seen[m], "index %d appears twice", m)
							seen[m] = true
						}
					}
					assert.Equal(t, n, len(seen))
				}
				assert.NoError(t, d.validate())

				// deterministic for identical input
				r, err := Build(set, depth, linkage)
				require.NoError(t, err)
				assert.Equal(t, d, r)
			}
		}
	}
}

func TestClosest_TieBreak(t *testing.T) {
	// all pairs at the same distance
	set := line(t, 0, 0, 0, 0)
	level := Level{New(0), New(1), New(2), New(3)}
	i, j, v, err := closest(level, set, SingleLink)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, j)
	assert.Equal(t, 0.0, v)
}

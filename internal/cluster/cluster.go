package cluster

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Cluster is a set of example indices of a data set.
// Members are kept in ascending order and without duplicates.
type Cluster struct {
	members []int
}

// New creates a new cluster out of the given indices.
func New(indices ...int) Cluster {
	members := make([]int, len(indices))
	copy(members, indices)
	sort.Ints(members)
	// remove duplicates in place
	n := 0
	for i, m := range members {
		if i > 0 && members[n-1] == m {
			continue
		}
		members[n] = m
		n++
	}
	return Cluster{members: members[:n]}
}

// Size returns the number of members of the cluster.
func (c Cluster) Size() int {
	return len(c.members)
}

// Members returns a copy of the member indices in ascending order.
func (c Cluster) Members() []int {
	mm := make([]int, len(c.members))
	copy(mm, c.members)
	return mm
}

// Each iterates over the members of the cluster in ascending order.
// Iteration stops at the first error returned by f.
func (c Cluster) Each(f func(i int) error) error {
	for _, m := range c.members {
		if err := f(m); err != nil {
			return err
		}
	}
	return nil
}

// Contains checks if the given index is a member of the cluster.
func (c Cluster) Contains(i int) bool {
	k := sort.SearchInts(c.members, i)
	return k < len(c.members) && c.members[k] == i
}

// Merge creates a new cluster with the union of the members of both clusters.
func (c Cluster) Merge(other Cluster) Cluster {
	members := make([]int, 0, len(c.members)+len(other.members))
	i, j := 0, 0
	for i < len(c.members) && j < len(other.members) {
		switch {
		case c.members[i] < other.members[j]:
			members = append(members, c.members[i])
			i++
		case c.members[i] > other.members[j]:
			members = append(members, other.members[j])
			j++
		default:
			members = append(members, c.members[i])
			i++
			j++
		}
	}
	members = append(members, c.members[i:]...)
	members = append(members, other.members[j:]...)
	return Cluster{members: members}
}

// String renders the member indices as '0,1,2'.
func (c Cluster) String() string {
	ss := make([]string, len(c.members))
	for i, m := range c.members {
		ss[i] = strconv.Itoa(m)
	}
	return strings.Join(ss, ",")
}

// MarshalJSON encodes the cluster as the array of its members.
func (c Cluster) MarshalJSON() ([]byte, error) {
	if c.members == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.members)
}

// UnmarshalJSON decodes the cluster from the array of its members.
func (c *Cluster) UnmarshalJSON(b []byte) error {
	var members []int
	if err := json.Unmarshal(b, &members); err != nil {
		return fmt.Errorf("could not decode cluster: %w", err)
	}
	*c = New(members...)
	if c.Size() != len(members) {
		return fmt.Errorf("duplicate members in cluster %v", members)
	}
	return nil
}

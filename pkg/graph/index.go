package graph

import (
	"slices"
	"sort"
	"time"
)

// TypeCount pairs a node type with its number of instances.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TypeIndex maps each type to its node ids ordered newest first. Ties on
// timestamp put later-loaded nodes first.
type TypeIndex struct {
	ids   map[string][]string
	names []string
}

func newTypeIndex(nodes []*Node) *TypeIndex {
	byType := make(map[string][]*Node)
	for _, n := range nodes {
		byType[n.Type] = append(byType[n.Type], n)
	}

	idx := &TypeIndex{
		ids:   make(map[string][]string, len(byType)),
		names: make([]string, 0, len(byType)),
	}
	for t, ns := range byType {
		slices.SortFunc(ns, CompareNewest)
		ids := make([]string, len(ns))
		for i, n := range ns {
			ids[i] = n.ID
		}
		idx.ids[t] = ids
		idx.names = append(idx.names, t)
	}
	slices.Sort(idx.names)

	return idx
}

// Has reports whether at least one node of the type exists.
func (t *TypeIndex) Has(nodeType string) bool {
	_, ok := t.ids[nodeType]
	return ok
}

// Len is the number of nodes of a type.
func (t *TypeIndex) Len(nodeType string) int {
	return len(t.ids[nodeType])
}

// Names returns the observed type names, sorted.
func (t *TypeIndex) Names() []string {
	return slices.Clone(t.names)
}

// Counts returns every type with its instance count, sorted by name.
func (t *TypeIndex) Counts() []TypeCount {
	out := make([]TypeCount, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, TypeCount{Type: name, Count: len(t.ids[name])})
	}
	return out
}

// Page returns the ids on a 1-based page of a type. A page beyond the end is
// empty. page and pageSize must be positive.
func (t *TypeIndex) Page(nodeType string, page, pageSize int) []string {
	ids := t.ids[nodeType]
	start := (page - 1) * pageSize
	if page < 1 || pageSize < 1 || start >= len(ids) {
		return []string{}
	}
	end := min(start+pageSize, len(ids))
	return slices.Clone(ids[start:end])
}

// TimeIndex orders all nodes by ascending timestamp for window queries. Nodes
// without a timestamp sort first.
type TimeIndex struct {
	nodes []*Node
}

func newTimeIndex(nodes []*Node) *TimeIndex {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b *Node) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return &TimeIndex{nodes: sorted}
}

// Range returns the ids with start <= timestamp <= end, oldest first. A zero
// start or end leaves that side unbounded.
func (t *TimeIndex) Range(start, end time.Time) []string {
	lo := 0
	if !start.IsZero() {
		lo = sort.Search(len(t.nodes), func(i int) bool {
			return !t.nodes[i].Timestamp.Before(start)
		})
	}
	hi := len(t.nodes)
	if !end.IsZero() {
		hi = sort.Search(len(t.nodes), func(i int) bool {
			return t.nodes[i].Timestamp.After(end)
		})
	}
	if lo >= hi {
		return []string{}
	}

	out := make([]string, 0, hi-lo)
	for _, n := range t.nodes[lo:hi] {
		out = append(out, n.ID)
	}
	return out
}

// Bounds returns the earliest and latest timestamps among nodes that carry one.
func (t *TimeIndex) Bounds() (first, last time.Time, ok bool) {
	i := sort.Search(len(t.nodes), func(i int) bool {
		return !t.nodes[i].Timestamp.IsZero()
	})
	if i == len(t.nodes) {
		return time.Time{}, time.Time{}, false
	}
	return t.nodes[i].Timestamp, t.nodes[len(t.nodes)-1].Timestamp, true
}

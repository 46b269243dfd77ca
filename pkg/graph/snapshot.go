// Package graph holds the in-memory knowledge graph: the node and edge model,
// load-time validation, and the immutable Snapshot with its indices.
//
// A Snapshot is built once from a Document and never modified afterwards. It is
// safe to share between goroutines; refreshing the graph means building a new
// Snapshot and swapping the handle.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// maxAmbiguousMatches caps the candidates reported by an AmbiguousIDError.
const maxAmbiguousMatches = 10

// Snapshot is an immutable, fully indexed graph.
type Snapshot struct {
	source     string
	generation uint64
	loadedAt   time.Time
	kinds      *KindRegistry
	insight    string

	nodes     []*Node
	byID      map[string]*Node
	sortedIDs []string

	edges []Edge
	in    map[string][]int
	out   map[string][]int

	types *TypeIndex
	times *TimeIndex
}

type buildConfig struct {
	source     string
	generation uint64
	kinds      *KindRegistry
	insight    string
	now        func() time.Time
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithSource names the source in load errors and snapshot metadata.
func WithSource(name string) BuildOption {
	return func(c *buildConfig) { c.source = name }
}

// WithKinds sets the edge kind registry. Defaults to DefaultKinds().
func WithKinds(k *KindRegistry) BuildOption {
	return func(c *buildConfig) { c.kinds = k }
}

// WithInsightType sets the node type whose attributes are parsed into
// InsightAttributes. Defaults to TypeKnowledgeCrystal.
func WithInsightType(t string) BuildOption {
	return func(c *buildConfig) {
		if t != "" {
			c.insight = t
		}
	}
}

// WithGeneration stamps the snapshot with a generation counter.
func WithGeneration(g uint64) BuildOption {
	return func(c *buildConfig) { c.generation = g }
}

// Build validates doc and constructs a Snapshot with all indices. It fails with a
// *LoadError naming the first invalid record.
func Build(doc *Document, opts ...BuildOption) (*Snapshot, error) {
	cfg := &buildConfig{insight: TypeKnowledgeCrystal, now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.kinds == nil {
		cfg.kinds = DefaultKinds()
	}
	if doc == nil {
		return nil, &LoadError{Source: cfg.source, Err: errors.New("nil document")}
	}

	s := &Snapshot{
		source:     cfg.source,
		generation: cfg.generation,
		loadedAt:   cfg.now(),
		kinds:      cfg.kinds,
		insight:    cfg.insight,
		nodes:      make([]*Node, 0, len(doc.Nodes)),
		byID:       make(map[string]*Node, len(doc.Nodes)),
		edges:      make([]Edge, 0, len(doc.Edges)),
		in:         make(map[string][]int),
		out:        make(map[string][]int),
	}

	loadErr := func(record, id string, err error) error {
		return &LoadError{Source: cfg.source, Record: record, ID: id, Err: err}
	}

	for i, rec := range doc.Nodes {
		record := fmt.Sprintf("node[%d]", i)
		if rec.ID == "" {
			return nil, loadErr(record, "", errors.New("missing id"))
		}
		if _, dup := s.byID[rec.ID]; dup {
			return nil, loadErr(record, rec.ID, errors.New("duplicate id"))
		}
		if rec.Type == "" {
			return nil, loadErr(record, rec.ID, errors.New("missing type"))
		}

		ts, err := ParseTimestamp(rec.Timestamp)
		if err != nil {
			return nil, loadErr(record, rec.ID, err)
		}

		attrs, err := splitAttributes(rec.Type == cfg.insight, rec.Attributes)
		if err != nil {
			return nil, loadErr(record, rec.ID, err)
		}

		n := &Node{
			ID:        rec.ID,
			Type:      rec.Type,
			Timestamp: ts,
			Content:   rec.Content,
			Attrs:     attrs,
			order:     i,
		}
		s.nodes = append(s.nodes, n)
		s.byID[n.ID] = n
	}

	for i, rec := range doc.Edges {
		record := fmt.Sprintf("edge[%d]", i)
		id := rec.Source + "->" + rec.Target
		switch {
		case rec.Source == "":
			return nil, loadErr(record, id, errors.New("missing source"))
		case rec.Target == "":
			return nil, loadErr(record, id, errors.New("missing target"))
		case rec.Kind == "":
			return nil, loadErr(record, id, errors.New("missing kind"))
		}

		cat, ok := cfg.kinds.Category(rec.Kind)
		if !ok {
			return nil, loadErr(record, id, fmt.Errorf("unknown edge kind %s", rec.Kind))
		}
		if _, ok := s.byID[rec.Source]; !ok {
			return nil, loadErr(record, id, fmt.Errorf("source %s does not exist", rec.Source))
		}
		if _, ok := s.byID[rec.Target]; !ok {
			return nil, loadErr(record, id, fmt.Errorf("target %s does not exist", rec.Target))
		}

		s.edges = append(s.edges, Edge{
			Source:   rec.Source,
			Target:   rec.Target,
			Kind:     rec.Kind,
			Category: cat,
			order:    i,
		})
		s.out[rec.Source] = append(s.out[rec.Source], i)
		s.in[rec.Target] = append(s.in[rec.Target], i)
	}

	for id, idx := range s.out {
		s.sortAdjacency(id, idx)
	}
	for id, idx := range s.in {
		s.sortAdjacency(id, idx)
	}

	s.sortedIDs = make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		s.sortedIDs = append(s.sortedIDs, n.ID)
	}
	slices.Sort(s.sortedIDs)

	s.types = newTypeIndex(s.nodes)
	s.times = newTimeIndex(s.nodes)

	return s, nil
}

// sortAdjacency orders an adjacency list newest-first by the neighbor node,
// keeping parallel edges to the same neighbor in load order.
func (s *Snapshot) sortAdjacency(id string, idx []int) {
	slices.SortFunc(idx, func(a, b int) int {
		na := s.byID[s.edges[a].Other(id)]
		nb := s.byID[s.edges[b].Other(id)]
		if c := CompareNewest(na, nb); c != 0 {
			return c
		}
		return a - b
	})
}

// Source is the name of the source the snapshot was read from.
func (s *Snapshot) Source() string { return s.source }

// Generation is the reload counter the snapshot was built with.
func (s *Snapshot) Generation() uint64 { return s.generation }

// LoadedAt is the time the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Kinds is the edge kind registry the snapshot was validated against.
func (s *Snapshot) Kinds() *KindRegistry { return s.kinds }

// InsightType is the node type built with typed insight attributes.
func (s *Snapshot) InsightType() string { return s.insight }

// NodeCount is the number of nodes in the snapshot.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount is the number of edges in the snapshot.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Nodes returns all nodes in load order. The slice must not be modified.
func (s *Snapshot) Nodes() []*Node { return s.nodes }

// Edges returns all edges in load order. The slice must not be modified.
func (s *Snapshot) Edges() []Edge { return s.edges }

// NodeByID returns the node with exactly the given id.
func (s *Snapshot) NodeByID(id string) (*Node, error) {
	n, ok := s.byID[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return n, nil
}

// Resolve finds a node by full id or by a unique id prefix. An exact match always
// wins over longer ids sharing the prefix.
func (s *Snapshot) Resolve(idOrPrefix string) (*Node, error) {
	if idOrPrefix == "" {
		return nil, &NotFoundError{ID: idOrPrefix}
	}
	if n, ok := s.byID[idOrPrefix]; ok {
		return n, nil
	}

	start := sort.SearchStrings(s.sortedIDs, idOrPrefix)
	end := start
	for end < len(s.sortedIDs) && strings.HasPrefix(s.sortedIDs[end], idOrPrefix) {
		end++
	}

	switch end - start {
	case 0:
		return nil, &NotFoundError{ID: idOrPrefix}
	case 1:
		return s.byID[s.sortedIDs[start]], nil
	default:
		matches := s.sortedIDs[start:min(end, start+maxAmbiguousMatches)]
		return nil, &AmbiguousIDError{
			Prefix:  idOrPrefix,
			Matches: slices.Clone(matches),
			Total:   end - start,
		}
	}
}

// EdgesOf returns the edges on one side of a node, newest neighbor first,
// optionally restricted to the given categories. Unknown ids have no edges.
func (s *Snapshot) EdgesOf(id string, dir Direction, cats ...Category) []Edge {
	var idx []int
	switch dir {
	case In:
		idx = s.in[id]
	case Out:
		idx = s.out[id]
	}

	out := make([]Edge, 0, len(idx))
	for _, i := range idx {
		e := s.edges[i]
		if len(cats) > 0 && !slices.Contains(cats, e.Category) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// AllOfType returns the ids of a type, newest first. Unknown types yield nil.
func (s *Snapshot) AllOfType(nodeType string) []string {
	return slices.Clone(s.types.ids[nodeType])
}

// Types returns every observed type with its instance count, sorted by name.
func (s *Snapshot) Types() []TypeCount {
	return s.types.Counts()
}

// TypeIndex is the per-type newest-first index.
func (s *Snapshot) TypeIndex() *TypeIndex { return s.types }

// TimeIndex is the global timestamp-ordered index.
func (s *Snapshot) TimeIndex() *TimeIndex { return s.times }

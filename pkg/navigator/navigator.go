// Package navigator exposes paginated type listings and single-node
// neighborhoods over the current snapshot, plus the Navigation Mode session
// used by the interactive surfaces.
package navigator

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/nexus/pkg/content"
	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/utils"
)

const (
	// DefaultPageSize is the listing page size when callers do not pick one.
	DefaultPageSize = 10

	defaultPreviewWidth = 70
)

// ErrInvalidPage is returned for a page or page size below 1.
var ErrInvalidPage = errors.New("page and page size must be at least 1")

// AmbiguousTypeError is returned by ResolveType when a partial name matches
// several types.
type AmbiguousTypeError struct {
	Query   string
	Matches []string
}

func (e *AmbiguousTypeError) Error() string {
	return fmt.Sprintf("type %q is ambiguous: %s", e.Query, strings.Join(e.Matches, ", "))
}

// SnapshotProvider hands out the snapshot queries should run against.
type SnapshotProvider interface {
	Current() (*graph.Snapshot, error)
}

type staticProvider struct {
	snap *graph.Snapshot
}

func (p staticProvider) Current() (*graph.Snapshot, error) { return p.snap, nil }

// Static wraps a fixed snapshot as a SnapshotProvider.
func Static(snap *graph.Snapshot) SnapshotProvider {
	return staticProvider{snap: snap}
}

// Navigator answers listing and neighborhood queries. It holds no session
// state and is safe for concurrent use.
type Navigator struct {
	snapshots    SnapshotProvider
	knownTypes   map[string]bool
	previewWidth int
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithKnownTypes declares schema types. Listing a declared type without
// instances yields an empty page instead of an UnknownType error.
func WithKnownTypes(types ...string) Option {
	return func(n *Navigator) {
		for _, t := range types {
			if t != "" {
				n.knownTypes[t] = true
			}
		}
	}
}

// WithPreviewWidth sets the preview budget of summaries.
func WithPreviewWidth(width int) Option {
	return func(n *Navigator) {
		if width > 0 {
			n.previewWidth = width
		}
	}
}

// New creates a Navigator over the given snapshot provider.
func New(snapshots SnapshotProvider, opts ...Option) *Navigator {
	n := &Navigator{
		snapshots:    snapshots,
		knownTypes:   make(map[string]bool),
		previewWidth: defaultPreviewWidth,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Summary is the one-line view of a node.
type Summary struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Preview   string    `json:"preview"`
}

// Page is one page of a type listing.
type Page struct {
	Type       string    `json:"type"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Items      []Summary `json:"items"`
}

// Neighbor is one edge of a node's neighborhood together with the node at the
// other end. Index is the 1-based selection number across predecessors then
// successors.
type Neighbor struct {
	Index     int            `json:"index"`
	Direction string         `json:"direction"`
	Kind      string         `json:"kind"`
	Category  graph.Category `json:"category"`
	Node      Summary        `json:"node"`
}

// NodeDetail is the full view of a node and its neighborhood.
type NodeDetail struct {
	Node         Summary        `json:"node"`
	Content      string         `json:"content"`
	Decoded      any            `json:"decoded,omitempty"`
	Attributes   map[string]any `json:"attributes"`
	Predecessors []Neighbor     `json:"predecessors"`
	Successors   []Neighbor     `json:"successors"`
}

// NeighborCount is the number of selectable neighbors.
func (d *NodeDetail) NeighborCount() int {
	return len(d.Predecessors) + len(d.Successors)
}

// Neighbor returns the n-th neighbor, 1-based, predecessors first.
func (d *NodeDetail) Neighbor(n int) (Neighbor, bool) {
	switch {
	case n < 1 || n > d.NeighborCount():
		return Neighbor{}, false
	case n <= len(d.Predecessors):
		return d.Predecessors[n-1], true
	default:
		return d.Successors[n-1-len(d.Predecessors)], true
	}
}

// Types returns the schema type names: declared types plus observed ones, sorted.
func (n *Navigator) Types() ([]string, error) {
	snap, err := n.snapshots.Current()
	if err != nil {
		return nil, err
	}
	return n.typeNames(snap), nil
}

func (n *Navigator) typeNames(snap *graph.Snapshot) []string {
	names := snap.TypeIndex().Names()
	for t := range n.knownTypes {
		if !snap.TypeIndex().Has(t) {
			names = append(names, t)
		}
	}
	slices.Sort(names)
	return names
}

// ResolveType maps user input to a type name: an exact name, a 1-based index
// into Types, or a unique case-insensitive substring.
func (n *Navigator) ResolveType(query string) (string, error) {
	snap, err := n.snapshots.Current()
	if err != nil {
		return "", err
	}
	names := n.typeNames(snap)

	if slices.Contains(names, query) {
		return query, nil
	}

	if i, err := strconv.Atoi(query); err == nil {
		if i >= 1 && i <= len(names) {
			return names[i-1], nil
		}
		return "", &graph.UnknownTypeError{Type: query}
	}

	lower := strings.ToLower(query)
	var matches []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", &graph.UnknownTypeError{Type: query}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousTypeError{Query: query, Matches: matches}
	}
}

// List returns a 1-based page of a type's nodes, newest first. A page past the
// end is empty. A type that is neither observed nor declared fails with
// UnknownType.
func (n *Navigator) List(nodeType string, page, pageSize int) (*Page, error) {
	if page < 1 || pageSize < 1 {
		return nil, ErrInvalidPage
	}

	snap, err := n.snapshots.Current()
	if err != nil {
		return nil, err
	}

	idx := snap.TypeIndex()
	if !idx.Has(nodeType) && !n.knownTypes[nodeType] {
		return nil, &graph.UnknownTypeError{Type: nodeType}
	}

	total := idx.Len(nodeType)
	ids := idx.Page(nodeType, page, pageSize)

	p := &Page{
		Type:       nodeType,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
		Items:      make([]Summary, 0, len(ids)),
	}
	for _, id := range ids {
		node, err := snap.NodeByID(id)
		if err != nil {
			return nil, err
		}
		p.Items = append(p.Items, n.summary(node))
	}

	return p, nil
}

// Get resolves idOrPrefix and returns the node with its predecessors and
// successors over both edge categories, newest first.
func (n *Navigator) Get(idOrPrefix string) (*NodeDetail, error) {
	snap, err := n.snapshots.Current()
	if err != nil {
		return nil, err
	}

	node, err := snap.Resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}
	return n.detail(snap, node)
}

// getExact is Get without prefix matching, for ids recorded by a session
// that may have vanished in a reload.
func (n *Navigator) getExact(id string) (*NodeDetail, error) {
	snap, err := n.snapshots.Current()
	if err != nil {
		return nil, err
	}

	node, err := snap.NodeByID(id)
	if err != nil {
		return nil, err
	}
	return n.detail(snap, node)
}

func (n *Navigator) detail(snap *graph.Snapshot, node *graph.Node) (*NodeDetail, error) {
	var err error
	d := &NodeDetail{
		Node:       n.summary(node),
		Content:    node.Content,
		Attributes: node.AttributeMap(),
	}
	if content.IsStructured(node.Content) {
		d.Decoded = content.Decode(node.Content)
	}

	index := 0
	d.Predecessors, err = n.neighbors(snap, node.ID, graph.In, &index)
	if err != nil {
		return nil, err
	}
	d.Successors, err = n.neighbors(snap, node.ID, graph.Out, &index)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (n *Navigator) neighbors(snap *graph.Snapshot, id string, dir graph.Direction, index *int) ([]Neighbor, error) {
	edges := snap.EdgesOf(id, dir)
	out := make([]Neighbor, 0, len(edges))
	for _, e := range edges {
		other, err := snap.NodeByID(e.Other(id))
		if err != nil {
			return nil, err
		}
		*index++
		out = append(out, Neighbor{
			Index:     *index,
			Direction: dir.String(),
			Kind:      e.Kind,
			Category:  e.Category,
			Node:      n.summary(other),
		})
	}
	return out, nil
}

func (n *Navigator) summary(node *graph.Node) Summary {
	return Summary{
		ID:        node.ID,
		Type:      node.Type,
		Timestamp: node.Timestamp,
		Preview:   utils.Preview(node.Content, n.previewWidth),
	}
}

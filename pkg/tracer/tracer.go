// Package tracer reconstructs the causal chain reachable from a node.
//
// A trace follows only process edges, outbound, depth first. Every node is
// expanded at most once per trace; reaching it again yields a back-reference
// leaf instead of a second subtree, which also makes cycles terminate. The trace
// runs forward from the given node only. Callers wanting ancestor context start
// from an ancestor id.
package tracer

import (
	"time"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/utils"
)

// DefaultPreviewWidth is the content preview budget in display cells.
const DefaultPreviewWidth = 80

// Tree is a rendered-agnostic trace result.
type Tree struct {
	Root *Node `json:"root"`

	// Size counts expanded nodes, back-references excluded.
	Size     int `json:"size"`
	BackRefs int `json:"back_refs"`
}

// Node is one entry of a trace tree.
type Node struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Preview   string    `json:"preview,omitempty"`

	// Via is the edge kind that led here from the parent, empty for the root.
	Via string `json:"via,omitempty"`

	// BackRef marks a node already expanded earlier in the trace. Back-references
	// have no children.
	BackRef  bool    `json:"back_ref,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

type options struct {
	previewWidth int
}

// Option configures Trace.
type Option func(*options)

// WithPreviewWidth sets the content preview budget. Values below 4 fall back to
// DefaultPreviewWidth.
func WithPreviewWidth(width int) Option {
	return func(o *options) {
		if width >= 4 {
			o.previewWidth = width
		}
	}
}

// Trace builds the process-edge tree rooted at the node matching idOrPrefix.
// It fails with the snapshot's NotFound or AmbiguousID errors.
func Trace(snap *graph.Snapshot, idOrPrefix string, opts ...Option) (*Tree, error) {
	o := &options{previewWidth: DefaultPreviewWidth}
	for _, opt := range opts {
		opt(o)
	}

	root, err := snap.Resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}

	w := &walker{
		snap:    snap,
		opts:    o,
		emitted: make(map[string]bool),
		tree:    &Tree{},
	}
	w.tree.Root = w.expand(root, "")

	return w.tree, nil
}

type walker struct {
	snap    *graph.Snapshot
	opts    *options
	emitted map[string]bool
	tree    *Tree
}

func (w *walker) expand(n *graph.Node, via string) *Node {
	w.emitted[n.ID] = true
	w.tree.Size++

	out := w.entry(n, via)
	for _, e := range w.snap.EdgesOf(n.ID, graph.Out, graph.Process) {
		child, err := w.snap.NodeByID(e.Target)
		if err != nil {
			// Build guarantees endpoints exist.
			continue
		}

		if w.emitted[child.ID] {
			ref := w.entry(child, e.Kind)
			ref.BackRef = true
			ref.Preview = ""
			w.tree.BackRefs++
			out.Children = append(out.Children, ref)
			continue
		}

		out.Children = append(out.Children, w.expand(child, e.Kind))
	}

	return out
}

func (w *walker) entry(n *graph.Node, via string) *Node {
	return &Node{
		ID:        n.ID,
		Type:      n.Type,
		Timestamp: n.Timestamp,
		Preview:   utils.Preview(n.Content, w.opts.previewWidth),
		Via:       via,
	}
}

// Walk visits every node of the tree depth first, parents before children.
// Returning false from fn skips that node's children.
func Walk(t *Tree, fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if t != nil && t.Root != nil {
		walk(t.Root, 0)
	}
}

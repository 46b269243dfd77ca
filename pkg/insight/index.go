// Package insight is the read view over knowledge-crystal nodes: ordered
// listing by status, strength and recency, lookup by source concept, and the
// derived provenance of a single insight.
package insight

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/utils"
)

const (
	// DefaultPageSize is the insight listing page size.
	DefaultPageSize = 20

	defaultStrength     = 1
	defaultPreviewWidth = 70
)

// ErrNotInsight matches every *NotInsightError.
var ErrNotInsight = errors.New("node is not an insight")

// NotInsightError is returned by Get for a node of another type.
type NotInsightError struct {
	ID   string
	Type string
}

func (e *NotInsightError) Error() string {
	return fmt.Sprintf("node %s is a %s, not an insight", e.ID, e.Type)
}

func (e *NotInsightError) Is(target error) bool { return target == ErrNotInsight }

// Summary is the listing view of one insight.
type Summary struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Strength  int       `json:"strength"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Preview   string    `json:"preview"`
}

// Page is one page of an insight listing.
type Page struct {
	Status     *Status   `json:"status,omitempty"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Items      []Summary `json:"items"`
}

// Detail is a single insight with its derived provenance.
type Detail struct {
	Summary
	Content        string         `json:"content"`
	Attributes     map[string]any `json:"attributes"`
	SourceConcepts []string       `json:"source_concepts"`
	SourceImpulse  string         `json:"source_impulse,omitempty"`
}

type options struct {
	nodeType     string
	conceptType  string
	impulseType  string
	previewWidth int
}

// Option configures an Index.
type Option func(*options)

// WithNodeType overrides the insight node type. Defaults to the snapshot's
// InsightType.
func WithNodeType(t string) Option {
	return func(o *options) {
		if t != "" {
			o.nodeType = t
		}
	}
}

// WithPreviewWidth sets the preview budget of summaries.
func WithPreviewWidth(width int) Option {
	return func(o *options) {
		if width > 0 {
			o.previewWidth = width
		}
	}
}

// Index is the sorted insight view of one snapshot. It is immutable and safe
// for concurrent use.
type Index struct {
	snap   *graph.Snapshot
	opts   *options
	sorted []*graph.Node
	attrs  map[string]*graph.InsightAttributes
}

// New builds the index for snap.
func New(snap *graph.Snapshot, opts ...Option) *Index {
	o := &options{
		nodeType:     snap.InsightType(),
		conceptType:  graph.TypeConcept,
		impulseType:  graph.TypeUserImpulse,
		previewWidth: defaultPreviewWidth,
	}
	for _, opt := range opts {
		opt(o)
	}

	idx := &Index{snap: snap, opts: o, attrs: make(map[string]*graph.InsightAttributes)}
	for _, id := range snap.AllOfType(o.nodeType) {
		n, err := snap.NodeByID(id)
		if err != nil {
			continue
		}
		idx.sorted = append(idx.sorted, n)
		idx.attrs[n.ID] = insightAttributes(n)
	}
	slices.SortStableFunc(idx.sorted, idx.compare)

	return idx
}

// insightAttributes returns the typed attributes of n. Nodes of a type other
// than the snapshot's insight type are parsed here; malformed values count as
// absent since the load already accepted the node.
func insightAttributes(n *graph.Node) *graph.InsightAttributes {
	if n.Attrs.Insight != nil {
		return n.Attrs.Insight
	}
	ins, _, err := graph.ParseInsightAttributes(n.Attrs.Extra)
	if err != nil {
		return nil
	}
	return ins
}

func (x *Index) status(n *graph.Node) Status {
	return statusFrom(x.attrs[n.ID])
}

func (x *Index) strength(n *graph.Node) int {
	return x.attrs[n.ID].StrengthOr(defaultStrength)
}

// compare orders insights by status precedence, strength descending, then
// newest first.
func (x *Index) compare(a, b *graph.Node) int {
	if c := cmp.Compare(x.status(a), x.status(b)); c != 0 {
		return c
	}
	sa := x.strength(a)
	sb := x.strength(b)
	if c := cmp.Compare(sb, sa); c != 0 {
		return c
	}
	return graph.CompareNewest(a, b)
}

// Len is the number of insights in the snapshot.
func (x *Index) Len() int { return len(x.sorted) }

// List returns a 1-based page of insights, optionally restricted to one status.
// The filter applies before pagination; a page past the end is empty.
func (x *Index) List(filter *Status, page, pageSize int) (*Page, error) {
	if page < 1 || pageSize < 1 {
		return nil, navigator.ErrInvalidPage
	}

	matched := x.sorted
	if filter != nil {
		matched = make([]*graph.Node, 0, len(x.sorted))
		for _, n := range x.sorted {
			if x.status(n) == *filter {
				matched = append(matched, n)
			}
		}
	}

	p := &Page{
		Status:     filter,
		Page:       page,
		PageSize:   pageSize,
		Total:      len(matched),
		TotalPages: (len(matched) + pageSize - 1) / pageSize,
		Items:      []Summary{},
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return p, nil
	}
	for _, n := range matched[start:min(start+pageSize, len(matched))] {
		p.Items = append(p.Items, x.summary(n))
	}

	return p, nil
}

// FindByConcept returns the insights linked by an INSIGHT_FROM_CONCEPT edge to a
// concept whose content equals text exactly, in listing order.
func (x *Index) FindByConcept(text string) []Summary {
	linked := make(map[string]bool)
	for _, id := range x.snap.AllOfType(x.opts.conceptType) {
		concept, err := x.snap.NodeByID(id)
		if err != nil || concept.Content != text {
			continue
		}
		for _, e := range x.snap.EdgesOf(concept.ID, graph.In) {
			if e.Kind == graph.KindInsightFromConcept {
				linked[e.Source] = true
			}
		}
	}

	out := []Summary{}
	for _, n := range x.sorted {
		if linked[n.ID] {
			out = append(out, x.summary(n))
		}
	}
	return out
}

// Get resolves idOrPrefix to an insight and derives its source concepts and
// originating impulse from the edges one hop away.
func (x *Index) Get(idOrPrefix string) (*Detail, error) {
	n, err := x.snap.Resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if n.Type != x.opts.nodeType {
		return nil, &NotInsightError{ID: n.ID, Type: n.Type}
	}

	d := &Detail{
		Summary:        x.summary(n),
		Content:        n.Content,
		Attributes:     n.AttributeMap(),
		SourceConcepts: []string{},
	}

	for _, e := range x.snap.EdgesOf(n.ID, graph.Out) {
		if e.Kind != graph.KindInsightFromConcept {
			continue
		}
		if concept, err := x.snap.NodeByID(e.Target); err == nil {
			d.SourceConcepts = append(d.SourceConcepts, concept.Content)
		}
	}

	d.SourceImpulse = x.originatingImpulse(n)

	return d, nil
}

// originatingImpulse looks one hop out for an impulse node, process edges
// before semantic ones. The source_impulse attribute is used only when no edge
// leads to an impulse and it names a node that exists.
func (x *Index) originatingImpulse(n *graph.Node) string {
	for _, cat := range []graph.Category{graph.Process, graph.Semantic} {
		for _, dir := range []graph.Direction{graph.Out, graph.In} {
			for _, e := range x.snap.EdgesOf(n.ID, dir, cat) {
				other, err := x.snap.NodeByID(e.Other(n.ID))
				if err == nil && other.Type == x.opts.impulseType {
					return other.ID
				}
			}
		}
	}

	if ins := x.attrs[n.ID]; ins != nil && ins.SourceImpulse != "" {
		if imp, err := x.snap.NodeByID(ins.SourceImpulse); err == nil {
			return imp.ID
		}
	}
	return ""
}

func (x *Index) summary(n *graph.Node) Summary {
	return Summary{
		ID:        n.ID,
		Status:    x.status(n),
		Strength:  x.strength(n),
		Timestamp: n.Timestamp,
		Preview:   utils.Preview(n.Content, x.opts.previewWidth),
	}
}

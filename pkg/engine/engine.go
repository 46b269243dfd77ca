// Package engine is the query facade shared by the CLI, the HTTP API and the
// MCP server. Every query runs against the snapshot that is current when the
// call starts.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/insight"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/stats"
	"github.com/papercomputeco/nexus/pkg/store"
	"github.com/papercomputeco/nexus/pkg/tracer"
	"github.com/papercomputeco/nexus/pkg/view"
)

// Config tunes the query layers.
type Config struct {
	// KnownTypes are schema types that list as empty rather than unknown.
	KnownTypes []string

	NavigationPreviewWidth int
	TracePreviewWidth      int
	InsightPreviewWidth    int

	// InsightNodeType overrides the node type treated as an insight.
	InsightNodeType string
}

// Engine answers queries against a Store.
type Engine struct {
	store *store.Store
	nav   *navigator.Navigator
	cfg   Config

	// insights caches the insight index of one snapshot.
	mu           sync.Mutex
	insightsSnap *graph.Snapshot
	insights     *insight.Index
}

// New creates an engine over st. The store may still be empty; queries fail
// with store.ErrNotLoaded until it is loaded.
func New(st *store.Store, cfg Config) *Engine {
	navOpts := []navigator.Option{navigator.WithKnownTypes(cfg.KnownTypes...)}
	if cfg.NavigationPreviewWidth > 0 {
		navOpts = append(navOpts, navigator.WithPreviewWidth(cfg.NavigationPreviewWidth))
	}

	return &Engine{
		store: st,
		nav:   navigator.New(st, navOpts...),
		cfg:   cfg,
	}
}

// Store returns the backing store.
func (e *Engine) Store() *store.Store { return e.store }

// Navigator returns the stateless navigator.
func (e *Engine) Navigator() *navigator.Navigator { return e.nav }

// LoadOrReload reads the source and swaps in a fresh snapshot. On failure the
// previous snapshot keeps serving.
func (e *Engine) LoadOrReload(ctx context.Context) (*graph.Snapshot, error) {
	return e.store.Load(ctx)
}

// Stats summarizes the current snapshot.
func (e *Engine) Stats() (*stats.Summary, error) {
	snap, err := e.store.Current()
	if err != nil {
		return nil, err
	}
	s := stats.Summarize(snap)
	return &s, nil
}

// Types returns every schema type with its instance count, sorted by name.
// Declared types without instances have a zero count.
func (e *Engine) Types() ([]graph.TypeCount, error) {
	snap, err := e.store.Current()
	if err != nil {
		return nil, err
	}
	names, err := e.nav.Types()
	if err != nil {
		return nil, err
	}

	idx := snap.TypeIndex()
	out := make([]graph.TypeCount, 0, len(names))
	for _, name := range names {
		out = append(out, graph.TypeCount{Type: name, Count: idx.Len(name)})
	}
	return out, nil
}

// ListByType pages through a type, newest first.
func (e *Engine) ListByType(nodeType string, page, pageSize int) (*navigator.Page, error) {
	return e.nav.List(nodeType, page, pageSize)
}

// GetNode resolves an id or prefix and returns the node with its neighborhood.
func (e *Engine) GetNode(idOrPrefix string) (*navigator.NodeDetail, error) {
	return e.nav.Get(idOrPrefix)
}

// Trace builds the process trace tree rooted at a node.
func (e *Engine) Trace(idOrPrefix string) (*tracer.Tree, error) {
	snap, err := e.store.Current()
	if err != nil {
		return nil, err
	}

	var opts []tracer.Option
	if e.cfg.TracePreviewWidth > 0 {
		opts = append(opts, tracer.WithPreviewWidth(e.cfg.TracePreviewWidth))
	}
	return tracer.Trace(snap, idOrPrefix, opts...)
}

// ListInsights pages through insights in status precedence order. A nil
// filter lists every status.
func (e *Engine) ListInsights(filter *insight.Status, page, pageSize int) (*insight.Page, error) {
	idx, err := e.insightIndex()
	if err != nil {
		return nil, err
	}
	return idx.List(filter, page, pageSize)
}

// FindInsightsByConcept returns the insights derived from the concept whose
// content equals text.
func (e *Engine) FindInsightsByConcept(text string) ([]insight.Summary, error) {
	idx, err := e.insightIndex()
	if err != nil {
		return nil, err
	}
	return idx.FindByConcept(text), nil
}

// GetInsight returns a single insight with its provenance.
func (e *Engine) GetInsight(idOrPrefix string) (*insight.Detail, error) {
	idx, err := e.insightIndex()
	if err != nil {
		return nil, err
	}
	return idx.Get(idOrPrefix)
}

// View returns the filtered subgraph used by visual clients.
func (e *Engine) View(f view.Filter) (*view.Graph, error) {
	snap, err := e.store.Current()
	if err != nil {
		return nil, err
	}
	return view.Build(snap, f), nil
}

// Metadata describes types and time bounds, with counts for the given window.
func (e *Engine) Metadata(start, end time.Time) (*view.Metadata, error) {
	snap, err := e.store.Current()
	if err != nil {
		return nil, err
	}
	md := view.Describe(snap, start, end)
	return &md, nil
}

// NewSession starts an idle navigation session.
func (e *Engine) NewSession() *navigator.Session {
	return e.nav.NewSession()
}

func (e *Engine) insightIndex() (*insight.Index, error) {
	snap, err := e.store.Current()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.insightsSnap != snap {
		var opts []insight.Option
		if e.cfg.InsightNodeType != "" {
			opts = append(opts, insight.WithNodeType(e.cfg.InsightNodeType))
		}
		if e.cfg.InsightPreviewWidth > 0 {
			opts = append(opts, insight.WithPreviewWidth(e.cfg.InsightPreviewWidth))
		}
		e.insights = insight.New(snap, opts...)
		e.insightsSnap = snap
	}
	return e.insights, nil
}

// Package view produces rendering-agnostic subgraphs and metadata for the
// visualization frontend: a time window and type filter over the snapshot,
// with optional inferred links across hidden nodes.
package view

import (
	"slices"
	"time"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/utils"
)

// KindInferred labels edges synthesized between visible nodes that are only
// connected through hidden ones.
const KindInferred = "INFERRED"

const labelWidth = 60

// Filter selects the visible part of a snapshot. Empty Types means every type;
// zero Start or End leaves that side of the window open.
type Filter struct {
	Types    []string
	Start    time.Time
	End      time.Time
	Inferred bool
}

// Node is a visible node.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Timestamp  time.Time      `json:"timestamp,omitzero"`
	Label      string         `json:"label"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Edge is a visible edge. Category is empty for inferred edges.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Kind     string `json:"kind"`
	Category string `json:"category,omitempty"`
	Inferred bool   `json:"inferred,omitempty"`
}

// Graph is the filtered view.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build returns the nodes matching f and the edges among them. Nodes without a
// timestamp are always inside the time window.
func Build(snap *graph.Snapshot, f Filter) *Graph {
	visible := visibleSet(snap, f)

	g := &Graph{Nodes: []Node{}, Edges: []Edge{}}
	for _, n := range snap.Nodes() {
		if !visible[n.ID] {
			continue
		}
		g.Nodes = append(g.Nodes, Node{
			ID:         n.ID,
			Type:       n.Type,
			Timestamp:  n.Timestamp,
			Label:      utils.Preview(n.Content, labelWidth),
			Attributes: n.AttributeMap(),
		})
	}

	direct := make(map[[2]string]bool)
	for _, e := range snap.Edges() {
		if !visible[e.Source] || !visible[e.Target] {
			continue
		}
		direct[[2]string{e.Source, e.Target}] = true
		direct[[2]string{e.Target, e.Source}] = true
		g.Edges = append(g.Edges, Edge{
			Source:   e.Source,
			Target:   e.Target,
			Kind:     e.Kind,
			Category: e.Category.String(),
		})
	}

	if f.Inferred && len(visible) < snap.NodeCount() {
		g.Edges = append(g.Edges, inferred(snap, visible, direct)...)
	}

	return g
}

func visibleSet(snap *graph.Snapshot, f Filter) map[string]bool {
	visible := make(map[string]bool, snap.NodeCount())
	for _, id := range snap.TimeIndex().Range(f.Start, f.End) {
		visible[id] = true
	}

	for _, n := range snap.Nodes() {
		if !n.HasTimestamp() {
			visible[n.ID] = true
		}
		if len(f.Types) > 0 && !slices.Contains(f.Types, n.Type) {
			delete(visible, n.ID)
		}
	}
	return visible
}

// inferred links each visible node to the visible nodes it reaches through a
// path of hidden nodes only, ignoring edge direction. Pairs already joined by a
// direct edge are skipped and each pair is reported once.
func inferred(snap *graph.Snapshot, visible map[string]bool, direct map[[2]string]bool) []Edge {
	var out []Edge
	seen := make(map[[2]string]bool)

	for _, start := range snap.Nodes() {
		if !visible[start.ID] {
			continue
		}

		queue := []string{}
		expanded := map[string]bool{start.ID: true}
		for _, next := range adjacent(snap, start.ID) {
			if !visible[next] && !expanded[next] {
				expanded[next] = true
				queue = append(queue, next)
			}
		}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adjacent(snap, cur) {
				if expanded[next] {
					continue
				}
				expanded[next] = true
				if !visible[next] {
					queue = append(queue, next)
					continue
				}

				pair := [2]string{min(start.ID, next), max(start.ID, next)}
				if direct[pair] || seen[pair] {
					continue
				}
				seen[pair] = true
				out = append(out, Edge{Source: start.ID, Target: next, Kind: KindInferred, Inferred: true})
			}
		}
	}

	return out
}

func adjacent(snap *graph.Snapshot, id string) []string {
	var out []string
	for _, e := range snap.EdgesOf(id, graph.Out) {
		out = append(out, e.Target)
	}
	for _, e := range snap.EdgesOf(id, graph.In) {
		out = append(out, e.Source)
	}
	return out
}

// Metadata describes the snapshot for the frontend's filter controls.
type Metadata struct {
	Types         []string       `json:"types"`
	MinTimestamp  time.Time      `json:"min_timestamp,omitzero"`
	MaxTimestamp  time.Time      `json:"max_timestamp,omitzero"`
	WindowCounts  map[string]int `json:"window_counts"`
	AllTimeCounts map[string]int `json:"all_time_counts"`
	Generation    uint64         `json:"generation"`
	LoadedAt      time.Time      `json:"loaded_at"`
	TotalNodes    int            `json:"total_nodes"`
	TotalEdges    int            `json:"total_edges"`
}

// Describe returns the type list, timestamp bounds and per-type counts within
// [start, end] and over all time.
func Describe(snap *graph.Snapshot, start, end time.Time) Metadata {
	m := Metadata{
		Types:         snap.TypeIndex().Names(),
		WindowCounts:  make(map[string]int),
		AllTimeCounts: make(map[string]int),
		Generation:    snap.Generation(),
		LoadedAt:      snap.LoadedAt(),
		TotalNodes:    snap.NodeCount(),
		TotalEdges:    snap.EdgeCount(),
	}
	if first, last, ok := snap.TimeIndex().Bounds(); ok {
		m.MinTimestamp, m.MaxTimestamp = first, last
	}

	for _, tc := range snap.Types() {
		m.AllTimeCounts[tc.Type] = tc.Count
	}
	visible := visibleSet(snap, Filter{Start: start, End: end})
	for _, n := range snap.Nodes() {
		if visible[n.ID] {
			m.WindowCounts[n.Type]++
		}
	}

	return m
}

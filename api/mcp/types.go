package mcp

import (
	"time"

	"github.com/papercomputeco/nexus/pkg/insight"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/tracer"
)

const defaultPageSize = 10

// Tool outputs use plain strings for timestamps and enums so the inferred
// output schemas match the encoded JSON.

// NodeSummary is the one-line view of a node.
type NodeSummary struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp,omitempty"`
	Preview   string `json:"preview"`
}

// NeighborOutput is one numbered neighbor of a node.
type NeighborOutput struct {
	Index     int         `json:"index"`
	Direction string      `json:"direction"`
	Kind      string      `json:"kind"`
	Category  string      `json:"category"`
	Node      NodeSummary `json:"node"`
}

// TraceEntry is one node of a trace in depth-first order. Depth 0 is the root.
type TraceEntry struct {
	Depth     int    `json:"depth"`
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp,omitempty"`
	Preview   string `json:"preview,omitempty"`
	Via       string `json:"via,omitempty"`
	BackRef   bool   `json:"back_ref,omitempty"`
}

// InsightSummary is the listing view of an insight.
type InsightSummary struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Strength  int    `json:"strength"`
	Timestamp string `json:"timestamp,omitempty"`
	Preview   string `json:"preview"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func nodeSummary(s navigator.Summary) NodeSummary {
	return NodeSummary{
		ID:        s.ID,
		Type:      s.Type,
		Timestamp: formatTime(s.Timestamp),
		Preview:   s.Preview,
	}
}

func neighbors(in []navigator.Neighbor) []NeighborOutput {
	out := make([]NeighborOutput, 0, len(in))
	for _, nb := range in {
		out = append(out, NeighborOutput{
			Index:     nb.Index,
			Direction: nb.Direction,
			Kind:      nb.Kind,
			Category:  nb.Category.String(),
			Node:      nodeSummary(nb.Node),
		})
	}
	return out
}

// traceEntries flattens a trace tree depth first.
func traceEntries(t *tracer.Tree) []TraceEntry {
	out := make([]TraceEntry, 0, t.Size+t.BackRefs)
	tracer.Walk(t, func(n *tracer.Node, depth int) bool {
		out = append(out, TraceEntry{
			Depth:     depth,
			ID:        n.ID,
			Type:      n.Type,
			Timestamp: formatTime(n.Timestamp),
			Preview:   n.Preview,
			Via:       n.Via,
			BackRef:   n.BackRef,
		})
		return true
	})
	return out
}

func insightSummaries(in []insight.Summary) []InsightSummary {
	out := make([]InsightSummary, 0, len(in))
	for _, s := range in {
		out = append(out, InsightSummary{
			ID:        s.ID,
			Status:    s.Status.String(),
			Strength:  s.Strength,
			Timestamp: formatTime(s.Timestamp),
			Preview:   s.Preview,
		})
	}
	return out
}

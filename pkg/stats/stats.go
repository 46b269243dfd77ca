// Package stats aggregates snapshot-wide counts.
package stats

import (
	"cmp"
	"slices"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// Summary is the result of Summarize.
type Summary struct {
	TotalNodes   int               `json:"total_nodes"`
	TotalEdges   int               `json:"total_edges"`
	CountsByType []graph.TypeCount `json:"counts_by_type"`

	// ProcessEdges and SemanticEdges split TotalEdges by category.
	ProcessEdges  int `json:"process_edges"`
	SemanticEdges int `json:"semantic_edges"`
}

// Summarize counts nodes and edges. CountsByType is ordered by count
// descending, ties broken by type name ascending.
func Summarize(snap *graph.Snapshot) Summary {
	counts := snap.Types()
	slices.SortFunc(counts, func(a, b graph.TypeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})

	s := Summary{
		TotalNodes:   snap.NodeCount(),
		TotalEdges:   snap.EdgeCount(),
		CountsByType: counts,
	}
	for _, e := range snap.Edges() {
		switch e.Category {
		case graph.Process:
			s.ProcessEdges++
		case graph.Semantic:
			s.SemanticEdges++
		}
	}
	return s
}

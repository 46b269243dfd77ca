package testutils

import (
	"encoding/json"
	"os"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// WriteJSON writes doc to path in the JSON snapshot layout read by the file
// source.
func WriteJSON(path string, doc *graph.Document) error {
	nodes := make([]map[string]any, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		m := map[string]any{
			"id":        n.ID,
			"type":      n.Type,
			"timestamp": n.Timestamp,
			"content":   n.Content,
		}
		if len(n.Attributes) > 0 {
			m["attributes"] = n.Attributes
		}
		nodes = append(nodes, m)
	}

	edges := make([]map[string]string, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		edges = append(edges, map[string]string{
			"source": e.Source,
			"target": e.Target,
			"kind":   e.Kind,
		})
	}

	data, err := json.MarshalIndent(map[string]any{"nodes": nodes, "edges": edges}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

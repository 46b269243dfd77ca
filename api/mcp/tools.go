package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/nexus/pkg/insight"
	"github.com/papercomputeco/nexus/pkg/tracer"
)

var (
	graphStatsToolName    = "graph_stats"
	graphStatsDescription = "Summarize the knowledge graph: total nodes and edges, process and semantic edge counts, and the number of nodes of every type."

	listNodesToolName    = "list_nodes"
	listNodesDescription = "List the nodes of one type, newest first, one page at a time. Partial type names are accepted when they match a single type."

	getNodeToolName    = "get_node"
	getNodeDescription = "Get a node by id or unique id prefix, with its full content, attributes, predecessors and successors."

	traceNodeToolName    = "trace_node"
	traceNodeDescription = "Trace the causal chain reachable from a node by following process edges forward. Nodes reached twice appear once more as back-references."

	listInsightsToolName    = "list_insights"
	listInsightsDescription = "List knowledge-crystal insights ordered by status (verified, unverified, archived), strength and recency. Optionally filter by status."

	findInsightsToolName    = "find_insights"
	findInsightsDescription = "Find the insights synthesized from the concept whose text equals the given concept exactly."
)

// GraphStatsInput takes no arguments.
type GraphStatsInput struct{}

// TypeCount pairs a node type with its count.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// GraphStatsOutput is the result of graph_stats.
type GraphStatsOutput struct {
	TotalNodes    int         `json:"total_nodes"`
	TotalEdges    int         `json:"total_edges"`
	ProcessEdges  int         `json:"process_edges"`
	SemanticEdges int         `json:"semantic_edges"`
	CountsByType  []TypeCount `json:"counts_by_type"`
}

func (s *Server) handleGraphStats(_ context.Context, _ *mcp.CallToolRequest, _ GraphStatsInput) (*mcp.CallToolResult, GraphStatsOutput, error) {
	sum, err := s.config.Engine.Stats()
	if err != nil {
		return s.toolError(graphStatsToolName, err), GraphStatsOutput{}, nil
	}

	out := GraphStatsOutput{
		TotalNodes:    sum.TotalNodes,
		TotalEdges:    sum.TotalEdges,
		ProcessEdges:  sum.ProcessEdges,
		SemanticEdges: sum.SemanticEdges,
		CountsByType:  make([]TypeCount, 0, len(sum.CountsByType)),
	}
	for _, tc := range sum.CountsByType {
		out.CountsByType = append(out.CountsByType, TypeCount{Type: tc.Type, Count: tc.Count})
	}

	return nil, out, nil
}

// ListNodesInput represents the input arguments for the list_nodes tool.
type ListNodesInput struct {
	Type     string `json:"type" jsonschema:"the exact node type to list, e.g. UserImpulse or ConceptNode"`
	Page     int    `json:"page,omitempty" jsonschema:"1-based page number (default: 1)"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"nodes per page"`
}

// ListNodesOutput is one page of a type listing.
type ListNodesOutput struct {
	Type       string        `json:"type"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Items      []NodeSummary `json:"items"`
}

func (s *Server) handleListNodes(_ context.Context, _ *mcp.CallToolRequest, input ListNodesInput) (*mcp.CallToolResult, ListNodesOutput, error) {
	page, pageSize := s.paging(input.Page, input.PageSize)
	p, err := s.config.Engine.ListByType(input.Type, page, pageSize)
	if err != nil {
		return s.toolError(listNodesToolName, err), ListNodesOutput{}, nil
	}

	out := ListNodesOutput{
		Type:       p.Type,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Items:      make([]NodeSummary, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		out.Items = append(out.Items, nodeSummary(item))
	}

	return nil, out, nil
}

// NodeInput identifies a node by id or unique prefix.
type NodeInput struct {
	ID string `json:"id" jsonschema:"the node id or a unique prefix of it"`
}

// GetNodeOutput is a node with its neighborhood.
type GetNodeOutput struct {
	Node         NodeSummary      `json:"node"`
	Content      string           `json:"content"`
	Attributes   map[string]any   `json:"attributes"`
	Predecessors []NeighborOutput `json:"predecessors"`
	Successors   []NeighborOutput `json:"successors"`
}

func (s *Server) handleGetNode(_ context.Context, _ *mcp.CallToolRequest, input NodeInput) (*mcp.CallToolResult, GetNodeOutput, error) {
	d, err := s.config.Engine.GetNode(input.ID)
	if err != nil {
		return s.toolError(getNodeToolName, err), GetNodeOutput{}, nil
	}

	attrs := d.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}

	return nil, GetNodeOutput{
		Node:         nodeSummary(d.Node),
		Content:      d.Content,
		Attributes:   attrs,
		Predecessors: neighbors(d.Predecessors),
		Successors:   neighbors(d.Successors),
	}, nil
}

// TraceNodeOutput is a flattened trace plus its plain-text rendering.
type TraceNodeOutput struct {
	Root     string       `json:"root"`
	Size     int          `json:"size"`
	BackRefs int          `json:"back_refs"`
	Entries  []TraceEntry `json:"entries"`
	Text     string       `json:"text"`
}

func (s *Server) handleTraceNode(_ context.Context, _ *mcp.CallToolRequest, input NodeInput) (*mcp.CallToolResult, TraceNodeOutput, error) {
	t, err := s.config.Engine.Trace(input.ID)
	if err != nil {
		return s.toolError(traceNodeToolName, err), TraceNodeOutput{}, nil
	}

	var b strings.Builder
	if err := tracer.Render(&b, t); err != nil {
		return s.toolError(traceNodeToolName, err), TraceNodeOutput{}, nil
	}

	return nil, TraceNodeOutput{
		Root:     t.Root.ID,
		Size:     t.Size,
		BackRefs: t.BackRefs,
		Entries:  traceEntries(t),
		Text:     b.String(),
	}, nil
}

// ListInsightsInput represents the input arguments for the list_insights tool.
type ListInsightsInput struct {
	Status   string `json:"status,omitempty" jsonschema:"only list insights with this status: verified, unverified or archived"`
	Page     int    `json:"page,omitempty" jsonschema:"1-based page number (default: 1)"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"insights per page"`
}

// ListInsightsOutput is one page of insights.
type ListInsightsOutput struct {
	Status     string           `json:"status,omitempty"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
	Items      []InsightSummary `json:"items"`
}

func (s *Server) handleListInsights(_ context.Context, _ *mcp.CallToolRequest, input ListInsightsInput) (*mcp.CallToolResult, ListInsightsOutput, error) {
	var filter *insight.Status
	if input.Status != "" {
		st, err := insight.ParseStatus(input.Status)
		if err != nil {
			return s.toolError(listInsightsToolName, err), ListInsightsOutput{}, nil
		}
		filter = &st
	}

	page, pageSize := s.paging(input.Page, input.PageSize)
	p, err := s.config.Engine.ListInsights(filter, page, pageSize)
	if err != nil {
		return s.toolError(listInsightsToolName, err), ListInsightsOutput{}, nil
	}

	out := ListInsightsOutput{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Items:      insightSummaries(p.Items),
	}
	if filter != nil {
		out.Status = filter.String()
	}

	return nil, out, nil
}

// FindInsightsInput represents the input arguments for the find_insights tool.
type FindInsightsInput struct {
	Concept string `json:"concept" jsonschema:"the exact text of the source concept"`
}

// FindInsightsOutput lists the insights derived from a concept.
type FindInsightsOutput struct {
	Concept string           `json:"concept"`
	Count   int              `json:"count"`
	Results []InsightSummary `json:"results"`
}

func (s *Server) handleFindInsights(_ context.Context, _ *mcp.CallToolRequest, input FindInsightsInput) (*mcp.CallToolResult, FindInsightsOutput, error) {
	found, err := s.config.Engine.FindInsightsByConcept(input.Concept)
	if err != nil {
		return s.toolError(findInsightsToolName, err), FindInsightsOutput{}, nil
	}

	results := insightSummaries(found)
	return nil, FindInsightsOutput{
		Concept: input.Concept,
		Count:   len(results),
		Results: results,
	}, nil
}

// paging applies the defaults for omitted paging arguments.
func (s *Server) paging(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.config.PageSize
	}
	return page, pageSize
}

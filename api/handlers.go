package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/insight"
	"github.com/papercomputeco/nexus/pkg/store"
	"github.com/papercomputeco/nexus/pkg/view"
)

// TypesResponse lists every schema type with its instance count.
type TypesResponse struct {
	Types []graph.TypeCount `json:"types"`
}

// FindInsightsResponse lists the insights derived from a concept.
type FindInsightsResponse struct {
	Concept string            `json:"concept"`
	Count   int               `json:"count"`
	Results []insight.Summary `json:"results"`
}

// SnapshotResponse describes the snapshot currently served.
type SnapshotResponse struct {
	store.Status
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStats returns node and edge counts of the current snapshot.
func (s *Server) handleStats(c *fiber.Ctx) error {
	sum, err := s.engine.Stats()
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(sum)
}

// handleTypes returns the schema types with their counts.
func (s *Server) handleTypes(c *fiber.Ctx) error {
	types, err := s.engine.Types()
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(TypesResponse{Types: types})
}

// handleListNodes returns one page of a type, newest first. The type must match
// exactly unless resolve=true asks for index and substring matching.
func (s *Server) handleListNodes(c *fiber.Ctx) error {
	nodeType := c.Params("type")
	if c.QueryBool("resolve") {
		resolved, err := s.engine.Navigator().ResolveType(nodeType)
		if err != nil {
			return s.writeError(c, err)
		}
		nodeType = resolved
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", s.config.PageSize)

	p, err := s.engine.ListByType(nodeType, page, pageSize)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(p)
}

// handleGetNode returns a node with its neighborhood.
func (s *Server) handleGetNode(c *fiber.Ctx) error {
	d, err := s.engine.GetNode(c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(d)
}

// handleTrace returns the process trace tree rooted at a node.
func (s *Server) handleTrace(c *fiber.Ctx) error {
	t, err := s.engine.Trace(c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(t)
}

// handleListInsights returns one page of insights, optionally of one status.
func (s *Server) handleListInsights(c *fiber.Ctx) error {
	var filter *insight.Status
	if raw := c.Query("status"); raw != "" {
		st, err := insight.ParseStatus(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		filter = &st
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", s.config.InsightPageSize)

	p, err := s.engine.ListInsights(filter, page, pageSize)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(p)
}

// handleFindInsights returns the insights derived from a concept.
func (s *Server) handleFindInsights(c *fiber.Ctx) error {
	concept := c.Query("concept")
	if concept == "" {
		return badRequest(c, "concept parameter required")
	}

	found, err := s.engine.FindInsightsByConcept(concept)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(FindInsightsResponse{
		Concept: concept,
		Count:   len(found),
		Results: found,
	})
}

// handleGetInsight returns a single insight with its provenance.
func (s *Server) handleGetInsight(c *fiber.Ctx) error {
	d, err := s.engine.GetInsight(c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(d)
}

// handleView returns the filtered subgraph for visual clients.
func (s *Server) handleView(c *fiber.Ctx) error {
	start, end, err := timeWindow(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	g, err := s.engine.View(view.Filter{
		Types:    splitTypes(c.Query("types")),
		Start:    start,
		End:      end,
		Inferred: c.QueryBool("inferred", false),
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(g)
}

// handleMetadata returns the type list, time bounds and window counts.
func (s *Server) handleMetadata(c *fiber.Ctx) error {
	start, end, err := timeWindow(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	md, err := s.engine.Metadata(start, end)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(md)
}

// handleSnapshotStatus reports the served snapshot and the last load attempt.
func (s *Server) handleSnapshotStatus(c *fiber.Ctx) error {
	return c.JSON(s.snapshotResponse())
}

// handleReload rereads the source. A snapshot that fails to load is rejected
// with 422 and the previous snapshot keeps serving.
func (s *Server) handleReload(c *fiber.Ctx) error {
	if _, err := s.engine.LoadOrReload(c.UserContext()); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(s.snapshotResponse())
}

func (s *Server) snapshotResponse() SnapshotResponse {
	resp := SnapshotResponse{Status: s.engine.Store().Status()}
	if snap, err := s.engine.Store().Current(); err == nil {
		resp.Nodes = snap.NodeCount()
		resp.Edges = snap.EdgeCount()
	}
	return resp
}

// timeWindow parses the optional start and end query parameters.
func timeWindow(c *fiber.Ctx) (start, end time.Time, err error) {
	if start, err = graph.ParseTimestamp(c.Query("start")); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end, err = graph.ParseTimestamp(c.Query("end")); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func splitTypes(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

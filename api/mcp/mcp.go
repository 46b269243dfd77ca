// Package mcp provides an MCP (Model Context Protocol) server exposing the
// knowledge graph queries as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/nexus/pkg/engine"
	"github.com/papercomputeco/nexus/pkg/utils"
)

type Config struct {
	// Engine answers every tool call against the current snapshot.
	Engine *engine.Engine

	// PageSize is the default page size of list tools.
	PageSize int

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the graph tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nexus",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		s.handler = newHandler(mcpServer)
		return s, nil
	}

	if c.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if s.config.PageSize <= 0 {
		s.config.PageSize = defaultPageSize
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        graphStatsToolName,
		Description: graphStatsDescription,
	}, s.handleGraphStats)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listNodesToolName,
		Description: listNodesDescription,
	}, s.handleListNodes)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        getNodeToolName,
		Description: getNodeDescription,
	}, s.handleGetNode)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        traceNodeToolName,
		Description: traceNodeDescription,
	}, s.handleTraceNode)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listInsightsToolName,
		Description: listInsightsDescription,
	}, s.handleListInsights)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        findInsightsToolName,
		Description: findInsightsDescription,
	}, s.handleFindInsights)

	s.mcpServer = mcpServer
	s.handler = newHandler(mcpServer)

	return s, nil
}

// newHandler creates a streamable HTTP net/http handler for stateless operations.
func newHandler(mcpServer *mcp.Server) *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// toolError reports a failed query to the calling model instead of failing the
// protocol exchange.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.config.Logger.Debug("MCP tool failed", "tool", tool, "error", err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
	}
}

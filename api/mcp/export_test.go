package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// SDKServer exposes the underlying MCP server for in-memory client tests.
func (s *Server) SDKServer() *mcp.Server {
	return s.mcpServer
}

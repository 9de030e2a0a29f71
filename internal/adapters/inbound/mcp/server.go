package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewModguardMCPServer creates a new MCP server with all modguard tools
// registered. The rootPath is the directory tools operate under.
func NewModguardMCPServer(rootPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"modguard",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, rootPath)

	return s
}

package cli

import (
	mcpadapter "github.com/modguard/modguard/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the modguard MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var rootPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start modguard MCP server (stdio)",
		Long:  "Start the modguard MCP server using stdio transport, exposing validate, ecosystem, and autofix tools to AI coding assistants.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootPath == "" {
				rootPath = "."
			}
			s := mcpadapter.NewModguardMCPServer(rootPath)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&rootPath, "path", "", "Root path (defaults to current working directory)")

	return cmd
}

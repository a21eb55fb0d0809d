package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	dashmcp "github.com/gorewood/dash/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run dash as a Model Context Protocol (MCP) server over stdio.

This lets MCP-capable agents track time on your behalf with the same
data directory the CLI uses.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "dash": {
        "command": "dash",
        "args": ["serve"]
      }
    }
  }

Available tools: project, start, end, status, log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			server := dashmcp.NewServer(buildVersion(), a.tracker)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

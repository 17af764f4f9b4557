package main

import (
	"github.com/spf13/cobra"

	"playbook/internal/logging"
	mcpserver "playbook/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill tools over MCP on stdin/stdout",
	Long: `Starts an MCP server over stdin/stdout. An agent host connects and
drives skills with start_skill, get_current_step, advance, and get_state.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv := mcpserver.NewServer()
	logging.New("mcp").Info("starting playbook MCP server over stdio")
	return srv.MCPServer.Run(cmd.Context(), &sdkmcp.StdioTransport{})
}

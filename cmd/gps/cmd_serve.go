package main

import (
	"context"

	"github.com/spf13/cobra"

	"gps/internal/logging"
	mcpserver "gps/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing the solve_problem,
run_scenario, and list_scenarios tools.

The server monitors for parent process death. When the host disconnects
or restarts, the server self-terminates to prevent zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv := mcpserver.NewServer(version)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log := logging.New("mcp")
	mcpserver.WatchStdin(ctx, log, cancel)

	log.Info("starting gps MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/aretw0/abacus/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes calculator sessions as MCP tools so AI agents can evaluate
expressions, press keys and run calculator commands.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		baseURL, _ := cmd.Flags().GetString("base-url")
		logger := services.Logger

		srv := mcp.NewServer(services.Engine, services.Sessions,
			mcp.WithLogger(logger),
			mcp.WithMaxInputSize(services.Config.MaxInputSize),
		)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting Abacus MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil {
				return fmt.Errorf("MCP server execution failed: %w", err)
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public base URL announced to SSE clients")
}

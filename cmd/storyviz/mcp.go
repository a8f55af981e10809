package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyviz/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts storyviz as an MCP Server.
AI agents can call the visualize_stories tool with Markdown stories and read the
graph of the configured --stories from the storyviz://graph resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger := newLogger(cmd)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		in, err := readInputs(cmd)
		if err != nil {
			return err
		}
		defer in.Close()

		agent, nluRef, err := loadAgent(in, logger)
		if err != nil {
			return err
		}

		srv := mcp.NewServer(agent, mcp.Config{
			Stories:    in.Stories,
			MaxHistory: in.MaxHistory,
			NLU:        nluRef,
			Logger:     logger,
		})

		switch transport {
		case "stdio":
			logger.Info("Starting storyviz MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting storyviz MCP Server (SSE)", "port", port)
			return srv.ServeSSE(cmd.Context(), port)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	addInputFlags(mcpCmd, false)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}

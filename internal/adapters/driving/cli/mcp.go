package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scout/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research and ask tools over MCP",
	Long: `Serve scout to MCP clients. The server offers the research and ask tools
and read-only namespace resources.

Without --port the server speaks JSON-RPC on stdin/stdout, which is what
desktop assistants expect:

  {"mcpServers": {"scout": {"command": "scout", "args": ["mcp", "serve"]}}}

With --port it serves the streamable HTTP transport instead, for the MCP
Inspector or remote clients:

  scout mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	f := mcpServeCmd.Flags()
	f.IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	f.StringVar(&mcpHost, "host", "localhost", "interface to bind with --port")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("--port %d out of range", mcpPort)
	}
	if err := requireServices(cmd); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Research: researchService, Namespaces: namespaceService})
	if err != nil {
		return err
	}
	startPromptWatch(cmd.Context())

	if mcpPort == 0 {
		return server.Run(cmd.Context())
	}
	addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

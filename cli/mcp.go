// ABOUTME: MCP server subcommand
// ABOUTME: Serves friend log tools, resources, and prompts over stdio for AI assistants
package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/friendlog/handlers"
)

func newMCPCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.logger.Info("starting MCP server", zap.String("api", rt.cfg.APIBaseURL))
			server := handlers.NewServer(rt.gw, rt.opts.Version)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

package cmd

import (
	"github.com/cpheatmap/cpheatmap/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the cpheatmap MCP server",
	Long:  `Launch an MCP server that lets AI agents build assignment heatmaps and grade summaries via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Tool handlers suppress the normal header logs,
		// since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager, session, session)
	},
}

package cmd

import (
	"github.com/huangsam/svnplot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [store-path]",
	Short: "Start the svnplot MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents query statistics of a converted repository.`,
	Args:  cobra.MaximumNArgs(1),
	// The protocol owns stdout, so nothing else may print there.
	PreRunE: setupWith(storeArg(0)),
	RunE: func(_ *cobra.Command, _ []string) error {
		store := openStore()
		defer func() { _ = store.Close() }()
		return mcp.StartMCPServer(rootCtx, cfg, store)
	},
}

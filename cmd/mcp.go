package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/teampulse/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the teampulse MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents query engineer health,
team insights, the daily summary, training groups and mentoring pairs.

Logs go to stderr so stdout stays reserved for the protocol.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, svc, version)
	},
}

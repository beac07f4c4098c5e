package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/huangsam/teampulse/core"
	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/schema"
)

// observeCmd appends an entry to the knowledge log.
var observeCmd = &cobra.Command{
	Use:   "observe <content>",
	Short: "Record an observation in the shared knowledge log.",
	Long: `Append one observation to the knowledge log configured by --knowledge-path.

Observations feed the knowledge_sharing score: organization-wide entries weigh more
than project entries, and entries below 0.6 confidence count as corrections.

Examples:
  teampulse observe --author alice@example.com --scope org "Deploys need the VPN profile"
  teampulse observe --author "Bob" --confidence 0.5 "Cache warmup may be unnecessary"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		author, _ := cmd.Flags().GetString("author")
		scope, _ := cmd.Flags().GetString("scope")
		obs := schema.Observation{
			Author:  author,
			Content: strings.Join(args, " "),
			Scope:   scope,
		}
		if cmd.Flags().Changed("confidence") {
			confidence, _ := cmd.Flags().GetFloat64("confidence")
			obs.Confidence = &confidence
		}
		if err := core.ExecuteObserve(rootCtx, cfg, obs); err != nil {
			contract.LogFatal("Cannot record observation", err)
		}
	},
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/teampulse/core"
	"github.com/huangsam/teampulse/internal/contract"
)

// engineerCmd reports the health of one engineer.
var engineerCmd = &cobra.Command{
	Use:   "engineer <name-or-email>",
	Short: "Show one engineer's health score, breakdown and alerts.",
	Long: `Analyze one engineer from the roster and print the overall health score,
the four category scores and the alerts derived from them.

Categories:
- code_quality: fix and revert share, commit size
- knowledge_sharing: entries in the knowledge log and how others build on them
- velocity: commits per week and the change between window halves
- collaboration: shared files, reviews and issue activity

Examples:
  # Health over the default 30-day window
  teampulse engineer alice@example.com

  # Last two weeks, as JSON
  teampulse engineer "Alice Doe" --window 14 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteEngineerHealth(rootCtx, svc, args[0]); err != nil {
			contract.LogFatal("Cannot run engineer analysis", err)
		}
	},
}

// teamCmd reports team health with training and mentoring suggestions.
var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show team health, at-risk engineers, training groups and mentoring pairs.",
	Long: `Analyze every engineer on the roster and print the team overview.

Includes:
- Averages per category and the health distribution
- Engineers who need support, with their weakest categories
- High performers and their strengths
- Training groups and mentoring pairs

Examples:
  teampulse team
  teampulse team --output csv --output-file team.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runTeamExecutor("team analysis", core.ExecuteTeamInsights)
	},
}

// summaryCmd prints the daily digest.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the daily team summary.",
	Long: `Condense team health into a daily digest: critical and warning engineers,
positive trends, focus areas, training groups and mentoring pairs.

Examples:
  teampulse summary
  teampulse summary --window 7`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runTeamExecutor("daily summary", core.ExecuteDailySummary)
	},
}

// trainingCmd lists training groups.
var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "List training groups built from team alerts.",
	Long: `Group engineers with critical or warning alerts into fixed training topics.

Examples:
  teampulse training
  teampulse training --urgency high`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrainingRecommendations(rootCtx, svc, viper.GetString("urgency")); err != nil {
			contract.LogFatal("Cannot build training recommendations", err)
		}
	},
}

// mentorsCmd lists mentoring pairs.
var mentorsCmd = &cobra.Command{
	Use:   "mentors",
	Short: "List mentoring pairs between high performers and engineers who need support.",
	Long: `Pair engineers who need support with high performers that are strong in
one of their two weakest categories. Each mentor and mentee appears at most once.

Examples:
  teampulse mentors
  teampulse mentors --mentee bob@example.com`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFindMentors(rootCtx, svc, viper.GetString("mentee")); err != nil {
			contract.LogFatal("Cannot find mentors", err)
		}
	},
}

// runTeamExecutor runs one team-wide executor and exits on failure.
func runTeamExecutor(action string, fn core.ExecutorFunc) {
	if err := fn(rootCtx, svc); err != nil {
		contract.LogFatal("Cannot run "+action, err)
	}
}

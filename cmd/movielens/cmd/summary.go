package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"

	"github.com/beam-cookbook/movielens/pkg/movielens"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize how ratings spread across movies",
	RunE:  runSummary,
}

func init() {
	Root.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, func(s beam.Scope) {
		ratings := movielens.ReadRatings(s, cfg.Ratings, cfg.readOpts())
		aggs := movielens.AggregateRatings(s, ratings)
		summary := movielens.CountDistribution(s, aggs, cfg.quantileOpts())
		if cfg.Output != "" {
			movielens.WriteSummary(s, cfg.rankingPath("summary"), summary)
			return
		}
		movielens.PrintSummary(s, summary)
	})
}

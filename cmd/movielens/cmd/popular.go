package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"

	"github.com/beam-cookbook/movielens/pkg/movielens"
)

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Rank movies by rating volume",
	RunE:  runPopular,
}

func init() {
	Root.AddCommand(popularCmd)
}

func runPopular(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, func(s beam.Scope) {
		table := movielens.Report(s, cfg.params())
		ranked := movielens.MostRated(s, table, cfg.Top)
		if cfg.Output != "" {
			movielens.WriteMovieRanking(s, cfg.rankingPath("popular"), ranked, table)
			return
		}
		movielens.PrintMovieRanking(s, "most rated movies", ranked)
	})
}

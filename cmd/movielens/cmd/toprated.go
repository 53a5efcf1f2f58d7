package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"

	"github.com/beam-cookbook/movielens/pkg/movielens"
)

var topRatedCmd = &cobra.Command{
	Use:   "toprated",
	Short: "Rank movies by mean rating",
	RunE:  runTopRated,
}

func init() {
	Root.AddCommand(topRatedCmd)
}

func runTopRated(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, func(s beam.Scope) {
		table := movielens.Report(s, cfg.params())
		ranked := movielens.TopRated(s, table, cfg.Top)
		if cfg.Output != "" {
			movielens.WriteMovieRanking(s, cfg.rankingPath("toprated"), ranked, table)
			return
		}
		movielens.PrintMovieRanking(s, "top rated movies", ranked)
	})
}

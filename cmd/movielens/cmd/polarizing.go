package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"

	"github.com/beam-cookbook/movielens/pkg/movielens"
)

var polarizingCmd = &cobra.Command{
	Use:   "polarizing",
	Short: "Rank movies by rating spread",
	RunE:  runPolarizing,
}

func init() {
	Root.AddCommand(polarizingCmd)
}

func runPolarizing(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, func(s beam.Scope) {
		table := movielens.Report(s, cfg.params())
		ranked := movielens.MostPolarizing(s, table, cfg.Top)
		if cfg.Output != "" {
			movielens.WriteMovieRanking(s, cfg.rankingPath("polarizing"), ranked, table)
			return
		}
		movielens.PrintMovieRanking(s, "most polarizing movies", ranked)
	})
}

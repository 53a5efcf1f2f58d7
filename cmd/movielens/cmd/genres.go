package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"

	"github.com/beam-cookbook/movielens/pkg/movielens"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Rank genres by rating volume",
	RunE:  runGenres,
}

func init() {
	Root.AddCommand(genresCmd)
}

func runGenres(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, func(s beam.Scope) {
		ratings := movielens.ReadRatings(s, cfg.Ratings, cfg.readOpts())
		movies := movielens.ReadMovies(s, cfg.Movies, cfg.readOpts())
		genres := movielens.GenreStats(s, ratings, movies)
		ranked := movielens.TopGenres(s, genres, cfg.Top)
		if cfg.Output != "" {
			movielens.WriteGenreRanking(s, cfg.rankingPath("genres"), ranked)
			return
		}
		movielens.PrintGenreRanking(s, "most rated genres", ranked)
	})
}

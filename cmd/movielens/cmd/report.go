package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"

	"github.com/beam-cookbook/movielens/pkg/movielens"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full analysis: rankings, count summary and optional exports",
	RunE:  runReport,
}

func init() {
	Root.AddCommand(reportCmd)
}

// runReport assembles the whole graph once so the source CSVs are read
// a single time and every output derives from the same aggregates.
func runReport(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, func(s beam.Scope) {
		ratings := movielens.ReadRatings(s, cfg.Ratings, cfg.readOpts())
		movies := movielens.ReadMovies(s, cfg.Movies, cfg.readOpts())

		aggs := movielens.AggregateRatings(s, ratings)
		joined := movielens.JoinTitles(s, aggs, movies)
		table := movielens.FilterByCount(s, joined, cfg.MinRatings)

		popular := movielens.MostRated(s, table, cfg.Top)
		topRated := movielens.TopRated(s, table, cfg.Top)
		polarizing := movielens.MostPolarizing(s, table, cfg.Top)
		summary := movielens.CountDistribution(s, aggs, cfg.quantileOpts())

		if cfg.Output != "" {
			movielens.WriteMovieRanking(s, cfg.rankingPath("popular"), popular, table)
			movielens.WriteMovieRanking(s, cfg.rankingPath("toprated"), topRated, table)
			movielens.WriteMovieRanking(s, cfg.rankingPath("polarizing"), polarizing, table)
			movielens.WriteSummary(s, cfg.rankingPath("summary"), summary)
		} else {
			movielens.PrintMovieRanking(s, "most rated movies", popular)
			movielens.PrintMovieRanking(s, "top rated movies", topRated)
			movielens.PrintMovieRanking(s, "most polarizing movies", polarizing)
			movielens.PrintSummary(s, summary)
		}

		if cfg.MongoURI != "" {
			movielens.WriteMongo(s, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, table)
		}
		if cfg.Parquet != "" {
			movielens.WriteParquet(s, cfg.Parquet, table)
		}
	})
}

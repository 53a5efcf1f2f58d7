// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package movielens

import (
	"context"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/textio"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/log"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/transforms/stats"
)

func init() {
	register.DoFn2x0[context.Context, []MovieReport](&printMoviesFn{})
	register.DoFn2x0[context.Context, []GenreReport](&printGenresFn{})
	register.DoFn3x0[[]MovieReport, int, func(string)](&formatMoviesFn{})
	register.Function2x0(printSummaryFn)
	register.Function2x0(formatGenresFn)
	register.Function2x0(summaryLinesFn)
	register.Emitter1[string]()
}

// PrintMovieRanking logs a ranked top-N list under the given label.
func PrintMovieRanking(s beam.Scope, label string, ranked beam.PCollection) {
	s = s.Scope("movielens.PrintMovieRanking")
	beam.ParDo0(s, &printMoviesFn{Label: label}, ranked)
}

// PrintGenreRanking logs a ranked genre list under the given label.
func PrintGenreRanking(s beam.Scope, label string, ranked beam.PCollection) {
	s = s.Scope("movielens.PrintGenreRanking")
	beam.ParDo0(s, &printGenresFn{Label: label}, ranked)
}

// PrintSummary logs the count distribution summary.
func PrintSummary(s beam.Scope, summary beam.PCollection) {
	s = s.Scope("movielens.PrintSummary")
	beam.ParDo0(s, printSummaryFn, summary)
}

// WriteMovieRanking writes the ranked lines to path, one line per rank.
// A leading tally line reports how much of table made the ranking.
// Every line carries its rank since the sink does not preserve order.
func WriteMovieRanking(s beam.Scope, path string, ranked, table beam.PCollection) {
	s = s.Scope("movielens.WriteMovieRanking")
	n := stats.CountElms(s, table)
	lines := beam.ParDo(s, &formatMoviesFn{}, ranked, beam.SideInput{Input: n})
	textio.Write(s, path, lines)
}

// WriteGenreRanking writes the ranked genre lines to path.
func WriteGenreRanking(s beam.Scope, path string, ranked beam.PCollection) {
	s = s.Scope("movielens.WriteGenreRanking")
	textio.Write(s, path, beam.ParDo(s, formatGenresFn, ranked))
}

// WriteSummary writes the count distribution summary to path.
func WriteSummary(s beam.Scope, path string, summary beam.PCollection) {
	s = s.Scope("movielens.WriteSummary")
	textio.Write(s, path, beam.ParDo(s, summaryLinesFn, summary))
}

type printMoviesFn struct {
	Label string `json:"label"`
}

func (fn *printMoviesFn) ProcessElement(ctx context.Context, rows []MovieReport) {
	log.Infof(ctx, "%s (%d):", fn.Label, len(rows))
	for i, r := range rows {
		log.Infof(ctx, "  %s", movieLine(i+1, r))
	}
}

type printGenresFn struct {
	Label string `json:"label"`
}

func (fn *printGenresFn) ProcessElement(ctx context.Context, rows []GenreReport) {
	log.Infof(ctx, "%s (%d):", fn.Label, len(rows))
	for i, g := range rows {
		log.Infof(ctx, "  %s", genreLine(i+1, g))
	}
}

func printSummaryFn(ctx context.Context, c CountSummary) {
	log.Info(ctx, "rating count distribution:")
	for _, line := range summaryLines(c) {
		log.Infof(ctx, "  %s", line)
	}
}

// formatMoviesFn renders ranked lines plus the tally line. The table
// size arrives as a singleton side input.
type formatMoviesFn struct{}

func (fn *formatMoviesFn) ProcessElement(rows []MovieReport, total int, emit func(string)) {
	emit(fmt.Sprintf("# %d of %s movies shown", len(rows), humanize.Comma(int64(total))))
	for i, r := range rows {
		emit(movieLine(i+1, r))
	}
}

func formatGenresFn(rows []GenreReport, emit func(string)) {
	for i, g := range rows {
		emit(genreLine(i+1, g))
	}
}

func summaryLinesFn(c CountSummary, emit func(string)) {
	for _, line := range summaryLines(c) {
		emit(line)
	}
}

func movieLine(rank int, r MovieReport) string {
	return fmt.Sprintf("%d. %s: %s ratings, mean %.2f, stddev %s",
		rank, r.Title, humanize.Comma(r.Count), r.Mean, fmtStdDev(r.StdDev))
}

func genreLine(rank int, g GenreReport) string {
	return fmt.Sprintf("%d. %s: %s ratings, mean %.2f, stddev %s",
		rank, g.Genre, humanize.Comma(g.Count), g.Mean, fmtStdDev(g.StdDev))
}

func summaryLines(c CountSummary) []string {
	return []string{
		fmt.Sprintf("movies: %s", humanize.Comma(c.Movies)),
		fmt.Sprintf("ratings: %s", humanize.Comma(c.Ratings)),
		fmt.Sprintf("ratings per movie: mean %.2f, min %s, max %s",
			c.MeanCount, humanize.Comma(c.MinCount), humanize.Comma(c.MaxCount)),
		fmt.Sprintf("count quartiles: q1 %s, median %s, q3 %s",
			humanize.Comma(c.Q1), humanize.Comma(c.Median), humanize.Comma(c.Q3)),
	}
}

// fmtStdDev renders an undefined deviation as n/a.
func fmtStdDev(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

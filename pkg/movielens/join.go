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

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
)

func init() {
	register.Function1x2(keyStatsFn)
	register.Function1x2(keyMovieFn)
	register.DoFn5x0[context.Context, int64, func(*MovieStats) bool, func(*Movie) bool, func(MovieReport)](&joinReportFn{})
	register.Emitter1[MovieReport]()
	register.Iter1[MovieStats]()
	register.Iter1[Movie]()
}

// JoinTitles attaches catalog metadata to per-movie statistics with an
// inner join on movie id: statistics for movies missing from the
// catalog and catalog movies without statistics are both dropped. It
// takes a PCollection<MovieStats> and a PCollection<Movie> and returns
// a PCollection<MovieReport>.
func JoinTitles(s beam.Scope, stats, movies beam.PCollection) beam.PCollection {
	s = s.Scope("movielens.JoinTitles")

	joined := beam.CoGroupByKey(s,
		beam.ParDo(s, keyStatsFn, stats),
		beam.ParDo(s, keyMovieFn, movies))
	return beam.ParDo(s, &joinReportFn{}, joined)
}

func keyStatsFn(ms MovieStats) (int64, MovieStats) {
	return ms.MovieID, ms
}

func keyMovieFn(m Movie) (int64, Movie) {
	return m.MovieID, m
}

// joinReportFn emits one MovieReport per movie id present on both
// sides. A catalog id listed more than once keeps its first row; the
// extras are counted in duplicate_movie_rows.
type joinReportFn struct {
	dups beam.Counter
}

func (fn *joinReportFn) StartBundle(_ func(MovieReport)) {
	fn.dups = beam.NewCounter("movielens", "duplicate_movie_rows")
}

func (fn *joinReportFn) ProcessElement(ctx context.Context, id int64, stats func(*MovieStats) bool, movies func(*Movie) bool, emit func(MovieReport)) {
	var m Movie
	if !movies(&m) {
		return // rated but not in the catalog
	}
	var extra Movie
	for movies(&extra) {
		fn.dups.Inc(ctx, 1)
	}

	var ms MovieStats
	for stats(&ms) {
		emit(MovieReport{
			MovieID: id,
			Title:   m.Title,
			Year:    m.Year,
			Genres:  m.Genres,
			Count:   ms.Count,
			Mean:    ms.Mean,
			StdDev:  ms.StdDev,
		})
	}
}

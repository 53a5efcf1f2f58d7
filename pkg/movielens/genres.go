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
	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/transforms/filter"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/transforms/top"
)

func init() {
	register.Function1x1(hasGenres)
	register.Function1x2(keyGenresFn)
	register.Function4x0(explodeGenresFn)
	register.Function2x1(genreRowFn)
	register.Function2x1(byGenreCount)
	register.Emitter2[string, float64]()
	register.Iter1[float64]()
	register.Iter1[[]string]()
}

// GenreStats computes the rating distribution of every genre label. A
// rating contributes once per genre of its movie, so the per-genre
// counts overlap; ratings for movies outside the catalog or without
// genre labels contribute nothing. It takes a PCollection<Rating> and a
// PCollection<Movie> and returns a PCollection<GenreReport>.
func GenreStats(s beam.Scope, ratings, movies beam.PCollection) beam.PCollection {
	s = s.Scope("movielens.GenreStats")

	labeled := filter.Include(s, movies, hasGenres)
	joined := beam.CoGroupByKey(s,
		beam.ParDo(s, keyRatingFn, ratings),
		beam.ParDo(s, keyGenresFn, labeled))
	// <movieId,{ratings,genres}>... => <genre,rating>... => <genre,dist>...
	byGenre := beam.ParDo(s, explodeGenresFn, joined)
	combined := beam.CombinePerKey(s, &ratingStatsFn{}, byGenre)
	return beam.ParDo(s, genreRowFn, combined)
}

// TopGenres returns the n genres with the most ratings as a
// single-element PCollection<[]GenreReport>, best first.
func TopGenres(s beam.Scope, genres beam.PCollection, n int) beam.PCollection {
	s = s.Scope("movielens.TopGenres")
	return top.Largest(s, genres, n, byGenreCount)
}

func hasGenres(m Movie) bool {
	return len(m.Genres) > 0
}

func keyGenresFn(m Movie) (int64, []string) {
	return m.MovieID, m.Genres
}

// explodeGenresFn fans each of a movie's ratings out to its genre
// labels. The genre list is read first since each iterator can only be
// walked once.
func explodeGenresFn(movieID int64, ratings func(*float64) bool, genres func(*[]string) bool, emit func(string, float64)) {
	var gs []string
	if !genres(&gs) {
		return // rated but not in the catalog
	}
	var r float64
	for ratings(&r) {
		for _, g := range gs {
			emit(g, r)
		}
	}
}

func genreRowFn(genre string, d ratingDist) GenreReport {
	return GenreReport{Genre: genre, Count: d.Count, Mean: d.Mean, StdDev: d.StdDev}
}

// byGenreCount orders genres by rating volume, ties by name.
func byGenreCount(a, b GenreReport) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Genre > b.Genre
}

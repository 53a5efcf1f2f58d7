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
	"math"
	"testing"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/testing/passert"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/testing/ptest"
)

func init() {
	register.Function1x1(genreNamesFn)
}

func genreNamesFn(rows []GenreReport) []string {
	names := make([]string, 0, len(rows))
	for _, g := range rows {
		names = append(names, g.Genre)
	}
	return names
}

func TestGenreStats(t *testing.T) {
	movies := []Movie{
		{MovieID: 1, Title: "A", Genres: []string{"Comedy"}},
		{MovieID: 2, Title: "B", Genres: []string{"Comedy", "Drama"}},
		{MovieID: 3, Title: "C"}, // no genre labels
	}
	ratings := []Rating{
		{UserID: 1, MovieID: 1, Rating: 4},
		{UserID: 1, MovieID: 2, Rating: 2},
		{UserID: 2, MovieID: 2, Rating: 3},
		{UserID: 1, MovieID: 3, Rating: 5},
		{UserID: 1, MovieID: 9, Rating: 1}, // not in the catalog
	}

	p, s := beam.NewPipelineWithRoot()
	got := GenreStats(s, beam.CreateList(s, ratings), beam.CreateList(s, movies))

	// Comedy sees [4 2 3], Drama sees [2 3]. Movies 3 and 9 contribute
	// nothing.
	passert.Equals(s, got,
		GenreReport{Genre: "Comedy", Count: 3, Mean: 3, StdDev: 1},
		GenreReport{Genre: "Drama", Count: 2, Mean: 2.5, StdDev: math.Sqrt(0.5)},
	)
	ptest.RunAndValidate(t, p)
}

func TestTopGenres(t *testing.T) {
	genres := []GenreReport{
		{Genre: "Drama", Count: 4},
		{Genre: "Comedy", Count: 4},
		{Genre: "Horror", Count: 9},
	}

	p, s := beam.NewPipelineWithRoot()
	ranked := TopGenres(s, beam.CreateList(s, genres), 3)

	// Comedy and Drama tie on count and fall back to name order.
	passert.Equals(s, beam.ParDo(s, genreNamesFn, ranked), []string{"Horror", "Comedy", "Drama"})
	ptest.RunAndValidate(t, p)
}

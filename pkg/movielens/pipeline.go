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
)

// Params carries the knobs shared by the full report pipeline.
type Params struct {
	// RatingsGlob and MoviesGlob match the input CSV files.
	RatingsGlob string
	MoviesGlob  string
	// MinRatings is the exclusive rating count threshold; reports with
	// exactly this many ratings are cut.
	MinRatings int
	// SkipBadRows tolerates undecodable CSV rows instead of failing.
	SkipBadRows bool
}

// Report builds the core analysis graph: ingestion, per-movie
// aggregation, the catalog join and the threshold filter. It returns
// the filtered PCollection<MovieReport> for the rankings to cut from.
func Report(s beam.Scope, p Params) beam.PCollection {
	s = s.Scope("movielens.Report")

	opts := ReadOpts{SkipBadRows: p.SkipBadRows}
	ratings := ReadRatings(s, p.RatingsGlob, opts)
	movies := ReadMovies(s, p.MoviesGlob, opts)
	aggs := AggregateRatings(s, ratings)
	joined := JoinTitles(s, aggs, movies)
	return FilterByCount(s, joined, p.MinRatings)
}

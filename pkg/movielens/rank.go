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

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/transforms/top"
)

func init() {
	register.DoFn2x0[MovieReport, func(MovieReport)](&minCountFn{})
	register.Function2x1(byCount)
	register.Function2x1(byMean)
	register.Function2x1(byStdDev)
}

// FilterByCount keeps the reports with strictly more than min ratings.
// A movie with exactly min ratings is cut.
func FilterByCount(s beam.Scope, reports beam.PCollection, min int) beam.PCollection {
	s = s.Scope("movielens.FilterByCount")
	return beam.ParDo(s, &minCountFn{Min: int64(min)}, reports)
}

// minCountFn drops reports at or below the Min rating count.
type minCountFn struct {
	Min int64 `json:"min"`
}

func (fn *minCountFn) ProcessElement(r MovieReport, emit func(MovieReport)) {
	if r.Count > fn.Min {
		emit(r)
	}
}

// MostRated returns the n reports with the highest rating counts as a
// single-element PCollection<[]MovieReport>, best first. When fewer
// than n reports exist the whole table comes back sorted.
func MostRated(s beam.Scope, reports beam.PCollection, n int) beam.PCollection {
	s = s.Scope("movielens.MostRated")
	return top.Largest(s, reports, n, byCount)
}

// TopRated returns the n reports with the highest mean rating, best
// first.
func TopRated(s beam.Scope, reports beam.PCollection, n int) beam.PCollection {
	s = s.Scope("movielens.TopRated")
	return top.Largest(s, reports, n, byMean)
}

// MostPolarizing returns the n reports with the highest rating standard
// deviation, best first. Reports whose deviation is undefined rank
// below every defined one.
func MostPolarizing(s beam.Scope, reports beam.PCollection, n int) beam.PCollection {
	s = s.Scope("movielens.MostPolarizing")
	return top.Largest(s, reports, n, byStdDev)
}

// The ranking comparators are written for top.Largest: the largest
// element under the ordering ranks first. Ties fall back to the rating
// count and then to ascending movie id, so equal rows always come back
// in the same order.

func byCount(a, b MovieReport) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.MovieID > b.MovieID
}

func byMean(a, b MovieReport) bool {
	if a.Mean != b.Mean {
		return a.Mean < b.Mean
	}
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.MovieID > b.MovieID
}

func byStdDev(a, b MovieReport) bool {
	as, bs := definedStdDev(a), definedStdDev(b)
	if as != bs {
		return as < bs
	}
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.MovieID > b.MovieID
}

// definedStdDev stands in NaN deviations with -Inf so the comparators
// stay total.
func definedStdDev(r MovieReport) float64 {
	if math.IsNaN(r.StdDev) {
		return math.Inf(-1)
	}
	return r.StdDev
}

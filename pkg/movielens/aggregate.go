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
	"reflect"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
)

func init() {
	register.Function1x2(keyRatingFn)
	register.Function2x1(statsRowFn)
	register.Combiner3[ratingAccum, float64, ratingDist](&ratingStatsFn{})
	beam.RegisterType(reflect.TypeOf((*ratingAccum)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*ratingDist)(nil)).Elem())
}

// AggregateRatings computes the rating count, mean and sample standard
// deviation of every movie in a single combiner pass. It takes a
// PCollection<Rating> and returns a PCollection<MovieStats>.
func AggregateRatings(s beam.Scope, ratings beam.PCollection) beam.PCollection {
	s = s.Scope("movielens.AggregateRatings")

	// Rating... => <movieId,rating>... => <movieId,dist>... => MovieStats...
	keyed := beam.ParDo(s, keyRatingFn, ratings)
	combined := beam.CombinePerKey(s, &ratingStatsFn{}, keyed)
	return beam.ParDo(s, statsRowFn, combined)
}

func keyRatingFn(r Rating) (int64, float64) {
	return r.MovieID, r.Rating
}

func statsRowFn(movieID int64, d ratingDist) MovieStats {
	return MovieStats{MovieID: movieID, Count: d.Count, Mean: d.Mean, StdDev: d.StdDev}
}

// ratingAccum is the mergeable state of ratingStatsFn: the count, sum
// and sum of squares of the ratings folded in so far.
type ratingAccum struct {
	Count int64
	Sum   float64
	SumSq float64
}

// ratingDist is the extracted distribution of one key's ratings.
type ratingDist struct {
	Count  int64
	Mean   float64
	StdDev float64
}

// ratingStatsFn reduces ratings to their count, mean and sample
// standard deviation. The deviation uses the n-1 divisor and comes out
// NaN for keys with fewer than two ratings.
type ratingStatsFn struct{}

func (fn *ratingStatsFn) CreateAccumulator() ratingAccum {
	return ratingAccum{}
}

func (fn *ratingStatsFn) AddInput(a ratingAccum, r float64) ratingAccum {
	a.Count++
	a.Sum += r
	a.SumSq += r * r
	return a
}

func (fn *ratingStatsFn) MergeAccumulators(a, b ratingAccum) ratingAccum {
	return ratingAccum{Count: a.Count + b.Count, Sum: a.Sum + b.Sum, SumSq: a.SumSq + b.SumSq}
}

func (fn *ratingStatsFn) ExtractOutput(a ratingAccum) ratingDist {
	d := ratingDist{Count: a.Count, StdDev: math.NaN()}
	if a.Count == 0 {
		return d
	}
	n := float64(a.Count)
	d.Mean = a.Sum / n
	if a.Count < 2 {
		return d
	}
	// Raw-moment variance can come out a hair below zero for
	// near-constant ratings.
	v := (a.SumSq - a.Sum*a.Sum/n) / (n - 1)
	if v < 0 {
		v = 0
	}
	d.StdDev = math.Sqrt(v)
	return d
}

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
	"reflect"
	"sort"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/transforms/stats"
)

func init() {
	register.Function1x1(ratingCountFn)
	register.Function2x1(lessInt64)
	register.Function3x1(buildSummaryFn)
	register.Combiner3[countMoments, int64, countMoments](&countMomentsFn{})
	register.Combiner3[quartileAccum, int64, []int64](&exactQuartilesFn{})
	register.Iter1[countMoments]()
	register.Iter1[[]int64]()
	beam.RegisterType(reflect.TypeOf((*countMoments)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*quartileAccum)(nil)).Elem())
}

// QuantileOpts selects how the count quartiles are computed.
type QuantileOpts struct {
	// Exact gathers every per-movie count on a single worker and cuts
	// the sorted list. The default is a mergeable approximation sketch
	// that never materializes the full distribution.
	Exact bool
	// K tunes the sketch size and with it the approximation error.
	// Zero means 1024, which is exact for distributions with fewer
	// distinct movies than that.
	K int
}

const defaultQuantileK = 1024

// CountDistribution summarizes how ratings spread across movies: the
// movie and rating totals, the mean, min and max per-movie count, and
// the quartile cuts of the count distribution. It takes a
// PCollection<MovieStats> and returns a single-element
// PCollection<CountSummary>. An empty input produces the zero summary.
func CountDistribution(s beam.Scope, rows beam.PCollection, opts QuantileOpts) beam.PCollection {
	s = s.Scope("movielens.CountDistribution")

	// MovieStats... => count... => one summary row
	counts := beam.ParDo(s, ratingCountFn, rows)
	moments := beam.Combine(s, &countMomentsFn{}, counts)

	var quartiles beam.PCollection
	if opts.Exact {
		quartiles = beam.Combine(s, &exactQuartilesFn{}, counts)
	} else {
		k := opts.K
		if k <= 0 {
			k = defaultQuantileK
		}
		quartiles = stats.ApproximateQuantiles(s, counts, lessInt64, stats.Opts{K: k, NumQuantiles: 4})
	}

	return beam.ParDo(s, buildSummaryFn, beam.Impulse(s),
		beam.SideInput{Input: moments},
		beam.SideInput{Input: quartiles})
}

func ratingCountFn(ms MovieStats) int64 {
	return ms.Count
}

func lessInt64(a, b int64) bool {
	return a < b
}

// countMoments carries the movie and rating totals plus the count
// extremes. The zero value doubles as the empty-input output.
type countMoments struct {
	Movies  int64
	Ratings int64
	Min     int64
	Max     int64
}

// countMomentsFn folds per-movie counts into countMoments in one pass.
type countMomentsFn struct{}

func (fn *countMomentsFn) CreateAccumulator() countMoments {
	return countMoments{}
}

func (fn *countMomentsFn) AddInput(a countMoments, c int64) countMoments {
	if a.Movies == 0 {
		a.Min, a.Max = c, c
	} else {
		if c < a.Min {
			a.Min = c
		}
		if c > a.Max {
			a.Max = c
		}
	}
	a.Movies++
	a.Ratings += c
	return a
}

func (fn *countMomentsFn) MergeAccumulators(a, b countMoments) countMoments {
	if a.Movies == 0 {
		return b
	}
	if b.Movies == 0 {
		return a
	}
	if b.Min < a.Min {
		a.Min = b.Min
	}
	if b.Max > a.Max {
		a.Max = b.Max
	}
	a.Movies += b.Movies
	a.Ratings += b.Ratings
	return a
}

func (fn *countMomentsFn) ExtractOutput(a countMoments) countMoments {
	return a
}

// quartileAccum collects every count, one per movie, so the quartiles
// can be cut without approximation.
type quartileAccum struct {
	Counts []int64
}

// exactQuartilesFn emits the three quartile cuts of the sorted counts.
// Each cut is the value at rank ceil(q*n/4), the same rank convention
// the approximation sketch uses, so the two modes agree whenever the
// sketch is exact.
type exactQuartilesFn struct{}

func (fn *exactQuartilesFn) CreateAccumulator() quartileAccum {
	return quartileAccum{}
}

func (fn *exactQuartilesFn) AddInput(a quartileAccum, c int64) quartileAccum {
	a.Counts = append(a.Counts, c)
	return a
}

func (fn *exactQuartilesFn) MergeAccumulators(a, b quartileAccum) quartileAccum {
	a.Counts = append(a.Counts, b.Counts...)
	return a
}

func (fn *exactQuartilesFn) ExtractOutput(a quartileAccum) []int64 {
	n := len(a.Counts)
	if n == 0 {
		return nil
	}
	sort.Slice(a.Counts, func(i, j int) bool { return a.Counts[i] < a.Counts[j] })
	cuts := make([]int64, 0, 3)
	for q := 1; q <= 3; q++ {
		cuts = append(cuts, a.Counts[(q*n+3)/4-1])
	}
	return cuts
}

// buildSummaryFn merges the moments and quartile side inputs into the
// final row. Both arrive as iterators because either can be empty when
// no ratings were read.
func buildSummaryFn(_ []byte, moments func(*countMoments) bool, quartiles func(*[]int64) bool) CountSummary {
	var out CountSummary
	var m countMoments
	if moments(&m) && m.Movies > 0 {
		out.Movies = m.Movies
		out.Ratings = m.Ratings
		out.MeanCount = float64(m.Ratings) / float64(m.Movies)
		out.MinCount = m.Min
		out.MaxCount = m.Max
	}
	var qs []int64
	if quartiles(&qs) && len(qs) > 0 {
		switch len(qs) {
		case 3:
			out.Q1, out.Median, out.Q3 = qs[0], qs[1], qs[2]
		default:
			// The sketch can return fewer cuts than asked for on tiny
			// inputs.
			out.Q1, out.Median, out.Q3 = qs[0], qs[len(qs)/2], qs[len(qs)-1]
		}
	}
	return out
}

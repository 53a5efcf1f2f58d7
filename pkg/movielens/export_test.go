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

	"github.com/google/go-cmp/cmp"
)

func TestMovieDocFn(t *testing.T) {
	stddev := 0.92
	got := movieDocFn(MovieReport{
		MovieID: 356,
		Title:   "Forrest Gump (1994)",
		Year:    1994,
		Genres:  []string{"Comedy", "Drama"},
		Count:   81491,
		Mean:    4.05,
		StdDev:  stddev,
	})
	want := movieDoc{
		MovieID: 356,
		Title:   "Forrest Gump (1994)",
		Year:    1994,
		Genres:  []string{"Comedy", "Drama"},
		Count:   81491,
		Mean:    4.05,
		StdDev:  &stddev,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("movieDocFn diff (-want +got):\n%v", d)
	}
}

func TestMovieDocFnUndefinedStdDev(t *testing.T) {
	got := movieDocFn(MovieReport{MovieID: 1, Title: "Cosmos", Count: 1, Mean: 5, StdDev: math.NaN()})
	if got.StdDev != nil {
		t.Errorf("StdDev = %v, want nil for an undefined deviation", *got.StdDev)
	}
}

func TestReportRecordFn(t *testing.T) {
	stddev := 0.5
	got := reportRecordFn(MovieReport{
		MovieID: 2,
		Title:   "Jumanji (1995)",
		Year:    1995,
		Genres:  []string{"Adventure", "Children", "Fantasy"},
		Count:   2,
		Mean:    4,
		StdDev:  stddev,
	})
	want := reportRecord{
		MovieID: 2,
		Title:   "Jumanji (1995)",
		Year:    1995,
		Genres:  "Adventure|Children|Fantasy",
		Count:   2,
		Mean:    4,
		StdDev:  &stddev,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("reportRecordFn diff (-want +got):\n%v", d)
	}
}

func TestReportRecordFnNoGenres(t *testing.T) {
	got := reportRecordFn(MovieReport{MovieID: 6, Title: "La Haine (1995)", Count: 2, Mean: 3.5, StdDev: math.NaN()})
	if got.Genres != "" {
		t.Errorf("Genres = %q, want empty for a movie without labels", got.Genres)
	}
	if got.StdDev != nil {
		t.Errorf("StdDev = %v, want nil for an undefined deviation", *got.StdDev)
	}
}

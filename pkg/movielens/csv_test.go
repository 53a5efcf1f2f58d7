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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/testing/passert"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/testing/ptest"
)

func TestReadRatings(t *testing.T) {
	// The second row ends in \r to mimic a CRLF file; the blank line is
	// skipped.
	path := writeInput(t, "ratings.csv",
		"userId,movieId,rating,timestamp\n"+
			"1,10,4.5,1147880044\n"+
			"2,10,0.5,1147880045\r\n"+
			"\n"+
			"1,20,3.0,1147880046\n")

	p, s := beam.NewPipelineWithRoot()
	got := ReadRatings(s, path, ReadOpts{})
	passert.Equals(s, got,
		Rating{UserID: 1, MovieID: 10, Rating: 4.5, Timestamp: 1147880044},
		Rating{UserID: 2, MovieID: 10, Rating: 0.5, Timestamp: 1147880045},
		Rating{UserID: 1, MovieID: 20, Rating: 3.0, Timestamp: 1147880046},
	)
	ptest.RunAndValidate(t, p)
}

func TestReadRatingsStrict(t *testing.T) {
	path := writeInput(t, "ratings.csv",
		"1,10,4.5,1147880044\n"+
			"1,10,not-a-rating,1147880045\n")

	p, s := beam.NewPipelineWithRoot()
	ReadRatings(s, path, ReadOpts{})
	if err := ptest.Run(p); err == nil {
		t.Fatal("ptest.Run succeeded, want parse failure")
	}
}

func TestReadRatingsSkipBadRows(t *testing.T) {
	path := writeInput(t, "ratings.csv",
		"1,10,4.5,1147880044\n"+
			"1,10,not-a-rating,1147880045\n"+
			"1,10,4.0\n"+
			"2,20,2.5,1147880046\n")

	p, s := beam.NewPipelineWithRoot()
	got := ReadRatings(s, path, ReadOpts{SkipBadRows: true})
	passert.Equals(s, got,
		Rating{UserID: 1, MovieID: 10, Rating: 4.5, Timestamp: 1147880044},
		Rating{UserID: 2, MovieID: 20, Rating: 2.5, Timestamp: 1147880046},
	)

	pr := ptest.RunAndValidate(t, p)
	qr := pr.Metrics().Query(func(mr beam.MetricResult) bool {
		return mr.Name() == "bad_rating_rows"
	})
	if got, want := len(qr.Counters()), 1; got != want {
		t.Fatalf("Metrics().Query(by Name = bad_rating_rows) = %v counters, want %v", got, want)
	}
	if got, want := qr.Counters()[0].Result(), int64(2); got != want {
		t.Errorf("bad_rating_rows = %v, want %v", got, want)
	}
}

func TestReadMovies(t *testing.T) {
	path := writeInput(t, "movies.csv",
		"movieId,title,genres\n"+
			"11,\"American President, The (1995)\",Comedy|Drama|Romance\n"+
			"12,La Haine (1995),(no genres listed)\n"+
			"13,Cosmos,Documentary\n")

	p, s := beam.NewPipelineWithRoot()
	got := ReadMovies(s, path, ReadOpts{})
	passert.Equals(s, got,
		Movie{MovieID: 11, Title: "American President, The (1995)", Year: 1995, Genres: []string{"Comedy", "Drama", "Romance"}},
		Movie{MovieID: 12, Title: "La Haine (1995)", Year: 1995},
		Movie{MovieID: 13, Title: "Cosmos", Year: 0, Genres: []string{"Documentary"}},
	)
	ptest.RunAndValidate(t, p)
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		skip    bool
		wantErr bool
	}{
		{name: "plain", line: "1,2,3", want: []string{"1", "2", "3"}},
		{name: "quoted comma", line: `1,"a, b",c`, want: []string{"1", "a, b", "c"}},
		{name: "crlf", line: "1,2,3\r", want: []string{"1", "2", "3"}},
		{name: "header", line: "movieId,title,genres", skip: true},
		{name: "blank", line: "   ", skip: true},
		{name: "too few columns", line: "1,2", wantErr: true},
		{name: "unterminated quote", line: `1,"oops,3`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, skip, err := splitRow(tc.line, 3, "movieId")
			if (err != nil) != tc.wantErr {
				t.Fatalf("splitRow(%q) err = %v, wantErr %v", tc.line, err, tc.wantErr)
			}
			if skip != tc.skip {
				t.Fatalf("splitRow(%q) skip = %v, want %v", tc.line, skip, tc.skip)
			}
			if err != nil || skip {
				return
			}
			if d := cmp.Diff(tc.want, got); d != "" {
				t.Errorf("splitRow(%q) diff (-want +got):\n%v", tc.line, d)
			}
		})
	}
}

func TestTitleYear(t *testing.T) {
	tests := []struct {
		title string
		want  int32
	}{
		{"Heat (1995)", 1995},
		{"Antonia's Line (Antonia) (1995)", 1995},
		{"Cosmos", 0},
		{"Heat (1995) ", 1995},
		{"(500) Days of Summer (2009)", 2009},
	}
	for _, tc := range tests {
		if got := titleYear(tc.title); got != tc.want {
			t.Errorf("titleYear(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

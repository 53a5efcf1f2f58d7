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
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/textio"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/log"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
)

func init() {
	register.DoFn3x1[context.Context, string, func(Rating), error](&parseRatingFn{})
	register.DoFn3x1[context.Context, string, func(Movie), error](&parseMovieFn{})
	register.Emitter1[Rating]()
	register.Emitter1[Movie]()
}

// ReadOpts controls how CSV rows that fail to parse are handled.
type ReadOpts struct {
	// SkipBadRows drops rows that fail to parse and counts them in the
	// bad_rating_rows and bad_movie_rows counters instead of failing
	// the pipeline.
	SkipBadRows bool
}

// ReadRatings reads the ratings CSV files matching glob and parses each
// data row. Header lines are recognized by content and skipped, so
// globs over multiple shards work regardless of which shard carries the
// header. It returns a PCollection<Rating>.
func ReadRatings(s beam.Scope, glob string, opts ReadOpts) beam.PCollection {
	s = s.Scope("movielens.ReadRatings")

	// file... => line... => Rating...
	lines := textio.Read(s, glob)
	return beam.ParDo(s, &parseRatingFn{Lenient: opts.SkipBadRows}, lines)
}

// ReadMovies reads the movie catalog CSV files matching glob. It
// returns a PCollection<Movie>.
func ReadMovies(s beam.Scope, glob string, opts ReadOpts) beam.PCollection {
	s = s.Scope("movielens.ReadMovies")

	lines := textio.Read(s, glob)
	return beam.ParDo(s, &parseMovieFn{Lenient: opts.SkipBadRows}, lines)
}

// parseRatingFn parses one ratings.csv line: userId,movieId,rating,timestamp.
type parseRatingFn struct {
	Lenient bool `json:"lenient"`

	bad beam.Counter
}

func (fn *parseRatingFn) StartBundle(_ func(Rating)) {
	fn.bad = beam.NewCounter("movielens", "bad_rating_rows")
}

func (fn *parseRatingFn) ProcessElement(ctx context.Context, line string, emit func(Rating)) error {
	fields, skip, err := splitRow(line, 4, "userId")
	if skip {
		return nil
	}
	var r Rating
	if err == nil {
		r, err = parseRating(fields)
	}
	if err != nil {
		if fn.Lenient {
			fn.bad.Inc(ctx, 1)
			log.Warnf(ctx, "dropping bad ratings row %q: %v", line, err)
			return nil
		}
		return fmt.Errorf("bad ratings row %q: %v", line, err)
	}
	emit(r)
	return nil
}

func parseRating(fields []string) (Rating, error) {
	user, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Rating{}, err
	}
	movie, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Rating{}, err
	}
	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Rating{}, err
	}
	ts, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Rating{}, err
	}
	return Rating{UserID: user, MovieID: movie, Rating: value, Timestamp: ts}, nil
}

// parseMovieFn parses one movies.csv line: movieId,title,genres. Titles
// may be quoted and contain commas; genres are pipe-delimited.
type parseMovieFn struct {
	Lenient bool `json:"lenient"`

	bad beam.Counter
}

func (fn *parseMovieFn) StartBundle(_ func(Movie)) {
	fn.bad = beam.NewCounter("movielens", "bad_movie_rows")
}

func (fn *parseMovieFn) ProcessElement(ctx context.Context, line string, emit func(Movie)) error {
	fields, skip, err := splitRow(line, 3, "movieId")
	if skip {
		return nil
	}
	var m Movie
	if err == nil {
		m, err = parseMovie(fields)
	}
	if err != nil {
		if fn.Lenient {
			fn.bad.Inc(ctx, 1)
			log.Warnf(ctx, "dropping bad movies row %q: %v", line, err)
			return nil
		}
		return fmt.Errorf("bad movies row %q: %v", line, err)
	}
	emit(m)
	return nil
}

func parseMovie(fields []string) (Movie, error) {
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Movie{}, err
	}
	title := fields[1]
	return Movie{
		MovieID: id,
		Title:   title,
		Year:    titleYear(title),
		Genres:  splitGenres(fields[2]),
	}, nil
}

// noGenres is the sentinel movies.csv uses for an empty genre list.
const noGenres = "(no genres listed)"

// yearRE matches the release year MovieLens appends to titles, as in
// "Heat (1995)".
var yearRE = regexp.MustCompile(`\((\d{4})\)\s*$`)

// titleYear extracts the trailing release year of a title, or 0 when
// the title carries none.
func titleYear(title string) int32 {
	m := yearRE.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return int32(y)
}

func splitGenres(field string) []string {
	if field == "" || field == noGenres {
		return nil
	}
	return strings.Split(field, "|")
}

// splitRow splits one CSV line into exactly want fields. It reports
// skip for blank lines and for the header line, recognized by its first
// column name. textio keeps the trailing \r of CRLF files, so it is
// trimmed here.
func splitRow(line string, want int, header string) (fields []string, skip bool, err error) {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, true, nil
	}
	// Quoted fields are rare outside movie titles, so plain rows skip
	// the csv reader.
	if strings.Contains(line, `"`) {
		r := csv.NewReader(strings.NewReader(line))
		fields, err = r.Read()
		if err != nil {
			return nil, false, err
		}
	} else {
		fields = strings.Split(line, ",")
	}
	if strings.EqualFold(fields[0], header) {
		return nil, true, nil
	}
	if len(fields) != want {
		return nil, false, fmt.Errorf("got %d columns, want %d", len(fields), want)
	}
	return fields, false, nil
}

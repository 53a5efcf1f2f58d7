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

// Package movielens contains composite Beam transforms that profile the
// MovieLens ratings dataset: CSV ingestion, per-movie rating statistics,
// a join against the movie catalog, threshold filtering, rankings and a
// summary of how ratings spread across movies.
//
// The transforms compose freely; the movielens command wires them into
// runnable pipelines. See https://grouplens.org/datasets/movielens/ for
// the dataset itself.
package movielens

import (
	"reflect"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
)

func init() {
	beam.RegisterType(reflect.TypeOf((*Rating)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*Movie)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*MovieStats)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*MovieReport)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*GenreReport)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*CountSummary)(nil)).Elem())
}

// Rating is one row of ratings.csv: a single user scoring a single
// movie on the 0.5 to 5.0 star scale.
type Rating struct {
	UserID    int64
	MovieID   int64
	Rating    float64
	Timestamp int64
}

// Movie is one row of movies.csv. Title is kept verbatim, including
// the trailing release year; Year holds that year when present and is
// zero otherwise. Genres is nil for movies with no genre labels.
type Movie struct {
	MovieID int64
	Title   string
	Year    int32
	Genres  []string
}

// MovieStats holds the rating distribution of one movie. StdDev is the
// sample standard deviation and is NaN when fewer than two ratings
// exist.
type MovieStats struct {
	MovieID int64
	Count   int64
	Mean    float64
	StdDev  float64
}

// MovieReport is a MovieStats row joined with its catalog metadata.
type MovieReport struct {
	MovieID int64
	Title   string
	Year    int32
	Genres  []string
	Count   int64
	Mean    float64
	StdDev  float64
}

// GenreReport holds the rating distribution of one genre label.
type GenreReport struct {
	Genre  string
	Count  int64
	Mean   float64
	StdDev float64
}

// CountSummary describes how ratings spread across movies. The
// quartiles are cut from the sorted per-movie rating counts, so each is
// an observed count rather than an interpolated value.
type CountSummary struct {
	Movies    int64
	Ratings   int64
	MeanCount float64
	MinCount  int64
	MaxCount  int64
	Q1        int64
	Median    int64
	Q3        int64
}

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
	"strings"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/mongodbio"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/parquetio"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"
)

func init() {
	register.Function1x1(movieDocFn)
	register.Function1x1(reportRecordFn)
	beam.RegisterType(reflect.TypeOf((*movieDoc)(nil)).Elem())
	beam.RegisterType(reflect.TypeOf((*reportRecord)(nil)).Elem())
}

// WriteMongo upserts the report table into a MongoDB collection, one
// document per movie keyed by movie id. An undefined deviation is
// stored as null.
func WriteMongo(s beam.Scope, uri, database, collection string, reports beam.PCollection) {
	s = s.Scope("movielens.WriteMongo")
	docs := beam.ParDo(s, movieDocFn, reports)
	mongodbio.Write(s, uri, database, collection, docs)
}

// WriteParquet writes the report table to a parquet file with a flat
// schema. Genre labels are pipe-joined to keep the schema flat.
func WriteParquet(s beam.Scope, path string, reports beam.PCollection) {
	s = s.Scope("movielens.WriteParquet")
	records := beam.ParDo(s, reportRecordFn, reports)
	parquetio.Write(s, path, reflect.TypeOf(reportRecord{}), records)
}

// movieDoc is the MongoDB document layout. The movie id doubles as the
// document id so re-running an export overwrites rather than duplicates.
type movieDoc struct {
	MovieID int64    `bson:"_id"`
	Title   string   `bson:"title"`
	Year    int32    `bson:"year,omitempty"`
	Genres  []string `bson:"genres,omitempty"`
	Count   int64    `bson:"ratingCount"`
	Mean    float64  `bson:"meanRating"`
	StdDev  *float64 `bson:"stddevRating"`
}

func movieDocFn(r MovieReport) movieDoc {
	return movieDoc{
		MovieID: r.MovieID,
		Title:   r.Title,
		Year:    r.Year,
		Genres:  r.Genres,
		Count:   r.Count,
		Mean:    r.Mean,
		StdDev:  nullableStdDev(r.StdDev),
	}
}

type reportRecord struct {
	MovieID int64    `parquet:"name=movie_id, type=INT64"`
	Title   string   `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year    int32    `parquet:"name=year, type=INT32"`
	Genres  string   `parquet:"name=genres, type=BYTE_ARRAY, convertedtype=UTF8"`
	Count   int64    `parquet:"name=rating_count, type=INT64"`
	Mean    float64  `parquet:"name=mean_rating, type=DOUBLE"`
	StdDev  *float64 `parquet:"name=stddev_rating, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func reportRecordFn(r MovieReport) reportRecord {
	return reportRecord{
		MovieID: r.MovieID,
		Title:   r.Title,
		Year:    r.Year,
		Genres:  strings.Join(r.Genres, "|"),
		Count:   r.Count,
		Mean:    r.Mean,
		StdDev:  nullableStdDev(r.StdDev),
	}
}

func nullableStdDev(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/beam-cookbook/movielens/pkg/movielens"
)

// Config holds every knob of the movielens command. Values resolve in
// three layers: built-in defaults, then the optional YAML config file,
// then any flag set on the command line.
type Config struct {
	Ratings         string `yaml:"ratings"`
	Movies          string `yaml:"movies"`
	MinRatings      int    `yaml:"min_ratings"`
	Top             int    `yaml:"top"`
	SkipBadRows     bool   `yaml:"skip_bad_rows"`
	ExactQuantiles  bool   `yaml:"exact_quantiles"`
	Runner          string `yaml:"runner"`
	Output          string `yaml:"output"`
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
	Parquet         string `yaml:"parquet"`
}

func defaultConfig() Config {
	return Config{
		Ratings:         "ratings.csv",
		Movies:          "movies.csv",
		MinRatings:      500,
		Top:             10,
		Runner:          "direct",
		MongoDatabase:   "movielens",
		MongoCollection: "report",
	}
}

// registerFlags declares one flag per Config field, parsed into vals.
// The flag defaults mirror defaultConfig so --help shows the effective
// values.
func registerFlags(flags *pflag.FlagSet, vals *Config) {
	def := defaultConfig()
	flags.StringVar(&vals.Ratings, "ratings", def.Ratings, "ratings CSV file or glob")
	flags.StringVar(&vals.Movies, "movies", def.Movies, "movie catalog CSV file or glob")
	flags.IntVar(&vals.MinRatings, "min-ratings", def.MinRatings, "keep movies with strictly more ratings than this")
	flags.IntVar(&vals.Top, "top", def.Top, "number of rows per ranking")
	flags.BoolVar(&vals.SkipBadRows, "skip-bad-rows", def.SkipBadRows, "drop undecodable CSV rows instead of failing")
	flags.BoolVar(&vals.ExactQuantiles, "exact-quantiles", def.ExactQuantiles, "cut exact count quartiles instead of the approximation sketch")
	flags.StringVar(&vals.Runner, "runner", def.Runner, "beam runner to execute on")
	flags.StringVar(&vals.Output, "output", def.Output, "directory for report files; empty logs to the console")
	flags.StringVar(&vals.MongoURI, "mongo-uri", def.MongoURI, "MongoDB connection string; empty disables the export")
	flags.StringVar(&vals.MongoDatabase, "mongo-database", def.MongoDatabase, "MongoDB database for the export")
	flags.StringVar(&vals.MongoCollection, "mongo-collection", def.MongoCollection, "MongoDB collection for the export")
	flags.StringVar(&vals.Parquet, "parquet", def.Parquet, "parquet file for the export; empty disables it")
}

// loadFile overlays the YAML file at path. Unknown keys are an error so
// typos surface instead of silently keeping defaults.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("bad config file %v: %v", path, err)
	}
	return nil
}

// override copies the values of explicitly set flags from vals.
func (c *Config) override(flags *pflag.FlagSet, vals *Config) {
	set := map[string]func(){
		"ratings":          func() { c.Ratings = vals.Ratings },
		"movies":           func() { c.Movies = vals.Movies },
		"min-ratings":      func() { c.MinRatings = vals.MinRatings },
		"top":              func() { c.Top = vals.Top },
		"skip-bad-rows":    func() { c.SkipBadRows = vals.SkipBadRows },
		"exact-quantiles":  func() { c.ExactQuantiles = vals.ExactQuantiles },
		"runner":           func() { c.Runner = vals.Runner },
		"output":           func() { c.Output = vals.Output },
		"mongo-uri":        func() { c.MongoURI = vals.MongoURI },
		"mongo-database":   func() { c.MongoDatabase = vals.MongoDatabase },
		"mongo-collection": func() { c.MongoCollection = vals.MongoCollection },
		"parquet":          func() { c.Parquet = vals.Parquet },
	}
	for name, apply := range set {
		if flags.Changed(name) {
			apply()
		}
	}
}

func (c Config) validate() error {
	if c.Ratings == "" {
		return fmt.Errorf("no ratings input specified")
	}
	if c.Movies == "" {
		return fmt.Errorf("no movies input specified")
	}
	if c.MinRatings < 0 {
		return fmt.Errorf("min-ratings must not be negative, got %d", c.MinRatings)
	}
	if c.Top <= 0 {
		return fmt.Errorf("top must be positive, got %d", c.Top)
	}
	return nil
}

func (c Config) params() movielens.Params {
	return movielens.Params{
		RatingsGlob: c.Ratings,
		MoviesGlob:  c.Movies,
		MinRatings:  c.MinRatings,
		SkipBadRows: c.SkipBadRows,
	}
}

func (c Config) readOpts() movielens.ReadOpts {
	return movielens.ReadOpts{SkipBadRows: c.SkipBadRows}
}

func (c Config) quantileOpts() movielens.QuantileOpts {
	return movielens.QuantileOpts{Exact: c.ExactQuantiles}
}

// rankingPath places one report file under the output directory.
func (c Config) rankingPath(name string) string {
	return filepath.Join(c.Output, name+".txt")
}

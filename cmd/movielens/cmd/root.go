package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/log"

	// Registered so the default configuration works out of the box.
	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem/local"
	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/runners/direct"
)

// Root is the movielens command. Subcommands attach themselves in their
// init functions.
var Root = &cobra.Command{
	Use:               "movielens",
	Short:             "Profile the MovieLens ratings dataset with Beam pipelines",
	SilenceUsage:      true,
	PersistentPreRunE: loadRunConfig,
}

var (
	cfgFile  string
	flagVals Config

	// cfg is the resolved configuration every subcommand reads.
	cfg Config

	// runID tags the log output of one invocation.
	runID string
)

func init() {
	Root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file; flags override its values")
	registerFlags(Root.PersistentFlags(), &flagVals)
}

func loadRunConfig(cmd *cobra.Command, _ []string) error {
	cfg = defaultConfig()
	if cfgFile != "" {
		if err := cfg.loadFile(cfgFile); err != nil {
			return err
		}
	}
	cfg.override(cmd.Flags(), &flagVals)
	if err := cfg.validate(); err != nil {
		return err
	}
	runID = uuid.NewString()
	return nil
}

// runPipeline builds a pipeline with build and executes it on the
// configured runner. beam.Init must run after cobra has parsed the
// flags and before the graph is constructed.
func runPipeline(cmd *cobra.Command, build func(s beam.Scope)) error {
	beam.Init()
	ctx := cmd.Context()
	log.Infof(ctx, "movielens run %v on %v", runID, cfg.Runner)
	p, s := beam.NewPipelineWithRoot()
	build(s)
	_, err := beam.Run(ctx, cfg.Runner, p)
	return err
}

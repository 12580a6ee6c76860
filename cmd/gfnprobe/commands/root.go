// Package commands provides the cobra command tree for gfnprobe.
//
// The root command hands its arguments to the orchestrator untouched: the
// program's flags follow the classic prefix-matched syntax (-n12, -d1,
// --device1, -boinc) that cobra's parser would reject, so flag parsing is
// disabled here and done by internal/args.
package commands

import (
	"github.com/concave-dev/gfnprobe/cmd/gfnprobe/config"
	"github.com/concave-dev/gfnprobe/internal/app"
	"github.com/concave-dev/gfnprobe/internal/args"
	"github.com/concave-dev/gfnprobe/internal/console"
	"github.com/concave-dev/gfnprobe/internal/grid"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/version"
	"github.com/spf13/cobra"
)

// Root command for gfnprobe
var RootCmd = &cobra.Command{
	Use:   version.Name + " [options]",
	Short: "Generalized Fermat number probable-prime tester",
	Long: `gfnprobe tests generalized Fermat numbers b^(2^n)+1 for probable primality,
either from a list of bases (-f) or as a self-benchmark.

Run without arguments to list options and compute devices.`,
	Example: `  # Benchmark n=12 on device 0
  gfnprobe -n 12

  # Check a list of bases on device 1, printing composites too
  gfnprobe -n 15 -f bases.txt -d 1 -p

  # Run under a grid client
  gfnprobe -boinc -n 16 -f wu.txt`,
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(args, console.Standard())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp().Run(cmd.Context(), args)
	},
}

// loadConfig parses and validates the environment. A banner request skips it:
// printing the version never depends on the environment being valid.
func loadConfig(argv []string, out *console.Channels) error {
	if args.WantsBanner(argv) {
		return nil
	}
	if err := config.InitializeConfig(); err != nil {
		out.Fail(err)
		return err
	}
	logging.SetLevel(config.Global.LogLevel)
	if err := config.ValidateConfig(); err != nil {
		out.Fail(err)
		return err
	}
	return nil
}

// newApp wires the orchestrator to the host platform and the configured grid
// client.
func newApp() *app.App {
	cfg := config.Global
	return app.New(app.Options{
		Program:     version.Name,
		BenchRounds: cfg.BenchRounds,
		Channels:    console.Standard(),
		GridClient: func() grid.Client {
			return grid.NewClient(cfg.Grid())
		},
		ManagedChannels: func() (*console.Channels, error) {
			return console.Managed(cfg.GridDir, cfg.ResultsFile)
		},
	})
}

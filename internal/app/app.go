// Package app is the gfnprobe orchestrator: it turns a raw argument list into
// one run, from banner to grid finish.
//
// Run order:
//
//  1. install the cancellation bridge
//  2. -v/-V: print the banner on the diagnostic channel and stop
//  3. grid flag: enter the grid session (managed runs switch output channels)
//  4. banner and echoed command line on the result channel
//  5. enumerate devices; an empty catalog fails before anything else prints
//  6. no arguments: usage plus device table, then stop
//  7. parse and validate; no exponent means nothing to compute
//  8. resolve the device, build the engine, verify a file or benchmark
//  9. release the engine, report any error, finish the grid session once
package app

import (
	"context"
	"errors"

	"github.com/concave-dev/gfnprobe/internal/apperr"
	"github.com/concave-dev/gfnprobe/internal/args"
	"github.com/concave-dev/gfnprobe/internal/console"
	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/engine"
	"github.com/concave-dev/gfnprobe/internal/grid"
	"github.com/concave-dev/gfnprobe/internal/interrupt"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/version"
)

// Options wires the orchestrator's collaborators.
type Options struct {
	Program     string          // Name shown in the usage text
	Platform    device.Platform // Device enumeration
	Engines     engine.Factory  // Engine construction
	BenchRounds int             // Rounds timed by a benchmark; <= 0 for the default

	// Channels are the interactive output channels.
	Channels *console.Channels

	// GridClient builds the grid client when the grid flag is present.
	GridClient func() grid.Client

	// ManagedChannels builds the output channels for a managed grid run.
	// Nil keeps Channels.
	ManagedChannels func() (*console.Channels, error)

	// Stop is the cooperative stop flag. Nil uses the process-wide
	// interrupt flag and installs the signal bridge.
	Stop engine.Canceller
}

// App runs gfnprobe.
type App struct {
	opts Options
}

// New creates an orchestrator. Missing collaborators get the host defaults.
func New(opts Options) *App {
	if opts.Program == "" {
		opts.Program = version.Name
	}
	if opts.Platform == nil {
		opts.Platform = device.HostPlatform{}
	}
	if opts.Engines == nil {
		opts.Engines = engine.HostFactory
	}
	if opts.Channels == nil {
		opts.Channels = console.Standard()
	}
	return &App{opts: opts}
}

// Run executes one run for argv (program name excluded). A non-nil error has
// already been reported as "error: <message>." on the diagnostic channel;
// callers only map it to the exit status.
func (a *App) Run(ctx context.Context, argv []string) (err error) {
	stop := a.opts.Stop
	if stop == nil {
		interrupt.Install()
		stop = interrupt.Flag{}
	}

	out := a.opts.Channels

	if args.WantsBanner(argv) {
		out.Error(version.Banner(argv, false))
		return nil
	}

	var session *grid.Session
	defer func() {
		if errors.Is(err, engine.ErrInterrupted) {
			logging.Warn("Run interrupted, stopped cleanly")
			err = nil
		}
		if err != nil {
			out.Fail(err)
		}
		status := 0
		if err != nil {
			status = 1
		}
		if ferr := session.Finish(ctx, status); ferr != nil {
			logging.Error("Grid finish failed: %v", ferr)
		}
		if out != a.opts.Channels {
			out.Close()
		}
	}()

	if args.GridSupported && args.WantsGrid(argv) && a.opts.GridClient != nil {
		session, err = grid.Enter(ctx, a.opts.GridClient())
		if err != nil {
			return err
		}
		if session.Managed() && a.opts.ManagedChannels != nil {
			managed, cerr := a.opts.ManagedChannels()
			if cerr != nil {
				return apperr.Wrap(apperr.ErrGridInit, cerr, "")
			}
			out = managed
		}
	}

	out.Print(version.Banner(argv, true))

	catalog, err := device.NewCatalog(a.opts.Platform)
	if err != nil {
		return err
	}
	if err := catalog.Require(); err != nil {
		return err
	}
	logging.Debug("Platform %s: %d device(s)", catalog.Platform(), catalog.Count())
	if len(argv) == 0 {
		out.Print(args.Usage(a.opts.Program))
	}
	catalog.Display(out.Result())
	if len(argv) == 0 {
		return nil
	}

	cfg, err := args.Parse(argv, catalog.Count())
	if err != nil {
		return err
	}
	if !cfg.HasExponent() {
		logging.Debug("No exponent given, nothing to compute")
		return nil
	}

	handle := device.Local(cfg.DeviceIndex)
	if assigned, ok := session.Assignment(); ok {
		handle = device.External(assigned)
	}

	return a.compute(cfg, catalog, handle, stop, out, session.Managed())
}

func (a *App) compute(cfg args.RunConfig, catalog *device.Catalog, h device.Handle,
	stop engine.Canceller, out *console.Channels, managed bool) (err error) {
	eng, err := a.opts.Engines(catalog, h)
	if err != nil {
		return err
	}

	ctl := engine.NewController(out.Result(), stop, a.opts.BenchRounds)
	defer func() {
		if rerr := ctl.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	if err := ctl.Init(cfg.Exponent, eng, cfg.GridMode); err != nil {
		if rerr := eng.Release(); rerr != nil {
			logging.Warn("Engine release after failed init: %v", rerr)
		}
		return err
	}

	logging.Debug("Mode %s, n=%d, %s, managed=%v", cfg.Mode(), cfg.Exponent, h, managed)
	if cfg.Mode() == args.ModeVerify {
		return ctl.CheckFile(cfg.InputFile, cfg.DisplayResults)
	}
	return ctl.Bench()
}

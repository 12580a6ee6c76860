package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/gfnprobe/internal/apperr"
	"github.com/concave-dev/gfnprobe/internal/console"
	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/engine"
	"github.com/concave-dev/gfnprobe/internal/grid"
	"github.com/concave-dev/gfnprobe/internal/logging"
)

// fakePlatform serves a fixed device list and counts enumerations
type fakePlatform struct {
	names []string
	calls int
}

func (p *fakePlatform) Name() string { return "fake" }

func (p *fakePlatform) Devices() ([]device.Info, error) {
	p.calls++
	out := make([]device.Info, len(p.names))
	for i, n := range p.names {
		out[i] = device.Info{Name: n, Units: 1}
	}
	return out, nil
}

// fakeEngine reports every base prime unless told to fail
type fakeEngine struct {
	info       device.Info
	n          int
	released   int
	prepareErr error
	computeErr error
	releaseErr error
}

func (e *fakeEngine) Device() device.Info { return e.info }
func (e *fakeEngine) Prepare(n int) error { e.n = n; return e.prepareErr }

func (e *fakeEngine) Test(b uint64, stop engine.Stopper) (engine.Result, error) {
	if stop.Requested() {
		return engine.Result{}, engine.ErrInterrupted
	}
	if e.computeErr != nil {
		return engine.Result{}, e.computeErr
	}
	return engine.Result{B: b, N: e.n, Prime: true, Residue: 1}, nil
}

func (e *fakeEngine) Time(b uint64, rounds int, stop engine.Stopper) (time.Duration, error) {
	if e.computeErr != nil {
		return 0, e.computeErr
	}
	return time.Duration(rounds) * time.Microsecond, nil
}

func (e *fakeEngine) Release() error { e.released++; return e.releaseErr }

// recordingFactory records the handles engines were built for
type recordingFactory struct {
	handles []device.Handle
	engines []*fakeEngine
	err     error
	setup   func(*fakeEngine)
}

func (f *recordingFactory) build(c *device.Catalog, h device.Handle) (engine.Engine, error) {
	f.handles = append(f.handles, h)
	if f.err != nil {
		return nil, f.err
	}
	info, err := c.Resolve(h)
	if err != nil {
		return nil, err
	}
	e := &fakeEngine{info: info}
	if f.setup != nil {
		f.setup(e)
	}
	f.engines = append(f.engines, e)
	return e, nil
}

// fakeGrid scripts a grid client
type fakeGrid struct {
	initErr    error
	standalone bool
	assignment device.Assignment
	finishes   []int
}

func (g *fakeGrid) Init(ctx context.Context) error { return g.initErr }
func (g *fakeGrid) IsStandalone() bool             { return g.standalone }

func (g *fakeGrid) AssignedDevice(ctx context.Context) (device.Assignment, error) {
	return g.assignment, nil
}

func (g *fakeGrid) Finish(ctx context.Context, status int) error {
	g.finishes = append(g.finishes, status)
	return nil
}

// stopFlag is a per-test stop flag
type stopFlag struct{ set bool }

func (s *stopFlag) Requested() bool { return s.set }
func (s *stopFlag) Quit()           { s.set = true }

type harness struct {
	platform *fakePlatform
	factory  *recordingFactory
	grid     *fakeGrid
	gridMade int
	stop     *stopFlag
	result   bytes.Buffer
	diag     bytes.Buffer
	managed  bytes.Buffer
	app      *App
}

func newHarness(devices ...string) *harness {
	h := &harness{
		platform: &fakePlatform{names: devices},
		factory:  &recordingFactory{},
		grid:     &fakeGrid{standalone: true},
		stop:     &stopFlag{},
	}
	h.app = New(Options{
		Program:     "gfnprobe",
		Platform:    h.platform,
		Engines:     h.factory.build,
		BenchRounds: 4,
		Channels:    console.New(&h.result, &h.diag),
		GridClient: func() grid.Client {
			h.gridMade++
			return h.grid
		},
		ManagedChannels: func() (*console.Channels, error) {
			return console.New(&h.managed, &h.diag), nil
		},
		Stop: h.stop,
	})
	return h
}

func (h *harness) run(args ...string) error {
	return h.app.Run(context.Background(), args)
}

func candidates(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write candidates: %v", err)
	}
	return path
}

func TestEmptyArgsDiscovery(t *testing.T) {
	h := newHarness("alpha")
	if err := h.run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := h.result.String()
	for _, want := range []string{"Command line: ''", "Usage: gfnprobe", "alpha"} {
		if !strings.Contains(out, want) {
			t.Errorf("result missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Usage:") > strings.Index(out, "alpha") {
		t.Error("usage should precede the device table")
	}
	if len(h.factory.handles) != 0 {
		t.Error("discovery run built an engine")
	}
}

func TestBannerOnly(t *testing.T) {
	for _, flag := range []string{"-v", "-V", "-version"} {
		t.Run(flag, func(t *testing.T) {
			h := newHarness("alpha")
			if err := h.run("-boinc", "-n", "20", flag); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !strings.Contains(h.diag.String(), "gfnprobe") {
				t.Errorf("banner missing from diagnostics: %q", h.diag.String())
			}
			if strings.Contains(h.diag.String(), "Command line") {
				t.Error("banner-only run echoed the command line")
			}
			if h.result.Len() != 0 {
				t.Errorf("result channel written: %q", h.result.String())
			}
			if h.platform.calls != 0 {
				t.Error("banner-only run enumerated devices")
			}
			if h.gridMade != 0 {
				t.Error("banner-only run touched the grid client")
			}
		})
	}
}

func TestInvalidExponent(t *testing.T) {
	h := newHarness("alpha")
	err := h.run("-n", "20")
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("Run() error = %v, want invalid argument", err)
	}
	if !strings.HasSuffix(h.diag.String(), "\nerror: n > 16 is not supported.\n") {
		t.Errorf("diagnostics = %q", h.diag.String())
	}
	if len(h.factory.handles) != 0 {
		t.Error("invalid run built an engine")
	}
}

func TestNoDeviceBeforeUsage(t *testing.T) {
	h := newHarness()
	err := h.run()
	if !errors.Is(err, apperr.ErrNoDeviceFound) {
		t.Fatalf("Run() error = %v, want no device found", err)
	}
	if strings.Contains(h.result.String(), "Usage:") {
		t.Error("usage printed despite missing devices")
	}
	if !strings.Contains(h.diag.String(), "error: No compute device.") {
		t.Errorf("diagnostics = %q", h.diag.String())
	}
}

func TestNoExponent(t *testing.T) {
	h := newHarness("alpha")
	if err := h.run("-p", "-d", "0"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.factory.handles) != 0 {
		t.Error("run without -n built an engine")
	}
}

func TestBenchmarkScenario(t *testing.T) {
	h := newHarness("alpha")
	if err := h.run("-n", "10", "-p"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.factory.handles) != 1 || h.factory.handles[0] != device.Local(0) {
		t.Fatalf("engine handles = %v, want device 0", h.factory.handles)
	}
	if !strings.Contains(h.result.String(), "1000000^1024+1: 4 rounds") {
		t.Errorf("benchmark output missing:\n%s", h.result.String())
	}
	if h.factory.engines[0].released != 1 {
		t.Errorf("engine released %d times, want 1", h.factory.engines[0].released)
	}
}

func TestVerifyScenario(t *testing.T) {
	h := newHarness("alpha", "beta")
	path := candidates(t, "10\n12\n")
	if err := h.run("-f", path, "-d", "1", "-n", "8"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if h.factory.handles[0] != device.Local(1) {
		t.Errorf("engine handle = %v, want device 1", h.factory.handles[0])
	}
	if h.factory.engines[0].info.Name != "beta" {
		t.Errorf("engine bound to %q, want beta", h.factory.engines[0].info.Name)
	}
	if !strings.Contains(h.result.String(), "12^256+1 is a probable prime.") {
		t.Errorf("verification output missing:\n%s", h.result.String())
	}
}

func TestGridFinishOnce(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		factErr error
		status  int
		wantErr bool
	}{
		{"success", []string{"-boinc", "-n", "10"}, nil, 0, false},
		{"validation failure", []string{"-boinc", "-n", "20"}, nil, 1, true},
		{"engine construction failure", []string{"--grid", "-n", "10"}, errors.New("device lost"), 1, true},
		{"no exponent", []string{"-boinc"}, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("alpha")
			h.factory.err = tt.factErr
			err := h.run(tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(h.grid.finishes) != 1 || h.grid.finishes[0] != tt.status {
				t.Errorf("grid finishes = %v, want [%d]", h.grid.finishes, tt.status)
			}
		})
	}
}

func TestEngineFailureFinishesOnce(t *testing.T) {
	lost := errors.New("device lost")
	tests := []struct {
		name  string
		args  func(t *testing.T) []string
		setup func(*fakeEngine)
	}{
		{
			name:  "benchmark",
			args:  func(t *testing.T) []string { return []string{"-boinc", "-n", "10"} },
			setup: func(e *fakeEngine) { e.computeErr = lost },
		},
		{
			name: "verification",
			args: func(t *testing.T) []string {
				return []string{"-boinc", "-n", "8", "-f", candidates(t, "10\n12\n")}
			},
			setup: func(e *fakeEngine) { e.computeErr = lost },
		},
		{
			name:  "init",
			args:  func(t *testing.T) []string { return []string{"-boinc", "-n", "10"} },
			setup: func(e *fakeEngine) { e.prepareErr = lost; e.releaseErr = errors.New("busy") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			level := logging.GetLevel()
			logging.SetOutput(&logs)
			logging.SetLevel("WARN")
			defer func() {
				logging.SetOutput(os.Stderr)
				logging.SetLevel(level)
			}()

			h := newHarness("alpha")
			h.factory.setup = tt.setup
			err := h.run(tt.args(t)...)
			if !errors.Is(err, apperr.ErrEngine) {
				t.Fatalf("Run() error = %v, want engine failure", err)
			}
			if !strings.Contains(h.diag.String(), "device lost.") {
				t.Errorf("diagnostics = %q", h.diag.String())
			}
			if len(h.grid.finishes) != 1 || h.grid.finishes[0] != 1 {
				t.Errorf("grid finishes = %v, want [1]", h.grid.finishes)
			}
			if len(h.factory.engines) != 1 {
				t.Fatalf("built %d engines, want 1", len(h.factory.engines))
			}
			if got := h.factory.engines[0].released; got != 1 {
				t.Errorf("engine released %d times, want 1", got)
			}
			if tt.name == "init" && !strings.Contains(logs.String(), "busy") {
				t.Errorf("failed release not logged:\n%s", logs.String())
			}
		})
	}
}

func TestManagedPrefersAssignment(t *testing.T) {
	h := newHarness("alpha", "beta")
	h.grid.standalone = false
	h.grid.assignment = device.Assignment{PlatformID: "fake", DeviceID: 1}

	if err := h.run("-boinc", "-n", "10", "-d", "0"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := h.factory.handles[0]
	if !got.IsExternal() || got.Assigned.DeviceID != 1 {
		t.Errorf("engine handle = %v, want assigned fake/1", got)
	}
	if h.result.Len() != 0 {
		t.Errorf("managed run wrote to interactive result channel: %q", h.result.String())
	}
	if !strings.Contains(h.managed.String(), "Command line") {
		t.Error("managed result channel missing banner")
	}
	if len(h.grid.finishes) != 1 || h.grid.finishes[0] != 0 {
		t.Errorf("grid finishes = %v, want [0]", h.grid.finishes)
	}
}

func TestGridFailures(t *testing.T) {
	h := newHarness("alpha")
	h.grid.initErr = errors.New("slot busy")
	err := h.run("-boinc", "-n", "10")
	if !errors.Is(err, apperr.ErrGridInit) {
		t.Fatalf("Run() error = %v, want grid init failure", err)
	}
	if len(h.grid.finishes) != 0 {
		t.Errorf("finish called after failed init: %v", h.grid.finishes)
	}
	if !strings.Contains(h.diag.String(), "error: grid client init returned: slot busy.") {
		t.Errorf("diagnostics = %q", h.diag.String())
	}

	h = newHarness("alpha")
	h.grid.standalone = false
	h.grid.assignment = device.Assignment{DeviceID: -1}
	err = h.run("-boinc", "-n", "10")
	if !errors.Is(err, apperr.ErrGridInit) {
		t.Fatalf("Run() error = %v, want grid init failure", err)
	}
	if len(h.grid.finishes) != 1 || h.grid.finishes[0] != 1 {
		t.Errorf("grid finishes = %v, want [1]", h.grid.finishes)
	}
}

func TestInterruptedRunIsClean(t *testing.T) {
	h := newHarness("alpha")
	h.stop.Quit()
	path := candidates(t, "10\n")

	if err := h.run("-boinc", "-n", "8", "-f", path); err != nil {
		t.Fatalf("Run() error = %v, want clean stop", err)
	}
	if strings.Contains(h.diag.String(), "error:") {
		t.Errorf("interrupted run reported an error: %q", h.diag.String())
	}
	if h.factory.engines[0].released != 1 {
		t.Error("engine not released after interruption")
	}
	if len(h.grid.finishes) != 1 || h.grid.finishes[0] != 0 {
		t.Errorf("grid finishes = %v, want [0]", h.grid.finishes)
	}
}

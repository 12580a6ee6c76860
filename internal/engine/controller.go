package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/concave-dev/gfnprobe/internal/apperr"
	"github.com/concave-dev/gfnprobe/internal/logging"
)

// DefaultBenchRounds is how many powering rounds Bench times.
const DefaultBenchRounds = 32

// Benchmark base: even, and large enough that b^(2^n)+1 sits in the range real
// search campaigns work on.
const benchBase = 1_000_000

// Controller sequences a run on an engine. It holds the exponent, the engine,
// the grid-mode flag and the stop flag; nothing about it is global.
type Controller struct {
	out         io.Writer
	stop        Canceller
	benchRounds int

	n    int
	eng  Engine
	grid bool
}

// NewController creates a controller writing results to out and polling stop.
// benchRounds <= 0 selects DefaultBenchRounds.
func NewController(out io.Writer, stop Canceller, benchRounds int) *Controller {
	if benchRounds <= 0 {
		benchRounds = DefaultBenchRounds
	}
	return &Controller{out: out, stop: stop, benchRounds: benchRounds}
}

// Init binds the controller to an engine for exponent n.
func (c *Controller) Init(n int, eng Engine, grid bool) error {
	if eng == nil {
		return apperr.New(apperr.ErrEngine, "no engine")
	}
	if err := eng.Prepare(n); err != nil {
		return apperr.Wrap(apperr.ErrEngine, err, "engine initialization failed")
	}
	c.n = n
	c.eng = eng
	c.grid = grid
	logging.Debug("Controller ready: n=%d device=%s grid=%v", n, eng.Device().Name, grid)
	return nil
}

// Quit raises the cooperative stop request.
func (c *Controller) Quit() {
	c.stop.Quit()
}

// progress logs per-candidate progress; managed runs keep it at debug level.
func (c *Controller) progress(format string, v ...any) {
	if c.grid {
		logging.Debug(format, v...)
		return
	}
	logging.Info(format, v...)
}

func (c *Controller) ready() error {
	if c.eng == nil {
		return apperr.New(apperr.ErrEngine, "controller not initialized")
	}
	return nil
}

// CheckFile tests every candidate listed in path. Probable primes are always
// written to the result channel; composites only when display is set. A stop
// request ends the run before the next candidate (or inside the current one)
// with ErrInterrupted.
func (c *Controller) CheckFile(path string, display bool) error {
	if err := c.ready(); err != nil {
		return err
	}

	candidates, err := ReadCandidates(path)
	if err != nil {
		return apperr.Wrap(apperr.ErrEngine, err, "")
	}
	logging.Info("Checking %d candidate(s) from %s with n=%d", len(candidates), path, c.n)

	start := time.Now()
	primes := 0
	for i, b := range candidates {
		if c.stop.Requested() {
			logging.Warn("Stop requested after %d of %d candidate(s)", i, len(candidates))
			return ErrInterrupted
		}

		res, err := c.eng.Test(b, c.stop)
		if errors.Is(err, ErrInterrupted) {
			logging.Warn("Stop requested while testing b=%d", b)
			return err
		}
		if err != nil {
			return apperr.Wrap(apperr.ErrEngine, err, fmt.Sprintf("test of b=%d failed", b))
		}

		if res.Prime {
			primes++
			fmt.Fprintf(c.out, "%s is a probable prime.\n", gfn(b, c.n))
		} else if display {
			fmt.Fprintf(c.out, "%s is composite. RES64: %016X, time: %s.\n",
				gfn(b, c.n), res.Residue, formatDuration(res.Elapsed))
		}
		c.progress("[%d/%d] b=%d done in %s", i+1, len(candidates), b, formatDuration(res.Elapsed))
	}

	logging.Success("Checked %d candidate(s), %d probable prime(s) in %s",
		len(candidates), primes, formatDuration(time.Since(start)))
	return nil
}

// Bench times the engine at the configured exponent and reports the cost per
// powering round and the extrapolated cost of one full test.
func (c *Controller) Bench() error {
	if err := c.ready(); err != nil {
		return err
	}

	logging.Info("Benchmarking n=%d on %s (%d rounds)", c.n, c.eng.Device().Name, c.benchRounds)
	elapsed, err := c.eng.Time(benchBase, c.benchRounds, c.stop)
	if errors.Is(err, ErrInterrupted) {
		logging.Warn("Stop requested during benchmark")
		return err
	}
	if err != nil {
		return apperr.Wrap(apperr.ErrEngine, err, "benchmark failed")
	}

	perRound := elapsed / time.Duration(c.benchRounds)
	estimate := perRound * time.Duration(1<<c.n)
	fmt.Fprintf(c.out, "%s: %d rounds in %s, %s/round, estimated %s per test.\n",
		gfn(benchBase, c.n), c.benchRounds, formatDuration(elapsed),
		formatDuration(perRound), formatDuration(estimate))
	return nil
}

// Release frees the engine. Safe to call more than once.
func (c *Controller) Release() error {
	if c.eng == nil {
		return nil
	}
	err := c.eng.Release()
	c.eng = nil
	return apperr.Wrap(apperr.ErrEngine, err, "engine release failed")
}

// gfn renders b^(2^n)+1.
func gfn(b uint64, n int) string {
	return fmt.Sprintf("%d^%d+1", b, 1<<n)
}

// ReadCandidates reads one base per line. Blank lines and lines starting with
// '#' are skipped; anything after the first field is ignored.
func ReadCandidates(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var out []uint64
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		field := strings.Fields(text)[0]
		b, err := strconv.ParseUint(field, 10, 64)
		if err != nil || b < 2 {
			return nil, fmt.Errorf("%s:%d: invalid base '%s'", path, line, field)
		}
		out = append(out, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return out, nil
}

// formatDuration renders a duration for humans: "850ms", "2.5s", "1.2m", "3.4h", "2d5h".
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.0fµs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	case d < 24*time.Hour:
		return fmt.Sprintf("%.1fh", d.Hours())
	default:
		days := int(d.Hours() / 24)
		hours := d.Hours() - float64(days*24)
		if hours < 1 {
			return fmt.Sprintf("%dd", days)
		}
		return fmt.Sprintf("%dd%.0fh", days, hours)
	}
}

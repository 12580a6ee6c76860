// Package engine defines the compute engine contract and the controller that
// drives it.
//
// An Engine is bound to one device and performs the arithmetic: a Fermat
// probable-prime test of b^(2^n)+1. It must poll a Stopper at safe points and
// return ErrInterrupted promptly once a stop is requested; it never installs
// signal handlers of its own.
//
// The Controller sequences a run on top of an engine: file-driven
// verification or a benchmark, result formatting, and release.
package engine

import (
	"errors"
	"time"

	"github.com/concave-dev/gfnprobe/internal/device"
)

// ErrInterrupted is returned when a run stopped because a stop was requested.
// It is a clean unwind, not a failure.
var ErrInterrupted = errors.New("interrupted by stop request")

// Stopper is polled by engines at safe points.
type Stopper interface {
	Requested() bool
}

// Canceller is a Stopper that can also raise the request.
type Canceller interface {
	Stopper
	Quit()
}

// Result is the outcome of one candidate.
type Result struct {
	B       uint64        // Base
	N       int           // Exponent
	Prime   bool          // b^(2^n)+1 passed the probable-prime test
	Residue uint64        // Low 64 bits of the final power, 1 for probable primes
	Elapsed time.Duration // Wall time spent on this candidate
}

// Engine runs GFN arithmetic on one device.
type Engine interface {
	// Device describes the device the engine is bound to.
	Device() device.Info
	// Prepare sizes the engine for exponent n. Called once before any test.
	Prepare(n int) error
	// Test runs the probable-prime test for b^(2^n)+1.
	Test(b uint64, stop Stopper) (Result, error)
	// Time measures rounds exponentiation rounds for base b.
	Time(b uint64, rounds int, stop Stopper) (time.Duration, error)
	// Release frees device resources. The engine is unusable afterwards.
	Release() error
}

// Factory builds an engine bound to the device h refers to in c.
type Factory func(c *device.Catalog, h device.Handle) (Engine, error)

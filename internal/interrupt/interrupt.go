// Package interrupt bridges OS termination requests into one cooperative stop
// flag.
//
// Signal registration is process-global, so the flag is too: there is exactly
// one per process. The forwarder that receives signals only sets the flag. All
// unwinding (finishing the current candidate, releasing the device) happens in
// the normal control flow of whoever polls Requested.
//
// The flag is a boolean, not a counter: delivering the request any number of
// times leaves it set, and nothing ever clears it during a run.
package interrupt

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

var (
	requested   atomic.Bool
	installOnce sync.Once
)

// Install registers the platform's termination signals and starts the
// forwarder. Only the first call has an effect.
func Install() {
	installOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, stopSignals()...)
		go forward(ch)
	})
}

func forward(ch <-chan os.Signal) {
	for range ch {
		Quit()
	}
}

// Quit requests a cooperative stop. Safe to call from any goroutine, any number of times.
func Quit() {
	requested.Store(true)
}

// Requested reports whether a stop has been requested.
func Requested() bool {
	return requested.Load()
}

// Flag is a handle on the process-wide stop flag that can be passed to code
// that should not reach for package globals.
type Flag struct{}

// Requested reports whether a stop has been requested.
func (Flag) Requested() bool {
	return Requested()
}

// Quit requests a cooperative stop.
func (Flag) Quit() {
	Quit()
}

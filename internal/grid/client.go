// Package grid adapts the program to a volunteer-computing grid client.
//
// When launched by a grid client the process is "managed": the client picks the
// device, owns the working directory, and must be told exactly once how the run
// ended. Launched by hand with the grid flag, the client reports "standalone" and
// the run behaves like a normal interactive one apart from the finish call.
package grid

import (
	"context"
	"sync"
	"time"

	"github.com/concave-dev/gfnprobe/internal/apperr"
	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/logging"
)

// Client is the surface of a grid client runtime.
type Client interface {
	// Init attaches to the grid client. Called once.
	Init(ctx context.Context) error
	// IsStandalone reports whether no grid client is managing the process.
	IsStandalone() bool
	// AssignedDevice returns the device identity chosen by the grid client.
	AssignedDevice(ctx context.Context) (device.Assignment, error)
	// Finish reports the final status. The grid client may terminate the
	// process afterwards.
	Finish(ctx context.Context, status int) error
}

// State of a grid session.
type State int

const (
	Disabled State = iota
	Standalone
	Managed
)

func (s State) String() string {
	switch s {
	case Standalone:
		return "standalone"
	case Managed:
		return "managed"
	default:
		return "disabled"
	}
}

// Session is an entered grid session. A nil *Session means grid mode is
// disabled; all methods are safe on it.
type Session struct {
	client     Client
	state      State
	assignment *device.Assignment

	finishOnce sync.Once
	finishErr  error
}

// Enter initializes c and, when managed, fetches the assigned device.
//
// An Init failure returns a nil session: there is nothing to finish. A failed
// assignment returns the session together with the error so the caller can
// still report the failure through Finish.
func Enter(ctx context.Context, c Client) (*Session, error) {
	if err := c.Init(ctx); err != nil {
		return nil, apperr.Wrap(apperr.ErrGridInit, err, "grid client init returned")
	}

	s := &Session{client: c, state: Standalone}
	if c.IsStandalone() {
		logging.Debug("Grid client is standalone")
		return s, nil
	}

	s.state = Managed
	a, err := c.AssignedDevice(ctx)
	if err != nil {
		return s, apperr.Wrap(apperr.ErrGridInit, err, "grid client assigned no device")
	}
	if !a.Valid() {
		return s, apperr.New(apperr.ErrGridInit, "grid client assigned no device")
	}
	s.assignment = &a
	logging.Info("Grid client assigned device %s", a)
	return s, nil
}

// State returns the session state; Disabled for a nil session.
func (s *Session) State() State {
	if s == nil {
		return Disabled
	}
	return s.state
}

// Managed reports whether a grid client is managing the process.
func (s *Session) Managed() bool {
	return s.State() == Managed
}

// Assignment returns the assigned device, if any.
func (s *Session) Assignment() (device.Assignment, bool) {
	if s == nil || s.assignment == nil {
		return device.Assignment{}, false
	}
	return *s.assignment, true
}

// Finish reports status to the grid client. Only the first call reaches the
// client; later calls return the first call's result.
func (s *Session) Finish(ctx context.Context, status int) error {
	if s == nil {
		return nil
	}
	s.finishOnce.Do(func() {
		logging.Debug("Finishing %s grid session with status %d", s.state, status)
		s.finishErr = s.client.Finish(ctx, status)
	})
	return s.finishErr
}

// Config selects and tunes the grid client.
type Config struct {
	Dir     string        // Slot directory
	URL     string        // Coordinator base URL; empty selects the slot client
	Timeout time.Duration // HTTP request timeout
}

// NewClient returns the HTTP client when a coordinator URL is set and the slot
// client otherwise.
func NewClient(cfg Config) Client {
	if cfg.URL != "" {
		return NewHTTPClient(cfg.URL, cfg.Timeout)
	}
	return NewSlotClient(cfg.Dir)
}

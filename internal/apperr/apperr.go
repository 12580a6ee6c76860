// Package apperr defines the error taxonomy shared by every gfnprobe component.
//
// Each fatal condition carries one of four kinds so the top-level reporter and
// tests can classify it with errors.Is, while Error() renders only the human
// message that ends up on the diagnostic channel:
//
//   - ErrInvalidArgument: malformed or out-of-range flag value
//   - ErrNoDeviceFound: the compute platform reports zero devices
//   - ErrGridInit: the grid client could not start or assign a device
//   - ErrEngine: anything surfaced by the compute engine
package apperr

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoDeviceFound   = errors.New("no device found")
	ErrGridInit        = errors.New("grid init failure")
	ErrEngine          = errors.New("engine failure")
)

// Error is a classified failure. Msg is what users see; Err is an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

// New creates a classified error with no underlying cause.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies err under kind with a leading message. Returns nil when err is nil.
func Wrap(kind error, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	default:
		return e.Msg + ": " + e.Err.Error()
	}
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Package netutil provides network helpers for the coordinator and the grid
// client.
//
// Errors are classified by type (net.OpError wrapping a syscall errno) rather
// than by message text, which differs across platforms.
package netutil

import (
	"errors"
	"net"
	"syscall"
)

// IsAddressInUseError reports whether err is "address already in use".
func IsAddressInUseError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EADDRINUSE)
	}
	return false
}

// IsConnectionRefusedError reports whether err is "connection refused". The
// grid client uses it to tell a coordinator that is not running apart from
// other transport failures.
func IsConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return false
}

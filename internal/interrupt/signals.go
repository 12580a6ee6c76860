package interrupt

import (
	"os"
	"syscall"
)

// stopSignals returns the signals that request a cooperative stop.
//
// os.Interrupt is Ctrl+C everywhere (CTRL_C_EVENT and CTRL_BREAK_EVENT on
// Windows). SIGTERM is what process managers and grid clients send on Unix;
// on Windows the runtime delivers console close, logoff and shutdown events
// as SIGTERM, and only to channels registered for it.
func stopSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

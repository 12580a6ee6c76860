// Package config provides default configuration values shared by the gfnprobe
// binaries (the orchestrator and the development coordinator).
package config

import "time"

const (
	// DefaultBindAddr is the coordinator's default bind address. Loopback keeps
	// a development coordinator off the network unless asked.
	DefaultBindAddr = "127.0.0.1"

	// DefaultCoordinatorPort is the coordinator's default HTTP port.
	DefaultCoordinatorPort = 8008

	// DefaultLogLevel keeps the diagnostic channel quiet apart from warnings.
	DefaultLogLevel = "WARN"

	// DefaultGridDir is the slot directory the slot client reads.
	DefaultGridDir = "."

	// DefaultResultsFile receives results in managed mode, inside the grid dir.
	DefaultResultsFile = "results.txt"

	// DefaultGridTimeout bounds each coordinator request.
	DefaultGridTimeout = 10 * time.Second

	// DefaultBenchRounds is how many powering rounds a benchmark times.
	DefaultBenchRounds = 32
)

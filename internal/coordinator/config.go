package coordinator

import (
	"fmt"

	"github.com/concave-dev/gfnprobe/internal/config"
	"github.com/concave-dev/gfnprobe/internal/validate"
)

// Config holds the coordinator's bind address and the assignment it hands to
// every session.
type Config struct {
	BindAddr   string `validate:"required,ip"`
	BindPort   int    `validate:"min=0,max=65535"`
	PlatformID string // Platform named in assignments
	DeviceID   int    // Device index named in assignments
	Standalone bool   // Report sessions as standalone instead of managed
}

// DefaultConfig returns a loopback coordinator assigning host device 0.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:   config.DefaultBindAddr,
		BindPort:   config.DefaultCoordinatorPort,
		PlatformID: "host",
		DeviceID:   0,
	}
}

// Validate checks the bind address and, for managed sessions, the assignment.
func (c *Config) Validate() error {
	if err := validate.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid coordinator config: %w", err)
	}
	if !c.Standalone {
		if err := validate.ValidateRequiredString(c.PlatformID, "platform"); err != nil {
			return err
		}
		if c.DeviceID < 0 {
			return fmt.Errorf("device must be non-negative, got %d", c.DeviceID)
		}
	}
	return nil
}

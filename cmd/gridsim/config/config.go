// Package config holds and validates gridsim's flag configuration.
package config

import (
	"fmt"
	"strconv"

	defaults "github.com/concave-dev/gfnprobe/internal/config"
	"github.com/concave-dev/gfnprobe/internal/coordinator"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/validate"
)

// DefaultBind is the coordinator's default listen address.
var DefaultBind = defaults.DefaultBindAddr + ":" + strconv.Itoa(defaults.DefaultCoordinatorPort)

// Config holds all gridsim flag values
type Config struct {
	Bind       string // host:port to listen on
	Platform   string // Platform named in assignments
	Device     int    // Device index named in assignments
	Standalone bool   // Report sessions as standalone
	LogLevel   string // DEBUG, INFO, WARN, ERROR
}

// Global configuration instance
var Global Config

// ValidateConfig checks Global and converts it into a coordinator config.
func ValidateConfig() (*coordinator.Config, error) {
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return nil, err
	}

	addr, err := validate.ParseBindAddress(Global.Bind)
	if err != nil {
		return nil, fmt.Errorf("invalid --bind: %w", err)
	}

	cfg := &coordinator.Config{
		BindAddr:   addr.Host,
		BindPort:   addr.Port,
		PlatformID: Global.Platform,
		DeviceID:   Global.Device,
		Standalone: Global.Standalone,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

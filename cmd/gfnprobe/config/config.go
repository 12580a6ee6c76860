// Package config loads gfnprobe's environment configuration.
//
// Command-line flags belong to the run itself and are interpreted by the
// orchestrator; everything about the environment the run happens in (log level,
// grid slot directory, coordinator URL, benchmark length) comes from
// environment variables parsed with caarlos0/env and checked with validator
// struct tags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/concave-dev/gfnprobe/internal/grid"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/validate"
)

// Config holds the environment configuration. Defaults mirror internal/config.
type Config struct {
	LogLevel    string        `env:"GFN_LOG_LEVEL"    envDefault:"WARN"        validate:"required"`
	Debug       bool          `env:"DEBUG"`
	GridDir     string        `env:"GFN_GRID_DIR"     envDefault:"."           validate:"required"`
	GridURL     string        `env:"GFN_GRID_URL"                              validate:"omitempty,url"`
	GridTimeout time.Duration `env:"GFN_GRID_TIMEOUT" envDefault:"10s"`
	ResultsFile string        `env:"GFN_RESULTS_FILE" envDefault:"results.txt" validate:"required,excludesall=/\\"`
	BenchRounds int           `env:"GFN_BENCH_ROUNDS" envDefault:"32"          validate:"min=1,max=65536"`
}

// Global configuration instance
var Global Config

// InitializeConfig parses the environment into Global. DEBUG=true forces the
// DEBUG log level.
func InitializeConfig() error {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))
	if cfg.Debug {
		cfg.LogLevel = "DEBUG"
	}
	Global = cfg
	return nil
}

// ValidateConfig checks Global.
func ValidateConfig() error {
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return fmt.Errorf("GFN_LOG_LEVEL: %w", err)
	}
	if err := validate.ValidatePositiveTimeout(Global.GridTimeout, "GFN_GRID_TIMEOUT"); err != nil {
		return err
	}
	if err := validate.ValidateStruct(&Global); err != nil {
		return fmt.Errorf("invalid environment configuration: %w", err)
	}
	return nil
}

// Grid returns the grid client configuration.
func (c Config) Grid() grid.Config {
	return grid.Config{Dir: c.GridDir, URL: c.GridURL, Timeout: c.GridTimeout}
}

package commands

import (
	"github.com/concave-dev/gfnprobe/cmd/gridsim/config"
	defaults "github.com/concave-dev/gfnprobe/internal/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags for the coordinator
func SetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&config.Global.Bind, "bind", config.DefaultBind,
		"Address and port to listen on (port 0 picks a free port)")
	cmd.Flags().StringVar(&config.Global.Platform, "platform", "host",
		"Platform id handed to managed sessions")
	cmd.Flags().IntVar(&config.Global.Device, "device", 0,
		"Device index handed to managed sessions")
	cmd.Flags().BoolVar(&config.Global.Standalone, "standalone", false,
		"Report sessions as standalone (no device assignment)")
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", "INFO",
		"Log level: DEBUG, INFO, WARN, ERROR (default log level for gfnprobe is "+defaults.DefaultLogLevel+")")
}

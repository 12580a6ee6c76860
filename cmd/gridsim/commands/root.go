// Package commands provides the cobra command tree for gridsim.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/concave-dev/gfnprobe/cmd/gridsim/config"
	"github.com/concave-dev/gfnprobe/internal/coordinator"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/netutil"
	"github.com/concave-dev/gfnprobe/internal/version"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// Root command for gridsim
var RootCmd = &cobra.Command{
	Use:   "gridsim",
	Short: "Development grid coordinator for gfnprobe",
	Long: `gridsim serves the coordinator API gfnprobe uses when GFN_GRID_URL is set.
Every session opened against it receives the same device assignment, and the
final status of each run is recorded and logged.`,
	Version:      version.GridsimVersion,
	SilenceUsage: true,
	Example: `  # Coordinator assigning host device 0
  gridsim

  # Assign device 1, listen on all interfaces
  gridsim --bind=0.0.0.0:8008 --device=1

  # Then, in another shell
  GFN_GRID_URL=http://127.0.0.1:8008 gfnprobe -boinc -n 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetLevel(config.Global.LogLevel)
		cfg, err := config.ValidateConfig()
		if err != nil {
			logging.Error("Invalid configuration: %v", err)
			return err
		}
		return serve(cfg)
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	SetupFlags(RootCmd)
}

// serve runs the coordinator until SIGINT/SIGTERM.
func serve(cfg *coordinator.Config) error {
	gin.SetMode(gin.ReleaseMode)

	listener, err := netutil.BindTCP(cfg.BindAddr, cfg.BindPort)
	if err != nil {
		return err
	}
	if port, err := netutil.ListenerPort(listener); err == nil {
		logging.Info("Coordinator port %d, assigning %s", port, describe(cfg))
	}

	logging.RedirectStandardLog(logging.NewLevelWriter("WARN", "http"))
	defer logging.RedirectStandardLog(os.Stderr)

	server := coordinator.NewServer(cfg)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logging.Info("Received signal: %v", sig)
	case err := <-errCh:
		if err != nil {
			logging.Error("Coordinator failed: %v", err)
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down coordinator: %v", err)
		return err
	}
	logging.Success("Coordinator stopped")
	return nil
}

func describe(cfg *coordinator.Config) string {
	if cfg.Standalone {
		return "nothing (standalone sessions)"
	}
	return fmt.Sprintf("%s/%d", cfg.PlatformID, cfg.DeviceID)
}

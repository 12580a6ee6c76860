// Package coordinator provides a development grid coordinator: an HTTP service
// that plays the grid client's role for gfnprobe runs started with a
// coordinator URL.
//
// Each run opens a session, receives the configured device assignment, and
// reports its final status exactly once. Sessions live in memory.
package coordinator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/version"
	"github.com/gin-gonic/gin"
)

// Server is the coordinator HTTP server.
type Server struct {
	config     *Config
	sessions   *store
	startTime  time.Time
	httpServer *http.Server
}

// NewServer creates a coordinator. It panics on a nil config.
func NewServer(cfg *Config) *Server {
	if cfg == nil {
		panic("coordinator: nil config")
	}
	return &Server{
		config:    cfg,
		sessions:  newStore(),
		startTime: time.Now(),
	}
}

// Handler builds the gin router.
func (s *Server) Handler() http.Handler {
	router := gin.New()

	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("DEBUG", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(gin.Recovery())
	s.setupRoutes(router)
	return router
}

// Serve runs the server on an already bound listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.Success("Coordinator listening on %s", listener.Addr())
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	logging.Info("Shutting down coordinator...")
	return s.httpServer.Shutdown(ctx)
}

// assignment returns what new sessions are handed; nil for standalone.
func (s *Server) assignment() *device.Assignment {
	if s.config.Standalone {
		return nil
	}
	return &device.Assignment{PlatformID: s.config.PlatformID, DeviceID: s.config.DeviceID}
}

func (s *Server) version() string {
	return version.GridsimVersion
}

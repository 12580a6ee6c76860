package coordinator

import (
	"fmt"
	"net/http"
	"time"

	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/gin-gonic/gin"
)

// loggingMiddleware logs one line per request, tagged with the session id
// when the route carries one. Client errors log at WARN, server errors at ERROR.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		msg := fmt.Sprintf("%s %s %s %d %s", c.ClientIP(), c.Request.Method, route, status, time.Since(start))
		if id := c.Param("id"); id != "" {
			msg += " session=" + id
		}

		switch {
		case status >= http.StatusInternalServerError:
			logging.Error("%s", msg)
		case status >= http.StatusBadRequest:
			logging.Warn("%s", msg)
		default:
			logging.Info("%s", msg)
		}
	}
}

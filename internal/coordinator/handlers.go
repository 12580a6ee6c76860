package coordinator

import (
	"errors"
	"net/http"
	"time"

	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/gin-gonic/gin"
)

// HealthResponse is the health check body.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Sessions  int       `json:"sessions"`
	Open      int       `json:"open"`
}

type createSessionRequest struct {
	Host string `json:"host"`
}

type finishSessionRequest struct {
	Status *int `json:"status" binding:"required"`
}

func errorBody(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

func (s *Server) handleHealth(c *gin.Context) {
	total, open := s.sessions.count()
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version(),
		Uptime:    time.Since(s.startTime).String(),
		Sessions:  total,
		Open:      open,
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body: "+err.Error()))
		return
	}

	sess, err := s.sessions.create(req.Host, s.config.Standalone, s.assignment())
	if err != nil {
		logging.Error("Failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody("Failed to create session"))
		return
	}

	if sess.Assignment != nil {
		logging.Info("Session %s opened for %s, assigned %s", sess.ID, sess.Name, sess.Assignment)
	} else {
		logging.Info("Session %s opened for %s (standalone)", sess.ID, sess.Name)
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": sess})
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.sessions.get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorBody("Session not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": sess})
}

func (s *Server) handleFinishSession(c *gin.Context) {
	var req finishSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body: status is required"))
		return
	}

	id := c.Param("id")
	sess, err := s.sessions.finish(id, *req.Status)
	switch {
	case errors.Is(err, errSessionNotFound):
		c.JSON(http.StatusNotFound, errorBody("Session not found"))
		return
	case errors.Is(err, errAlreadyFinished):
		logging.Warn("Session %s finished twice", id)
		c.JSON(http.StatusConflict, errorBody("Session already finished"))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	logging.Info("Session %s finished with status %d", id, *req.Status)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"id": sess.ID, "status": *sess.Status},
	})
}

package coordinator

import "github.com/gin-gonic/gin"

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", s.handleHealth)

	sessions := v1.Group("/sessions")
	{
		sessions.POST("", s.handleCreateSession)
		sessions.GET("/:id", s.handleGetSession)
		sessions.POST("/:id/finish", s.handleFinishSession)
	}
}

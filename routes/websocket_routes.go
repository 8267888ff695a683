package routes

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/handlers"
	"ecopool/internal/middleware"
)

// SetupWebSocketRoutes sets up the realtime endpoint
func SetupWebSocketRoutes(r *gin.RouterGroup, wsHandler *handlers.WebSocketHandler, jwtSecret string) {
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired(jwtSecret))
	{
		ws.GET("", wsHandler.Connect)
	}
}

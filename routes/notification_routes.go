package routes

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/handlers"
	"ecopool/internal/middleware"
)

// SetupNotificationRoutes sets up routes for the notification inbox
func SetupNotificationRoutes(r *gin.RouterGroup, notificationHandler *handlers.NotificationHandler, jwtSecret string) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(jwtSecret))
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.DELETE("/:id", notificationHandler.DeleteNotification)
	}
}

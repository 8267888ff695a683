package routes

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/handlers"
	"ecopool/internal/middleware"
	"ecopool/internal/models"
)

// SetupUserRoutes sets up routes for profiles, verification and stats
func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler, statsHandler *handlers.StatsHandler, jwtSecret string) {
	users := r.Group("/users")
	users.Use(middleware.AuthRequired(jwtSecret))
	{
		users.GET("/me", userHandler.Me)
		users.PUT("/me", userHandler.UpdateProfile)
		users.POST("/me/verification", userHandler.SubmitVerification)
		users.GET("/me/impact", statsHandler.Impact)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/overview", statsHandler.AdminOverview)
		admin.PUT("/users/:id/verification", userHandler.ReviewVerification)
	}
}

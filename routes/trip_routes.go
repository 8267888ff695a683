package routes

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/handlers"
	"ecopool/internal/middleware"
	"ecopool/internal/models"
)

// SetupTripRoutes sets up routes for trip publishing, discovery and lifecycle
func SetupTripRoutes(r *gin.RouterGroup, tripHandler *handlers.TripHandler, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	trips := r.Group("/trips")
	trips.Use(middleware.AuthRequired(jwtSecret))
	{
		trips.GET("/search", tripHandler.SearchTrips)
		trips.GET("/open", tripHandler.ListOpenTrips)
		trips.GET("/mine", tripHandler.MyTrips)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.GET("/:id/bookings", bookingHandler.TripBookings)

		driver := trips.Group("")
		driver.Use(middleware.RoleRequired(models.RoleTraveller))
		{
			driver.POST("", tripHandler.CreateTrip)
			driver.PUT("/:id/start", tripHandler.StartTrip)
			driver.PUT("/:id/complete", tripHandler.CompleteTrip)
			driver.POST("/:id/expenses", tripHandler.AddExpense)
		}
	}
}

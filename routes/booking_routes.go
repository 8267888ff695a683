package routes

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/handlers"
	"ecopool/internal/middleware"
)

// SetupBookingRoutes sets up routes for the booking lifecycle
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("", bookingHandler.RequestBooking)
		bookings.GET("/mine", bookingHandler.MyBookings)
		bookings.GET("/pending", bookingHandler.PendingRequests)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PUT("/:id/accept", bookingHandler.AcceptBooking)
		bookings.PUT("/:id/reject", bookingHandler.RejectBooking)
		bookings.PUT("/:id/payment", bookingHandler.UpdatePayment)
	}
}

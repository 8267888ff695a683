package routes

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/handlers"
	"ecopool/internal/middleware"
)

// SetupPaymentRoutes sets up routes for online settlement
func SetupPaymentRoutes(r *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, jwtSecret string) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthRequired(jwtSecret))
	{
		payments.POST("/bookings/:booking_id/hold", paymentHandler.HoldPayment)
		payments.POST("/bookings/:booking_id/capture", paymentHandler.CapturePayment)
		payments.POST("/bookings/:booking_id/refund", paymentHandler.RefundPayment)
		payments.GET("/history", paymentHandler.PaymentHistory)
	}
}

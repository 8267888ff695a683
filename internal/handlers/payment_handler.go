package handlers

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/services"
	"ecopool/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// HoldPayment places a booking's fare on hold with the gateway
func (h *PaymentHandler) HoldPayment(c *gin.Context) {
	bookingID, ok := pathID(c, "booking_id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	record, err := h.paymentService.Hold(c.Request.Context(), bookingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Payment held successfully", record)
}

// CapturePayment settles a held payment
func (h *PaymentHandler) CapturePayment(c *gin.Context) {
	bookingID, ok := pathID(c, "booking_id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	record, err := h.paymentService.Capture(c.Request.Context(), bookingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment captured successfully", record)
}

// RefundPayment releases a held payment back to the passenger
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	bookingID, ok := pathID(c, "booking_id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var request struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&request)

	record, err := h.paymentService.Refund(c.Request.Context(), bookingID, userID, request.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment refunded successfully", record)
}

// PaymentHistory returns the caller's settled bookings on both sides of the
// marketplace
func (h *PaymentHandler) PaymentHistory(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	bookings, err := h.paymentService.History(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment history retrieved successfully", bookings)
}

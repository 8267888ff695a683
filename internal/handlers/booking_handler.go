package handlers

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/models"
	"ecopool/internal/services"
	"ecopool/internal/utils"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// RequestBooking files a seat request against a trip
func (h *BookingHandler) RequestBooking(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	var input services.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.Request(c.Request.Context(), passengerID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking requested successfully", booking)
}

// AcceptBooking accepts a pending request and reserves its seats
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.decide(c, true)
}

// RejectBooking declines a pending request
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	h.decide(c, false)
}

func (h *BookingHandler) decide(c *gin.Context, accept bool) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Decide(c.Request.Context(), bookingID, userID, accept)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Booking rejected"
	if accept {
		message = "Booking accepted"
	}
	utils.SuccessResponse(c, message, booking)
}

// UpdatePayment records a payment-state declaration on a booking
func (h *BookingHandler) UpdatePayment(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var request struct {
		PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
		PaymentMethod models.PaymentMethod `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.UpdatePayment(c.Request.Context(), bookingID, userID, request.PaymentStatus, request.PaymentMethod)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment updated successfully", booking)
}

// GetBooking returns one booking to its passenger or driver
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetByID(c.Request.Context(), bookingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

// MyBookings returns the authenticated passenger's bookings
func (h *BookingHandler) MyBookings(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListByPassenger(c.Request.Context(), passengerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookings retrieved successfully", bookings)
}

// TripBookings returns a trip's bookings to its driver
func (h *BookingHandler) TripBookings(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListForTrip(c.Request.Context(), tripID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookings retrieved successfully", bookings)
}

// PendingRequests returns pending requests across the driver's trips
func (h *BookingHandler) PendingRequests(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.PendingForDriver(c.Request.Context(), driverID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Pending requests retrieved successfully", bookings)
}

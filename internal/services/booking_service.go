package services

import (
	"context"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/internal/utils"
	"ecopool/pkg/logger"
)

type BookingRequestInput struct {
	TripID        primitive.ObjectID   `json:"trip_id" binding:"required"`
	PickupPoint   models.GeoPoint      `json:"pickup_point" binding:"required"`
	DropPoint     models.GeoPoint      `json:"drop_point" binding:"required"`
	SeatsBooked   int                  `json:"seats_booked" binding:"required,min=1"`
	Fare          float64              `json:"fare"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	// PaymentStatus may be declared PAID when an online payment completed
	// before the request, otherwise it defaults to PENDING.
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

// BookingService owns the booking lifecycle: passenger requests, driver
// decisions and payment-state declarations.
type BookingService struct {
	bookingRepo interfaces.BookingRepository
	tripRepo    interfaces.TripRepository
	notifier    *NotificationService
	log         *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	tripRepo interfaces.TripRepository,
	notifier *NotificationService,
	log *logger.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		notifier:    notifier,
		log:         log,
	}
}

// Request creates a PENDING booking against an open trip. The capacity check
// here is advisory only; the authoritative seat reservation happens on
// accept.
func (s *BookingService) Request(ctx context.Context, passengerID primitive.ObjectID, input *BookingRequestInput) (*models.Booking, error) {
	trip, err := s.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.Status != models.TripStatusOpen {
		return nil, ErrTripNotOpen
	}
	if trip.DriverID == passengerID {
		return nil, fmt.Errorf("%w: cannot book your own trip", ErrValidation)
	}
	if trip.AvailableSeats < input.SeatsBooked {
		return nil, ErrNotEnoughSeats
	}
	if !input.PickupPoint.HasCoordinates() || !input.DropPoint.HasCoordinates() {
		return nil, fmt.Errorf("%w: pickup and drop coordinates are required", ErrValidation)
	}

	// Fare is derived from the trip, never trusted from the client. A
	// supplied fare is accepted only when it agrees with the derivation.
	fare := trip.PricePerSeat * float64(input.SeatsBooked)
	if input.Fare > 0 && math.Abs(input.Fare-fare) > 0.01 {
		return nil, ErrFareMismatch
	}

	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusPending
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCash
	}

	booking := &models.Booking{
		TripID:        input.TripID,
		PassengerID:   passengerID,
		PickupPoint:   input.PickupPoint,
		DropPoint:     input.DropPoint,
		SeatsBooked:   input.SeatsBooked,
		Fare:          fare,
		Status:        models.BookingStatusPending,
		PaymentMethod: paymentMethod,
		PaymentStatus: paymentStatus,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.notifier.Dispatch(ctx, trip.DriverID, models.NotificationTypeMatch,
		"New booking request",
		fmt.Sprintf("A passenger requested %d seat(s) on your trip.", input.SeatsBooked),
		&booking.ID, models.RefTypeBooking)

	s.log.WithBookingID(booking.ID).WithTripID(trip.ID).Info("booking requested")
	return booking, nil
}

// Decide accepts or rejects a pending booking. Only the trip's driver may
// decide. Acceptance reserves seats through a single conditional decrement;
// losing that race surfaces as a distinct seats-unavailable error, leaving
// the booking PENDING.
func (s *BookingService) Decide(ctx context.Context, bookingID, callerID primitive.ObjectID, accept bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrTerminalState
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.DriverID != callerID {
		return nil, ErrNotAuthorized
	}

	if !accept {
		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusRejected); err != nil {
			return nil, fmt.Errorf("failed to reject booking: %w", err)
		}
		booking.Status = models.BookingStatusRejected

		s.notifier.Dispatch(ctx, booking.PassengerID, models.NotificationTypeMatch,
			"Booking declined",
			"The driver declined your booking request.",
			&booking.ID, models.RefTypeBooking)
		return booking, nil
	}

	updated, reserved, err := s.tripRepo.TryReserveSeats(ctx, trip.ID, booking.SeatsBooked)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}
	if !reserved {
		return nil, ErrSeatsUnavailable
	}

	if updated.AvailableSeats == 0 && updated.Status != models.TripStatusFull {
		if err := s.tripRepo.SetStatus(ctx, trip.ID, models.TripStatusFull); err != nil {
			s.log.WithError(err).WithTripID(trip.ID).Error("failed to flip trip to full")
		}
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusAccepted); err != nil {
		return nil, fmt.Errorf("failed to accept booking: %w", err)
	}
	booking.Status = models.BookingStatusAccepted

	s.notifier.Dispatch(ctx, booking.PassengerID, models.NotificationTypeMatch,
		"Booking accepted",
		"The driver accepted your booking request. Have a good ride!",
		&booking.ID, models.RefTypeBooking)

	s.log.WithBookingID(bookingID).WithTripID(trip.ID).
		WithField("seats", booking.SeatsBooked).Info("booking accepted")
	return booking, nil
}

// UpdatePayment records a payment-state declaration. The passenger or the
// trip's driver may declare it, independent of booking status.
func (s *BookingService) UpdatePayment(ctx context.Context, bookingID, callerID primitive.ObjectID, status models.PaymentStatus, method models.PaymentMethod) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if booking.PassengerID != callerID && trip.DriverID != callerID {
		return nil, ErrNotAuthorized
	}

	if method == "" {
		method = booking.PaymentMethod
	}
	if err := s.bookingRepo.UpdatePayment(ctx, bookingID, status, method); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	booking.PaymentStatus = status
	booking.PaymentMethod = method

	if status == models.PaymentStatusPaid {
		s.notifier.Dispatch(ctx, trip.DriverID, models.NotificationTypePayment,
			"Payment received",
			fmt.Sprintf("Payment of %.2f settled for a booking on your trip.", booking.Fare),
			&booking.ID, models.RefTypeBooking)
	}
	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, bookingID, callerID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}
	if booking.PassengerID != callerID {
		trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
		if err != nil || trip.DriverID != callerID {
			return nil, ErrNotAuthorized
		}
	}
	return booking, nil
}

func (s *BookingService) ListByPassenger(ctx context.Context, passengerID primitive.ObjectID) ([]*models.Booking, error) {
	return s.bookingRepo.GetByPassenger(ctx, passengerID)
}

// ListForTrip returns a trip's bookings to its driver.
func (s *BookingService) ListForTrip(ctx context.Context, tripID, callerID primitive.ObjectID) ([]*models.Booking, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.DriverID != callerID {
		return nil, ErrNotAuthorized
	}
	return s.bookingRepo.GetByTrip(ctx, tripID)
}

// PendingForDriver returns every PENDING request across the driver's trips,
// newest first.
func (s *BookingService) PendingForDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Booking, error) {
	params := &utils.PaginationParams{Page: 1, PageSize: 100, Sort: "created_at", Order: "desc"}
	trips, _, err := s.tripRepo.GetByDriver(ctx, driverID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load driver trips: %w", err)
	}
	if len(trips) == 0 {
		return []*models.Booking{}, nil
	}

	tripIDs := make([]primitive.ObjectID, 0, len(trips))
	for _, t := range trips {
		tripIDs = append(tripIDs, t.ID)
	}
	return s.bookingRepo.GetPendingForTrips(ctx, tripIDs)
}

package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/internal/utils"
	"ecopool/pkg/logger"
	"ecopool/pkg/payment"
)

// PaymentService drives online settlement for bookings through a payment
// gateway: hold on request, capture on ride completion, refund on rejection.
// Gateway outcomes are mirrored into Payment records and the booking's
// payment status; the booking lifecycle itself never depends on gateway
// availability.
type PaymentService struct {
	paymentRepo interfaces.PaymentRepository
	bookingRepo interfaces.BookingRepository
	tripRepo    interfaces.TripRepository
	gateway     payment.Gateway
	currency    string
	log         *logger.Logger
}

func NewPaymentService(
	paymentRepo interfaces.PaymentRepository,
	bookingRepo interfaces.BookingRepository,
	tripRepo interfaces.TripRepository,
	gateway payment.Gateway,
	currency string,
	log *logger.Logger,
) *PaymentService {
	if currency == "" {
		currency = "INR"
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		gateway:     gateway,
		currency:    currency,
		log:         log,
	}
}

func (s *PaymentService) providerName() models.PaymentProvider {
	if s.gateway != nil && s.gateway.Name() == string(models.PaymentProviderStripe) {
		return models.PaymentProviderStripe
	}
	return models.PaymentProviderRazorpay
}

// Hold places the booking's fare on hold with the gateway. Only the booking's
// passenger may initiate it.
func (s *PaymentService) Hold(ctx context.Context, bookingID, callerID primitive.ObjectID) (*models.Payment, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("no payment gateway configured")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}
	if booking.PassengerID != callerID {
		return nil, ErrNotAuthorized
	}
	if booking.PaymentStatus != models.PaymentStatusPending {
		return nil, fmt.Errorf("%w: payment already %s", ErrValidation, booking.PaymentStatus)
	}

	result, err := s.gateway.Hold(ctx, &payment.ChargeRequest{
		Amount:      booking.Fare,
		Currency:    s.currency,
		Description: "Seat booking fare",
		Reference:   bookingID.Hex(),
		Metadata: map[string]interface{}{
			"trip_id":      booking.TripID.Hex(),
			"passenger_id": booking.PassengerID.Hex(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gateway hold failed: %w", err)
	}

	record := &models.Payment{
		BookingID:     bookingID,
		Provider:      s.providerName(),
		Amount:        booking.Fare,
		Currency:      s.currency,
		Status:        models.PaymentRecordHeld,
		TransactionID: result.TransactionID,
	}
	if err := s.paymentRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := s.bookingRepo.UpdatePayment(ctx, bookingID, models.PaymentStatusHeld, models.PaymentMethodOnline); err != nil {
		s.log.WithError(err).WithBookingID(bookingID).Error("failed to mirror hold onto booking")
	}

	s.log.WithBookingID(bookingID).WithField("transaction_id", result.TransactionID).Info("fare held")
	return record, nil
}

// Capture settles a held payment, typically after the ride completed.
func (s *PaymentService) Capture(ctx context.Context, bookingID, callerID primitive.ObjectID) (*models.Payment, error) {
	record, booking, err := s.heldRecord(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.DriverID != callerID && booking.PassengerID != callerID {
		return nil, ErrNotAuthorized
	}

	if _, err := s.gateway.Capture(ctx, record.TransactionID); err != nil {
		return nil, fmt.Errorf("gateway capture failed: %w", err)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, record.ID, models.PaymentRecordPaid); err != nil {
		return nil, fmt.Errorf("failed to record capture: %w", err)
	}
	record.Status = models.PaymentRecordPaid

	if err := s.bookingRepo.UpdatePayment(ctx, bookingID, models.PaymentStatusPaid, models.PaymentMethodOnline); err != nil {
		s.log.WithError(err).WithBookingID(bookingID).Error("failed to mirror capture onto booking")
	}
	return record, nil
}

// Refund releases a held payment back to the passenger.
func (s *PaymentService) Refund(ctx context.Context, bookingID, callerID primitive.ObjectID, reason string) (*models.Payment, error) {
	record, booking, err := s.heldRecord(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.DriverID != callerID && booking.PassengerID != callerID {
		return nil, ErrNotAuthorized
	}

	if _, err := s.gateway.Refund(ctx, record.TransactionID, record.Amount, reason); err != nil {
		return nil, fmt.Errorf("gateway refund failed: %w", err)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, record.ID, models.PaymentRecordRefunded); err != nil {
		return nil, fmt.Errorf("failed to record refund: %w", err)
	}
	record.Status = models.PaymentRecordRefunded

	if err := s.bookingRepo.UpdatePayment(ctx, bookingID, models.PaymentStatusRefunded, models.PaymentMethodOnline); err != nil {
		s.log.WithError(err).WithBookingID(bookingID).Error("failed to mirror refund onto booking")
	}
	return record, nil
}

func (s *PaymentService) heldRecord(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, *models.Booking, error) {
	if s.gateway == nil {
		return nil, nil, fmt.Errorf("no payment gateway configured")
	}
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	record, err := s.paymentRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	if record.Status != models.PaymentRecordHeld {
		return nil, nil, fmt.Errorf("%w: payment is %s, expected HELD", ErrValidation, record.Status)
	}
	return record, booking, nil
}

// History returns bookings with settled or in-flight payments where the
// caller was either the passenger or the driver.
func (s *PaymentService) History(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	params := &utils.PaginationParams{Page: 1, PageSize: 100, Sort: "created_at", Order: "desc"}
	trips, _, err := s.tripRepo.GetByDriver(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load driver trips: %w", err)
	}
	tripIDs := make([]primitive.ObjectID, 0, len(trips))
	for _, t := range trips {
		tripIDs = append(tripIDs, t.ID)
	}
	return s.bookingRepo.GetSettledForUser(ctx, userID, tripIDs)
}

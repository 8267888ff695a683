package interfaces

import (
	"context"

	"ecopool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error
	UpdatePayment(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, method models.PaymentMethod) error

	GetByTrip(ctx context.Context, tripID primitive.ObjectID) ([]*models.Booking, error)
	GetByTripAndStatus(ctx context.Context, tripID primitive.ObjectID, status models.BookingStatus) ([]*models.Booking, error)
	GetByPassenger(ctx context.Context, passengerID primitive.ObjectID) ([]*models.Booking, error)

	// GetPendingForTrips returns PENDING requests across a driver's trips,
	// newest first.
	GetPendingForTrips(ctx context.Context, tripIDs []primitive.ObjectID) ([]*models.Booking, error)

	// Payment history: a user's bookings whose payment has progressed past
	// PENDING, either as passenger or across the given trips as driver.
	GetSettledForUser(ctx context.Context, passengerID primitive.ObjectID, driverTripIDs []primitive.ObjectID) ([]*models.Booking, error)

	// Stats
	CountByPassengerAndStatus(ctx context.Context, passengerID primitive.ObjectID, status models.BookingStatus) (int64, error)
	CountByStatuses(ctx context.Context, statuses []models.BookingStatus) (int64, error)
	SumFaresByStatus(ctx context.Context, status models.BookingStatus) (float64, error)
}

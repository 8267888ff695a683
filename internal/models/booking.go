package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentStatus string
type PaymentMethod string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusAccepted  BookingStatus = "ACCEPTED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"

	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusHeld     PaymentStatus = "HELD"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"

	PaymentMethodOnline PaymentMethod = "ONLINE"
	PaymentMethodCash   PaymentMethod = "CASH"
)

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

// Booking is a passenger's claim on seats of a specific trip. The pickup and
// drop points are independent of the trip's own endpoints, supporting
// mid-route boarding. Payment status is tracked independently of booking
// status: a booking can be ACCEPTED while payment is still PENDING, as with
// cash settled after the ride.
type Booking struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID      primitive.ObjectID `json:"trip_id" bson:"trip_id" validate:"required"`
	PassengerID primitive.ObjectID `json:"passenger_id" bson:"passenger_id" validate:"required"`

	PickupPoint GeoPoint `json:"pickup_point" bson:"pickup_point" validate:"required"`
	DropPoint   GeoPoint `json:"drop_point" bson:"drop_point" validate:"required"`

	SeatsBooked int     `json:"seats_booked" bson:"seats_booked" validate:"required,min=1"`
	Fare        float64 `json:"fare" bson:"fare" validate:"required,gte=0"`

	Status        BookingStatus `json:"status" bson:"status"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

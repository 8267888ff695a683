package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripStatus string

const (
	TripStatusOpen      TripStatus = "OPEN"
	TripStatusFull      TripStatus = "FULL"
	TripStatusOngoing   TripStatus = "ONGOING"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// IsTerminal reports whether no further status transition is allowed.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

type Expense struct {
	Description string  `json:"description" bson:"description"`
	Amount      float64 `json:"amount" bson:"amount"`
}

// Trip is a published offer of seats along a fixed route. The driver is the
// single writer for status and capacity; seats are only decremented through
// the accept path.
type Trip struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID      primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	StartPoint    GeoPoint           `json:"start_point" bson:"start_point" validate:"required"`
	EndPoint      GeoPoint           `json:"end_point" bson:"end_point" validate:"required"`
	DepartureTime time.Time          `json:"departure_time" bson:"departure_time" validate:"required"`

	// TotalSeats is a snapshot of the initial capacity, fixed at creation.
	TotalSeats     int     `json:"total_seats" bson:"total_seats"`
	AvailableSeats int     `json:"available_seats" bson:"available_seats" validate:"min=0"`
	PricePerSeat   float64 `json:"price_per_seat" bson:"price_per_seat" validate:"required,gt=0"`

	// Route meta, enriched from the routing provider at creation.
	Distance      int    `json:"distance" bson:"distance"` // meters
	Duration      int    `json:"duration" bson:"duration"` // seconds
	RoutePolyline string `json:"route_polyline" bson:"route_polyline"`

	Status TripStatus `json:"status" bson:"status"`

	Expenses      []Expense `json:"expenses" bson:"expenses"`
	TotalExpenses float64   `json:"total_expenses" bson:"total_expenses"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// RecomputeExpenses derives TotalExpenses from the ledger. The total is never
// set independently.
func (t *Trip) RecomputeExpenses() {
	var sum float64
	for _, e := range t.Expenses {
		sum += e.Amount
	}
	t.TotalExpenses = sum
}

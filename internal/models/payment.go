package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentProvider string
type PaymentRecordStatus string

const (
	PaymentProviderStripe   PaymentProvider = "STRIPE"
	PaymentProviderRazorpay PaymentProvider = "RAZORPAY"

	PaymentRecordHeld     PaymentRecordStatus = "HELD"
	PaymentRecordPaid     PaymentRecordStatus = "PAID"
	PaymentRecordRefunded PaymentRecordStatus = "REFUNDED"
	PaymentRecordFailed   PaymentRecordStatus = "FAILED"
)

// Payment is the settlement record behind a booking's payment status.
// Gateway processing itself happens upstream; this document tracks the
// outcome per booking.
type Payment struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BookingID     primitive.ObjectID  `json:"booking_id" bson:"booking_id" validate:"required"`
	Provider      PaymentProvider     `json:"provider" bson:"provider" validate:"required"`
	Amount        float64             `json:"amount" bson:"amount" validate:"required,gt=0"`
	Currency      string              `json:"currency" bson:"currency"`
	Status        PaymentRecordStatus `json:"status" bson:"status"`
	TransactionID string              `json:"transaction_id" bson:"transaction_id"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

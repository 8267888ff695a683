package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string
type RefType string

const (
	NotificationTypeMatch   NotificationType = "match"
	NotificationTypePayment NotificationType = "payment"
	NotificationTypeImpact  NotificationType = "impact"
	NotificationTypeSystem  NotificationType = "system"
	NotificationTypeMessage NotificationType = "message"

	RefTypeTrip    RefType = "TRIP"
	RefTypeBooking RefType = "BOOKING"
)

// Notification is a fire-and-forget record of an event delivered to one user.
// After creation it is only mutated by the recipient marking it read or
// deleting it.
type Notification struct {
	ID     primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	Type   NotificationType    `json:"type" bson:"type"`
	Title  string              `json:"title" bson:"title" validate:"required"`
	Body   string              `json:"body" bson:"body" validate:"required"`
	Read   bool                `json:"read" bson:"read"`
	RefID  *primitive.ObjectID `json:"ref_id,omitempty" bson:"ref_id,omitempty"`
	RefType RefType            `json:"ref_type,omitempty" bson:"ref_type,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

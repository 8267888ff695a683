package interfaces

import (
	"context"

	"ecopool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetByBooking(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentRecordStatus) error
}

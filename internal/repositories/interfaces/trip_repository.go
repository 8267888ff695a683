package interfaces

import (
	"context"
	"time"

	"ecopool/internal/models"
	"ecopool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Discovery and search
	GetOpenTrips(ctx context.Context, departingAfter time.Time) ([]*models.Trip, error)
	GetSearchCandidates(ctx context.Context, departingAfter time.Time) ([]*models.Trip, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)

	// TryReserveSeats decrements available_seats by seats as a single
	// conditional update, succeeding only while available_seats >= seats.
	// Returns the post-decrement trip on success and false when capacity was
	// no longer there. This is the only write path for seats.
	TryReserveSeats(ctx context.Context, id primitive.ObjectID, seats int) (*models.Trip, bool, error)

	SetStatus(ctx context.Context, id primitive.ObjectID, status models.TripStatus) error

	// MarkCompleted sets the terminal status with a field-level update,
	// bypassing full-document validation so legacy records missing newer
	// optional fields still complete.
	MarkCompleted(ctx context.Context, id primitive.ObjectID) error

	AddExpense(ctx context.Context, id primitive.ObjectID, expense models.Expense, newTotal float64) error

	// Stats
	CountByDriverAndStatus(ctx context.Context, driverID primitive.ObjectID, status models.TripStatus) (int64, error)
	CountByStatuses(ctx context.Context, statuses []models.TripStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

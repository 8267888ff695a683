package interfaces

import (
	"context"

	"ecopool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// ApplyRewardDeltas atomically increments the reward counters and sets
	// the re-derived level in one update.
	ApplyRewardDeltas(ctx context.Context, id primitive.ObjectID, carbonGrams float64, credits, points int, level string) error

	SetTrustScore(ctx context.Context, id primitive.ObjectID, score int) error
	SetVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus, verified bool) error

	// Stats
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	CountByVerificationStatus(ctx context.Context, status models.VerificationStatus) (int64, error)
}

package mongodb

import (
	"context"
	"fmt"
	"time"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	collection *mongo.Collection
	cache      Cache
}

func NewUserRepository(db *mongo.Database, cache Cache) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
		cache:      orNopCache(cache),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if user.Level == "" {
		user.Level = models.LevelGreenNewbie
	}
	if len(user.Roles) == 0 {
		user.Roles = []models.Role{models.RolePassenger}
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	cacheKey := utils.CacheUserPrefix + id.Hex()

	var cached models.User
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.cache.Set(ctx, cacheKey, &user, 5*time.Minute)
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	r.cache.Delete(ctx, utils.CacheUserPrefix+id.Hex())
	return nil
}

func (r *userRepository) ApplyRewardDeltas(ctx context.Context, id primitive.ObjectID, carbonGrams float64, credits, points int, level string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{
				"carbon_saved":   carbonGrams,
				"ride_credits":   credits,
				"loyalty_points": points,
			},
			"$set": bson.M{
				"level":      level,
				"updated_at": time.Now(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to apply reward deltas: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	r.cache.Delete(ctx, utils.CacheUserPrefix+id.Hex())
	return nil
}

func (r *userRepository) SetTrustScore(ctx context.Context, id primitive.ObjectID, score int) error {
	return r.Update(ctx, id, map[string]interface{}{
		"trust_score": models.ClampTrustScore(score),
	})
}

func (r *userRepository) SetVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus, verified bool) error {
	return r.Update(ctx, id, map[string]interface{}{
		"verification_status": status,
		"is_verified":         verified,
	})
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *userRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"roles": role})
}

func (r *userRepository) CountByVerificationStatus(ctx context.Context, status models.VerificationStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"verification_status": status})
}

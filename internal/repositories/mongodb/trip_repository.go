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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tripRepository struct {
	collection *mongo.Collection
	cache      Cache
}

func NewTripRepository(db *mongo.Database, cache Cache) interfaces.TripRepository {
	return &tripRepository{
		collection: db.Collection("trips"),
		cache:      orNopCache(cache),
	}
}

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, trip); err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	r.cache.Delete(ctx, utils.CacheOpenTripsKey)
	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	var trip models.Trip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

func (r *tripRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *tripRepository) GetOpenTrips(ctx context.Context, departingAfter time.Time) ([]*models.Trip, error) {
	filter := bson.M{
		"status":         models.TripStatusOpen,
		"departure_time": bson.M{"$gt": departingAfter},
	}
	opts := options.Find().SetSort(bson.D{{Key: "departure_time", Value: 1}})

	return r.findTrips(ctx, filter, opts)
}

func (r *tripRepository) GetSearchCandidates(ctx context.Context, departingAfter time.Time) ([]*models.Trip, error) {
	filter := bson.M{
		"status":          models.TripStatusOpen,
		"departure_time":  bson.M{"$gte": departingAfter},
		"available_seats": bson.M{"$gt": 0},
	}

	return r.findTrips(ctx, filter, options.Find())
}

func (r *tripRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	filter := bson.M{"driver_id": driverID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	trips, err := r.findTrips(ctx, filter, params.GetFindOptions())
	if err != nil {
		return nil, 0, err
	}

	return trips, total, nil
}

// TryReserveSeats is the hardened accept path: filter and decrement run as a
// single document update, so two concurrent accepts can never both pass the
// capacity check. A miss means the seats were taken in the meantime.
func (r *tripRepository) TryReserveSeats(ctx context.Context, id primitive.ObjectID, seats int) (*models.Trip, bool, error) {
	filter := bson.M{
		"_id":             id,
		"available_seats": bson.M{"$gte": seats},
		"status":          bson.M{"$in": []models.TripStatus{models.TripStatusOpen, models.TripStatusFull}},
	}
	update := bson.M{
		"$inc": bson.M{"available_seats": -seats},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trip models.Trip
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to reserve seats: %w", err)
	}

	r.invalidate(ctx, id)
	return &trip, true, nil
}

func (r *tripRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.TripStatus) error {
	return r.Update(ctx, id, map[string]interface{}{"status": status})
}

func (r *tripRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	// A plain $set on status, never a full-document replace: legacy trips
	// created before total_seats existed must still complete.
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.TripStatusCompleted, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to complete trip: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *tripRepository) AddExpense(ctx context.Context, id primitive.ObjectID, expense models.Expense, newTotal float64) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"expenses": expense},
			"$set":  bson.M{"total_expenses": newTotal, "updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add expense: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *tripRepository) CountByDriverAndStatus(ctx context.Context, driverID primitive.ObjectID, status models.TripStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"driver_id": driverID, "status": status})
}

func (r *tripRepository) CountByStatuses(ctx context.Context, statuses []models.TripStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

func (r *tripRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *tripRepository) findTrips(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Trip, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}

	return trips, nil
}

func (r *tripRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	r.cache.Delete(ctx, utils.CacheTripPrefix+id.Hex(), utils.CacheOpenTripsKey)
}

package mongodb

import (
	"context"
	"fmt"
	"time"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	return r.Update(ctx, id, map[string]interface{}{"status": status})
}

func (r *bookingRepository) UpdatePayment(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, method models.PaymentMethod) error {
	updates := map[string]interface{}{}
	if status != "" {
		updates["payment_status"] = status
	}
	if method != "" {
		updates["payment_method"] = method
	}
	if len(updates) == 0 {
		return nil
	}

	return r.Update(ctx, id, updates)
}

func (r *bookingRepository) GetByTrip(ctx context.Context, tripID primitive.ObjectID) ([]*models.Booking, error) {
	return r.findBookings(ctx, bson.M{"trip_id": tripID}, newestFirst())
}

func (r *bookingRepository) GetByTripAndStatus(ctx context.Context, tripID primitive.ObjectID, status models.BookingStatus) ([]*models.Booking, error) {
	return r.findBookings(ctx, bson.M{"trip_id": tripID, "status": status}, options.Find())
}

func (r *bookingRepository) GetByPassenger(ctx context.Context, passengerID primitive.ObjectID) ([]*models.Booking, error) {
	return r.findBookings(ctx, bson.M{"passenger_id": passengerID}, newestFirst())
}

func (r *bookingRepository) GetPendingForTrips(ctx context.Context, tripIDs []primitive.ObjectID) ([]*models.Booking, error) {
	if len(tripIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"trip_id": bson.M{"$in": tripIDs},
		"status":  models.BookingStatusPending,
	}
	return r.findBookings(ctx, filter, newestFirst())
}

func (r *bookingRepository) GetSettledForUser(ctx context.Context, passengerID primitive.ObjectID, driverTripIDs []primitive.ObjectID) ([]*models.Booking, error) {
	or := []bson.M{{"passenger_id": passengerID}}
	if len(driverTripIDs) > 0 {
		or = append(or, bson.M{"trip_id": bson.M{"$in": driverTripIDs}})
	}

	filter := bson.M{
		"$or":            or,
		"payment_status": bson.M{"$ne": models.PaymentStatusPending},
	}
	return r.findBookings(ctx, filter, newestFirst())
}

func (r *bookingRepository) CountByPassengerAndStatus(ctx context.Context, passengerID primitive.ObjectID, status models.BookingStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"passenger_id": passengerID, "status": status})
}

func (r *bookingRepository) CountByStatuses(ctx context.Context, statuses []models.BookingStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

func (r *bookingRepository) SumFaresByStatus(ctx context.Context, status models.BookingStatus) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": status}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$fare"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum fares: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode fare sum: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Total, nil
}

func (r *bookingRepository) findBookings(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *DatabaseConfig
}

type DatabaseConfig struct {
	URI            string
	Database       string
	MaxPoolSize    int
	MinPoolSize    int
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
}

func NewMongoDB(config *DatabaseConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(uint64(config.MaxPoolSize)).
		SetMinPoolSize(uint64(config.MinPoolSize)).
		SetSocketTimeout(config.SocketTimeout).
		SetConnectTimeout(config.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(config.Database),
		Config:   config,
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

func (m *MongoDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the query paths rely on: open-trip
// discovery, a driver's trips, a trip's bookings, a passenger's bookings, and
// per-user notification lists.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	trips := m.Collection("trips")
	_, err := trips.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: map[string]interface{}{"status": 1, "departure_time": 1}},
		{Keys: map[string]interface{}{"driver_id": 1}},
	})
	if err != nil {
		return err
	}

	bookings := m.Collection("bookings")
	_, err = bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: map[string]interface{}{"trip_id": 1, "status": 1}},
		{Keys: map[string]interface{}{"passenger_id": 1}},
	})
	if err != nil {
		return err
	}

	notifications := m.Collection("notifications")
	_, err = notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: map[string]interface{}{"user_id": 1, "created_at": -1},
	})
	return err
}

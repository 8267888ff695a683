package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
)

func openTrip(startLng, startLat, endLng, endLat float64) *models.Trip {
	return &models.Trip{
		ID:       primitive.NewObjectID(),
		DriverID: primitive.NewObjectID(),
		StartPoint: models.GeoPoint{
			Address:     "start",
			Coordinates: []float64{startLng, startLat},
		},
		EndPoint: models.GeoPoint{
			Address:     "end",
			Coordinates: []float64{endLng, endLat},
		},
		DepartureTime:  time.Now().Add(2 * time.Hour),
		TotalSeats:     3,
		AvailableSeats: 3,
		PricePerSeat:   100,
		Status:         models.TripStatusOpen,
	}
}

func TestMatchingService(t *testing.T) {
	svc := NewMatchingService()
	params := DefaultMatchParams()

	// Bangalore city center to Koramangala.
	trip := openTrip(77.5946, 12.9716, 77.6245, 12.9352)

	t.Run("leg aligned with the trip matches", func(t *testing.T) {
		matched := svc.Match([]*models.Trip{trip}, 77.5946, 12.9716, 77.6245, 12.9352, params)
		assert.Len(t, matched, 1)
	})

	t.Run("mid-route leg inside the corridor matches", func(t *testing.T) {
		matched := svc.Match([]*models.Trip{trip}, 77.6050, 12.9550, 77.6200, 12.9400, params)
		assert.Len(t, matched, 1)
	})

	t.Run("reversed leg is excluded despite proximity", func(t *testing.T) {
		// Pickup at the trip's end, drop at its start: both points are near
		// the route but the travel direction is inverted. With tight
		// tolerance the direction guard rejects it.
		tight := params
		tight.DirectionToleranceKm = 0.5
		longTrip := openTrip(77.5946, 12.9716, 76.6394, 12.2958)
		matched := svc.Match([]*models.Trip{longTrip}, 76.6394, 12.2958, 77.5946, 12.9716, tight)
		assert.Empty(t, matched)
	})

	t.Run("far-away leg does not match", func(t *testing.T) {
		// Delhi leg against a Bangalore trip.
		matched := svc.Match([]*models.Trip{trip}, 77.1025, 28.7041, 77.2090, 28.6139, params)
		assert.Empty(t, matched)
	})

	t.Run("empty candidates produce empty result", func(t *testing.T) {
		matched := svc.Match(nil, 77.5946, 12.9716, 77.6245, 12.9352, params)
		assert.Empty(t, matched)
	})

	t.Run("trip without coordinates never matches", func(t *testing.T) {
		bare := openTrip(0, 0, 0, 0)
		bare.StartPoint.Coordinates = nil
		matched := svc.Match([]*models.Trip{bare}, 77.5946, 12.9716, 77.6245, 12.9352, params)
		assert.Empty(t, matched)
	})

	t.Run("pure function of its inputs", func(t *testing.T) {
		trips := []*models.Trip{trip, openTrip(77.5946, 12.9716, 77.7500, 13.0500)}
		first := svc.Match(trips, 77.5946, 12.9716, 77.6245, 12.9352, params)
		second := svc.Match(trips, 77.5946, 12.9716, 77.6245, 12.9352, params)
		assert.Equal(t, first, second)
		// Inputs are not mutated.
		assert.Equal(t, 3, trips[0].AvailableSeats)
	})

	t.Run("zeroed params fall back to defaults", func(t *testing.T) {
		matched := svc.Match([]*models.Trip{trip}, 77.5946, 12.9716, 77.6245, 12.9352, MatchParams{})
		assert.Len(t, matched, 1)
	})
}

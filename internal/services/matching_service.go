package services

import (
	"ecopool/internal/models"
	"ecopool/internal/utils"
)

// MatchParams tunes the geometry of trip matching. The corridor multiplier
// and direction tolerance are empirically chosen; they are parameters rather
// than constants so deployments can tune them.
type MatchParams struct {
	MaxDistanceKm        float64
	CorridorMultiplier   float64
	DirectionToleranceKm float64
}

func DefaultMatchParams() MatchParams {
	return MatchParams{
		MaxDistanceKm:        utils.DefaultMaxDistanceKM,
		CorridorMultiplier:   utils.DefaultCorridorMultiplier,
		DirectionToleranceKm: utils.DefaultDirectionToleranceKM,
	}
}

// MatchingService filters candidate trips against a passenger's requested
// leg. It is a pure function of its inputs: no I/O, no state, and an empty
// candidate set yields an empty result, never an error. Callers are expected
// to pre-filter candidates by status, seats and departure time.
type MatchingService struct{}

func NewMatchingService() *MatchingService {
	return &MatchingService{}
}

// Match returns the subset of trips usable for the requested pickup and drop.
// A trip qualifies when either the strict proximity test or the corridor test
// passes, and the leg runs in the trip's direction of travel.
func (s *MatchingService) Match(trips []*models.Trip, pickupLng, pickupLat, dropLng, dropLat float64, params MatchParams) []*models.Trip {
	if params.MaxDistanceKm <= 0 {
		params.MaxDistanceKm = utils.DefaultMaxDistanceKM
	}
	if params.CorridorMultiplier <= 0 {
		params.CorridorMultiplier = utils.DefaultCorridorMultiplier
	}
	if params.DirectionToleranceKm <= 0 {
		params.DirectionToleranceKm = utils.DefaultDirectionToleranceKM
	}

	matched := make([]*models.Trip, 0, len(trips))
	for _, trip := range trips {
		if s.matches(trip, pickupLng, pickupLat, dropLng, dropLat, params) {
			matched = append(matched, trip)
		}
	}
	return matched
}

func (s *MatchingService) matches(trip *models.Trip, pickupLng, pickupLat, dropLng, dropLat float64, params MatchParams) bool {
	if !trip.StartPoint.HasCoordinates() || !trip.EndPoint.HasCoordinates() {
		return false
	}

	startLat, startLng := trip.StartPoint.Lat(), trip.StartPoint.Lng()
	endLat, endLng := trip.EndPoint.Lat(), trip.EndPoint.Lng()

	// Strict test: pickup near the trip's start and drop near its end.
	distToPickup := utils.HaversineDistanceKm(pickupLat, pickupLng, startLat, startLng)
	distToDrop := utils.HaversineDistanceKm(dropLat, dropLng, endLat, endLng)
	strictMatch := distToPickup <= params.MaxDistanceKm && distToDrop <= params.MaxDistanceKm

	// Corridor test: both points within a wider detour budget of the route,
	// allowing mid-route boarding.
	corridorKm := params.MaxDistanceKm * params.CorridorMultiplier
	pickupOnWay := utils.IsOnRouteCorridor(startLat, startLng, endLat, endLng, pickupLat, pickupLng, corridorKm)
	dropOnWay := utils.IsOnRouteCorridor(startLat, startLng, endLat, endLng, dropLat, dropLng, corridorKm)
	corridorMatch := pickupOnWay && dropOnWay

	// Directionality guard: the drop must lie "after" the pickup along the
	// direction of travel. The tolerance keeps legitimate short hops while
	// blocking clearly backwards legs.
	passengerDirection := utils.HaversineDistanceKm(pickupLat, pickupLng, endLat, endLng)
	reverseDirection := utils.HaversineDistanceKm(dropLat, dropLng, startLat, startLng)
	isForward := passengerDirection < reverseDirection+params.DirectionToleranceKm

	return (strictMatch || corridorMatch) && isForward
}

package utils

import "time"

// Application Constants
const (
	AppName    = "EcoPool"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Matching
	DefaultMaxDistanceKM        = 25.0
	DefaultCorridorMultiplier   = 2.0
	DefaultDirectionToleranceKM = 5.0

	// Reward accounting
	CarbonGramsPerKmGasCar = 120.0 // solo fossil-fuel benchmark, g CO2 per km
	PoolEfficiencyFactor   = 0.6   // shared rides emit 60% of the solo baseline
	CreditsPerKgCO2        = 10.0
	PointsPerKm            = 5.0

	// Trip defaults
	DefaultDriverRewardDistanceM = 5000 // meters, used when a trip has no route meta

	// Routing provider fallback
	RoadDistanceMultiplier  = 1.35 // straight-line to road-distance estimate
	FallbackAverageSpeedKMH = 40.0
	RouteProviderTimeout    = 8 * time.Second
	OSRMTimeout             = 10 * time.Second

	// Trust score
	TrustScoreMin = 0
	TrustScoreMax = 100

	// Trust score deltas applied on verification review.
	TrustDeltaVerified = 20
	TrustDeltaRejected = -10
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidInput     = "invalid input"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrValidationFailed = "validation failed"
	ErrTripNotFound     = "trip not found"
	ErrBookingNotFound  = "booking not found"
	ErrUserNotFound     = "user not found"
	ErrNotEnoughSeats   = "not enough seats"
)

// Cache Keys
const (
	CacheUserPrefix        = "user:"
	CacheTripPrefix        = "trip:"
	CacheOpenTripsKey      = "trips:open"
	CacheUnreadCountPrefix = "notifications:unread:"
)

// Realtime event types published on the websocket hub.
const (
	EventNewTripCreated  = "newTripCreated"
	EventNewNotification = "newNotification"
	EventChatMessage     = "chatMessage"
	EventLocationUpdate  = "locationUpdate"
)

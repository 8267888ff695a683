package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/pkg/logger"
)

type ImpactStats struct {
	CarbonSavedGrams float64 `json:"carbon_saved_grams"`
	CarbonSavedKg    float64 `json:"carbon_saved_kg"`
	RideCredits      int     `json:"ride_credits"`
	LoyaltyPoints    int     `json:"loyalty_points"`
	Level            string  `json:"level"`
	TripsDriven      int64   `json:"trips_driven"`
	RidesTaken       int64   `json:"rides_taken"`
}

type AdminOverview struct {
	TotalUsers           int64   `json:"total_users"`
	Travellers           int64   `json:"travellers"`
	Passengers           int64   `json:"passengers"`
	PendingVerifications int64   `json:"pending_verifications"`
	TotalTrips           int64   `json:"total_trips"`
	ActiveTrips          int64   `json:"active_trips"`
	CompletedTrips       int64   `json:"completed_trips"`
	CompletedBookings    int64   `json:"completed_bookings"`
	SettledFares         float64 `json:"settled_fares"`
}

// StatsService aggregates counters for the personal impact view and the
// admin overview. Every figure comes straight from the store; nothing here
// mutates state.
type StatsService struct {
	userRepo    interfaces.UserRepository
	tripRepo    interfaces.TripRepository
	bookingRepo interfaces.BookingRepository
	log         *logger.Logger
}

func NewStatsService(
	userRepo interfaces.UserRepository,
	tripRepo interfaces.TripRepository,
	bookingRepo interfaces.BookingRepository,
	log *logger.Logger,
) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		log:         log,
	}
}

// Impact returns a user's environmental and loyalty summary with completed
// ride counts split by role.
func (s *StatsService) Impact(ctx context.Context, userID primitive.ObjectID) (*ImpactStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}

	tripsDriven, err := s.tripRepo.CountByDriverAndStatus(ctx, userID, models.TripStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count driven trips: %w", err)
	}
	ridesTaken, err := s.bookingRepo.CountByPassengerAndStatus(ctx, userID, models.BookingStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count rides taken: %w", err)
	}

	return &ImpactStats{
		CarbonSavedGrams: user.CarbonSaved,
		CarbonSavedKg:    user.CarbonSaved / 1000.0,
		RideCredits:      user.RideCredits,
		LoyaltyPoints:    user.LoyaltyPoints,
		Level:            user.Level,
		TripsDriven:      tripsDriven,
		RidesTaken:       ridesTaken,
	}, nil
}

// Overview returns platform-wide counters. Admin-only at the route layer.
func (s *StatsService) Overview(ctx context.Context) (*AdminOverview, error) {
	overview := &AdminOverview{}
	var err error

	if overview.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if overview.Travellers, err = s.userRepo.CountByRole(ctx, models.RoleTraveller); err != nil {
		return nil, fmt.Errorf("failed to count travellers: %w", err)
	}
	if overview.Passengers, err = s.userRepo.CountByRole(ctx, models.RolePassenger); err != nil {
		return nil, fmt.Errorf("failed to count passengers: %w", err)
	}
	if overview.PendingVerifications, err = s.userRepo.CountByVerificationStatus(ctx, models.VerificationPending); err != nil {
		return nil, fmt.Errorf("failed to count pending verifications: %w", err)
	}

	if overview.TotalTrips, err = s.tripRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}
	if overview.ActiveTrips, err = s.tripRepo.CountByStatuses(ctx, []models.TripStatus{
		models.TripStatusOpen, models.TripStatusFull, models.TripStatusOngoing,
	}); err != nil {
		return nil, fmt.Errorf("failed to count active trips: %w", err)
	}
	if overview.CompletedTrips, err = s.tripRepo.CountByStatuses(ctx, []models.TripStatus{models.TripStatusCompleted}); err != nil {
		return nil, fmt.Errorf("failed to count completed trips: %w", err)
	}

	if overview.CompletedBookings, err = s.bookingRepo.CountByStatuses(ctx, []models.BookingStatus{models.BookingStatusCompleted}); err != nil {
		return nil, fmt.Errorf("failed to count completed bookings: %w", err)
	}
	if overview.SettledFares, err = s.bookingRepo.SumFaresByStatus(ctx, models.BookingStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to sum settled fares: %w", err)
	}

	return overview, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/internal/utils"
	"ecopool/pkg/logger"
	"ecopool/pkg/maps"
	"ecopool/pkg/websocket"
)

type CreateTripInput struct {
	StartPoint    models.GeoPoint `json:"start_point" binding:"required"`
	EndPoint      models.GeoPoint `json:"end_point" binding:"required"`
	DepartureTime time.Time       `json:"departure_time" binding:"required"`
	Seats         int             `json:"seats" binding:"required,min=1"`
	PricePerSeat  float64         `json:"price_per_seat" binding:"required,gt=0"`
}

type SearchTripsInput struct {
	PickupLng     float64    `json:"pickup_lng"`
	PickupLat     float64    `json:"pickup_lat"`
	DropLng       float64    `json:"drop_lng"`
	DropLat       float64    `json:"drop_lat"`
	Date          *time.Time `json:"date,omitempty"`
	MaxDistanceKm float64    `json:"max_distance_km,omitempty"`
}

// CompletionReport is returned from Complete for operational visibility: the
// primary transition always succeeded by the time one exists, but downstream
// reward and notification work is best-effort and may partially fail.
type CompletionReport struct {
	TripID             primitive.ObjectID `json:"trip_id"`
	DriverReward       *RewardResult      `json:"driver_reward"`
	PassengersRewarded int                `json:"passengers_rewarded"`
	FailedSteps        int                `json:"failed_steps"`
}

// TripService owns the trip lifecycle: publishing, discovery, status
// transitions and the completion fan-out.
type TripService struct {
	tripRepo     interfaces.TripRepository
	bookingRepo  interfaces.BookingRepository
	userRepo     interfaces.UserRepository
	matching     *MatchingService
	rewards      *RewardService
	notifier     *NotificationService
	routes       maps.RouteProvider
	hub          *websocket.Hub
	log          *logger.Logger
	matchParams  MatchParams
	driverDistM  float64
}

func NewTripService(
	tripRepo interfaces.TripRepository,
	bookingRepo interfaces.BookingRepository,
	userRepo interfaces.UserRepository,
	matching *MatchingService,
	rewards *RewardService,
	notifier *NotificationService,
	routes maps.RouteProvider,
	hub *websocket.Hub,
	log *logger.Logger,
) *TripService {
	return &TripService{
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		matching:    matching,
		rewards:     rewards,
		notifier:    notifier,
		routes:      routes,
		hub:         hub,
		log:         log,
		matchParams: DefaultMatchParams(),
		driverDistM: utils.DefaultDriverRewardDistanceM,
	}
}

// Create publishes a trip for a driver. Route enrichment is best-effort:
// when every provider fails the trip is still published with zeroed route
// meta rather than rejected.
func (s *TripService) Create(ctx context.Context, driverID primitive.ObjectID, input *CreateTripInput) (*models.Trip, error) {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !driver.HasRole(models.RoleTraveller) {
		return nil, ErrRoleRequired
	}
	if !input.StartPoint.HasCoordinates() || !input.EndPoint.HasCoordinates() {
		return nil, fmt.Errorf("%w: start and end coordinates are required", ErrValidation)
	}
	if !input.DepartureTime.After(time.Now()) {
		return nil, fmt.Errorf("%w: departure time must be in the future", ErrValidation)
	}

	trip := &models.Trip{
		DriverID:       driverID,
		StartPoint:     input.StartPoint,
		EndPoint:       input.EndPoint,
		DepartureTime:  input.DepartureTime,
		TotalSeats:     input.Seats,
		AvailableSeats: input.Seats,
		PricePerSeat:   input.PricePerSeat,
		Status:         models.TripStatusOpen,
		Expenses:       []models.Expense{},
	}

	s.enrichRoute(ctx, trip)

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast(utils.EventNewTripCreated, map[string]interface{}{"trip": trip})
	}

	s.log.WithTripID(trip.ID).WithUserID(driverID).Info("trip published")
	return trip, nil
}

func (s *TripService) enrichRoute(ctx context.Context, trip *models.Trip) {
	if s.routes == nil {
		return
	}
	origin := maps.Coordinate{Lat: trip.StartPoint.Lat(), Lng: trip.StartPoint.Lng()}
	dest := maps.Coordinate{Lat: trip.EndPoint.Lat(), Lng: trip.EndPoint.Lng()}

	info, err := s.routes.GetRouteInfo(ctx, origin, dest)
	if err != nil {
		s.log.WithError(err).Warn("route enrichment failed, publishing without route meta")
		return
	}
	trip.Distance = info.DistanceMeters
	trip.Duration = info.DurationSeconds

	if path, err := s.routes.GetEncodedPath(ctx, origin, dest); err == nil {
		trip.RoutePolyline = path
	} else {
		s.log.WithError(err).Warn("polyline enrichment failed")
	}
}

// Search returns open future trips matching the requested leg. A supplied
// date never moves the lower bound into the past.
func (s *TripService) Search(ctx context.Context, input *SearchTripsInput) ([]*models.Trip, error) {
	departingAfter := time.Now()
	if input.Date != nil && input.Date.After(departingAfter) {
		departingAfter = *input.Date
	}

	candidates, err := s.tripRepo.GetSearchCandidates(ctx, departingAfter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search candidates: %w", err)
	}

	params := s.matchParams
	if input.MaxDistanceKm > 0 {
		params.MaxDistanceKm = input.MaxDistanceKm
	}

	return s.matching.Match(candidates, input.PickupLng, input.PickupLat, input.DropLng, input.DropLat, params), nil
}

func (s *TripService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return trip, nil
}

func (s *TripService) ListOpen(ctx context.Context) ([]*models.Trip, error) {
	return s.tripRepo.GetOpenTrips(ctx, time.Now())
}

func (s *TripService) ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	return s.tripRepo.GetByDriver(ctx, driverID, params)
}

// Start moves a trip to ONGOING. Driver-only.
func (s *TripService) Start(ctx context.Context, tripID, callerID primitive.ObjectID) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.DriverID != callerID {
		return nil, ErrNotAuthorized
	}
	if trip.Status.IsTerminal() {
		return nil, ErrTerminalState
	}
	if trip.Status != models.TripStatusOpen && trip.Status != models.TripStatusFull {
		return nil, ErrTripNotOpen
	}

	if err := s.tripRepo.SetStatus(ctx, tripID, models.TripStatusOngoing); err != nil {
		return nil, fmt.Errorf("failed to start trip: %w", err)
	}
	trip.Status = models.TripStatusOngoing

	if s.hub != nil {
		s.hub.SendToTrip(tripID, websocket.Message{
			Type:      "tripStarted",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"trip_id": tripID.Hex(),
				"status":  models.TripStatusOngoing,
			},
		})
	}
	return trip, nil
}

// Complete finishes a trip. The status transition itself is the only
// must-succeed step; everything after it runs as independent post-commit
// tasks whose failures are counted but never abort sibling work or fail the
// response.
func (s *TripService) Complete(ctx context.Context, tripID, callerID primitive.ObjectID) (*CompletionReport, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.DriverID != callerID {
		return nil, ErrNotAuthorized
	}
	if trip.Status.IsTerminal() {
		return nil, ErrTerminalState
	}

	if err := s.tripRepo.MarkCompleted(ctx, tripID); err != nil {
		return nil, fmt.Errorf("failed to complete trip: %w", err)
	}

	report := &CompletionReport{TripID: tripID}

	// Post-commit task: driver reward.
	driverDistance := float64(trip.Distance)
	if driverDistance <= 0 {
		driverDistance = s.driverDistM
	}
	report.DriverReward = s.rewards.Award(ctx, trip.DriverID, driverDistance, true)
	s.notifier.Dispatch(ctx, trip.DriverID, models.NotificationTypeImpact,
		"Trip completed",
		fmt.Sprintf("You saved %.0f g of CO2 and earned %d credits.",
			report.DriverReward.CarbonSavedGrams, report.DriverReward.CreditsEarned),
		&tripID, models.RefTypeTrip)

	// Post-commit tasks: one per accepted passenger, each fault-isolated.
	accepted, err := s.bookingRepo.GetByTripAndStatus(ctx, tripID, models.BookingStatusAccepted)
	if err != nil {
		s.log.WithError(err).WithTripID(tripID).Error("failed to load accepted bookings for completion")
		report.FailedSteps++
		return report, nil
	}

	passengerDistance := float64(trip.Distance)
	for _, booking := range accepted {
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, models.BookingStatusCompleted); err != nil {
			s.log.WithError(err).WithBookingID(booking.ID).Error("failed to mark booking completed")
			report.FailedSteps++
			continue
		}

		result := s.rewards.Award(ctx, booking.PassengerID, passengerDistance, false)
		s.notifier.Dispatch(ctx, booking.PassengerID, models.NotificationTypeImpact,
			"Ride completed",
			fmt.Sprintf("You saved %.0f g of CO2 and earned %d credits.",
				result.CarbonSavedGrams, result.CreditsEarned),
			&booking.ID, models.RefTypeBooking)
		report.PassengersRewarded++
	}

	if report.FailedSteps > 0 {
		s.log.WithTripID(tripID).WithField("failed_steps", report.FailedSteps).
			Warn("trip completed with partial post-commit failures")
	}
	return report, nil
}

// AddExpense appends an expense to the trip ledger and recomputes the total.
// Driver-only.
func (s *TripService) AddExpense(ctx context.Context, tripID, callerID primitive.ObjectID, expense models.Expense) (*models.Trip, error) {
	if expense.Amount <= 0 {
		return nil, fmt.Errorf("%w: expense amount must be positive", ErrValidation)
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, ErrNotFound
	}
	if trip.DriverID != callerID {
		return nil, ErrNotAuthorized
	}

	trip.Expenses = append(trip.Expenses, expense)
	trip.RecomputeExpenses()

	if err := s.tripRepo.AddExpense(ctx, tripID, expense, trip.TotalExpenses); err != nil {
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}
	return trip, nil
}

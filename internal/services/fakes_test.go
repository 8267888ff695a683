package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/utils"
	"ecopool/pkg/logger"
)

// In-memory repository fakes. TryReserveSeats mirrors the store's
// conditional-update semantics under a mutex so concurrency tests exercise
// the same atomicity contract.

type fakeTripRepo struct {
	mu    sync.Mutex
	trips map[primitive.ObjectID]*models.Trip

	failMarkCompleted bool
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[primitive.ObjectID]*models.Trip)}
}

func (r *fakeTripRepo) Create(ctx context.Context, trip *models.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	copied := *trip
	r.trips[trip.ID] = &copied
	return nil
}

func (r *fakeTripRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *trip
	return &copied, nil
}

func (r *fakeTripRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (r *fakeTripRepo) GetOpenTrips(ctx context.Context, departingAfter time.Time) ([]*models.Trip, error) {
	return r.GetSearchCandidates(ctx, departingAfter)
}

func (r *fakeTripRepo) GetSearchCandidates(ctx context.Context, departingAfter time.Time) ([]*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Trip
	for _, trip := range r.trips {
		if trip.Status == models.TripStatusOpen && trip.AvailableSeats > 0 && trip.DepartureTime.After(departingAfter) {
			copied := *trip
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.Before(out[j].DepartureTime) })
	return out, nil
}

func (r *fakeTripRepo) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Trip
	for _, trip := range r.trips {
		if trip.DriverID == driverID {
			copied := *trip
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTripRepo) TryReserveSeats(ctx context.Context, id primitive.ObjectID, seats int) (*models.Trip, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return nil, false, nil
	}
	if trip.AvailableSeats < seats {
		return nil, false, nil
	}
	if trip.Status != models.TripStatusOpen && trip.Status != models.TripStatusFull {
		return nil, false, nil
	}
	trip.AvailableSeats -= seats
	trip.UpdatedAt = time.Now()
	copied := *trip
	return &copied, true, nil
}

func (r *fakeTripRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status models.TripStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return ErrNotFound
	}
	trip.Status = status
	return nil
}

func (r *fakeTripRepo) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	if r.failMarkCompleted {
		return ErrNotFound
	}
	return r.SetStatus(ctx, id, models.TripStatusCompleted)
}

func (r *fakeTripRepo) AddExpense(ctx context.Context, id primitive.ObjectID, expense models.Expense, newTotal float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return ErrNotFound
	}
	trip.Expenses = append(trip.Expenses, expense)
	trip.TotalExpenses = newTotal
	return nil
}

func (r *fakeTripRepo) CountByDriverAndStatus(ctx context.Context, driverID primitive.ObjectID, status models.TripStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, trip := range r.trips {
		if trip.DriverID == driverID && trip.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeTripRepo) CountByStatuses(ctx context.Context, statuses []models.TripStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, trip := range r.trips {
		for _, s := range statuses {
			if trip.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeTripRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.trips)), nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking

	failStatusFor map[primitive.ObjectID]bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:      make(map[primitive.ObjectID]*models.Booking),
		failStatusFor: make(map[primitive.ObjectID]bool),
	}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failStatusFor[id] {
		return ErrNotFound
	}
	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBookingRepo) UpdatePayment(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, method models.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	booking.PaymentStatus = status
	booking.PaymentMethod = method
	return nil
}

func (r *fakeBookingRepo) GetByTrip(ctx context.Context, tripID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.TripID == tripID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByTripAndStatus(ctx context.Context, tripID primitive.ObjectID, status models.BookingStatus) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.TripID == tripID && b.Status == status {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBookingRepo) GetByPassenger(ctx context.Context, passengerID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.PassengerID == passengerID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetPendingForTrips(ctx context.Context, tripIDs []primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[primitive.ObjectID]bool, len(tripIDs))
	for _, id := range tripIDs {
		ids[id] = true
	}
	var out []*models.Booking
	for _, b := range r.bookings {
		if ids[b.TripID] && b.Status == models.BookingStatusPending {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetSettledForUser(ctx context.Context, passengerID primitive.ObjectID, driverTripIDs []primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[primitive.ObjectID]bool, len(driverTripIDs))
	for _, id := range driverTripIDs {
		ids[id] = true
	}
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.PaymentStatus == models.PaymentStatusPending {
			continue
		}
		if b.PassengerID == passengerID || ids[b.TripID] {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByPassengerAndStatus(ctx context.Context, passengerID primitive.ObjectID, status models.BookingStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.PassengerID == passengerID && b.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) CountByStatuses(ctx context.Context, statuses []models.BookingStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		for _, s := range statuses {
			if b.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) SumFaresByStatus(ctx context.Context, status models.BookingStatus) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, b := range r.bookings {
		if b.Status == status {
			sum += b.Fare
		}
	}
	return sum, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	failRewardFor map[primitive.ObjectID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[primitive.ObjectID]*models.User),
		failRewardFor: make(map[primitive.ObjectID]bool),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (r *fakeUserRepo) ApplyRewardDeltas(ctx context.Context, id primitive.ObjectID, carbonGrams float64, credits, points int, level string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRewardFor[id] {
		return ErrNotFound
	}
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.CarbonSaved += carbonGrams
	user.RideCredits += credits
	user.LoyaltyPoints += points
	user.Level = level
	return nil
}

func (r *fakeUserRepo) SetTrustScore(ctx context.Context, id primitive.ObjectID, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.TrustScore = score
	return nil
}

func (r *fakeUserRepo) SetVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.VerificationStatus = status
	user.IsVerified = verified
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.HasRole(role) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) CountByVerificationStatus(ctx context.Context, status models.VerificationStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.VerificationStatus == status {
			n++
		}
	}
	return n, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeNotificationRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, notif := range r.notifications {
		if notif.UserID == userID && !notif.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeNotificationRepo) forUser(userID primitive.ObjectID) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func newTestNotifier(repo *fakeNotificationRepo) *NotificationService {
	return NewNotificationService(repo, nil, logger.NewNop())
}

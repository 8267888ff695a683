package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/pkg/logger"
	"ecopool/pkg/payment"
)

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[primitive.ObjectID]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[primitive.ObjectID]*models.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	copied := *p
	r.payments[p.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) GetByBooking(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentRecordStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

type fakeGateway struct {
	mu       sync.Mutex
	name     string
	held     map[string]float64
	captured map[string]bool
	refunded map[string]bool
	failHold bool
	seq      int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		name:     string(models.PaymentProviderRazorpay),
		held:     make(map[string]float64),
		captured: make(map[string]bool),
		refunded: make(map[string]bool),
	}
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) Hold(ctx context.Context, req *payment.ChargeRequest) (*payment.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failHold {
		return nil, errors.New("gateway declined")
	}
	g.seq++
	txn := fmt.Sprintf("txn_%d", g.seq)
	g.held[txn] = req.Amount
	return &payment.ChargeResult{TransactionID: txn, Status: "held", Amount: req.Amount, Currency: req.Currency}, nil
}

func (g *fakeGateway) Capture(ctx context.Context, transactionID string) (*payment.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amount, ok := g.held[transactionID]
	if !ok {
		return nil, errors.New("unknown transaction")
	}
	g.captured[transactionID] = true
	return &payment.ChargeResult{TransactionID: transactionID, Status: "captured", Amount: amount}, nil
}

func (g *fakeGateway) Refund(ctx context.Context, transactionID string, amount float64, reason string) (*payment.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[transactionID]; !ok {
		return nil, errors.New("unknown transaction")
	}
	g.refunded[transactionID] = true
	return &payment.ChargeResult{TransactionID: transactionID, Status: "refunded", Amount: amount}, nil
}

type paymentFixture struct {
	svc         *PaymentService
	gateway     *fakeGateway
	paymentRepo *fakePaymentRepo
	bookingRepo *fakeBookingRepo
	trip        *models.Trip
	booking     *models.Booking
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	ctx := context.Background()

	tripRepo := newFakeTripRepo()
	bookingRepo := newFakeBookingRepo()
	paymentRepo := newFakePaymentRepo()
	gateway := newFakeGateway()

	trip := openTrip(77.5946, 12.9716, 77.6245, 12.9352)
	require.NoError(t, tripRepo.Create(ctx, trip))

	booking := &models.Booking{
		TripID:        trip.ID,
		PassengerID:   primitive.NewObjectID(),
		SeatsBooked:   2,
		Fare:          200,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodOnline,
	}
	require.NoError(t, bookingRepo.Create(ctx, booking))

	svc := NewPaymentService(paymentRepo, bookingRepo, tripRepo, gateway, "INR", logger.NewNop())
	return &paymentFixture{
		svc:         svc,
		gateway:     gateway,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		trip:        trip,
		booking:     booking,
	}
}

func TestPaymentHold(t *testing.T) {
	ctx := context.Background()

	t.Run("holds fare and mirrors status onto the booking", func(t *testing.T) {
		f := newPaymentFixture(t)

		record, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRecordHeld, record.Status)
		assert.Equal(t, 200.0, record.Amount)
		assert.NotEmpty(t, record.TransactionID)

		booking, err := f.bookingRepo.GetByID(ctx, f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusHeld, booking.PaymentStatus)
		assert.Equal(t, models.PaymentMethodOnline, booking.PaymentMethod)
	})

	t.Run("record carries the gateway's provider", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.name = "STRIPE"

		record, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentProviderStripe, record.Provider)

		f = newPaymentFixture(t)
		record, err = f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentProviderRazorpay, record.Provider)
	})

	t.Run("only the passenger may hold", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.Hold(ctx, f.booking.ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("gateway decline surfaces and nothing is recorded", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.failHold = true

		_, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.Error(t, err)

		_, err = f.paymentRepo.GetByBooking(ctx, f.booking.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("double hold is rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)
		_, err = f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestPaymentCaptureAndRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("driver captures a held payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		held, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)

		record, err := f.svc.Capture(ctx, f.booking.ID, f.trip.DriverID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRecordPaid, record.Status)
		assert.True(t, f.gateway.captured[held.TransactionID])

		booking, err := f.bookingRepo.GetByID(ctx, f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, booking.PaymentStatus)
	})

	t.Run("refund releases a held payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		held, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)

		record, err := f.svc.Refund(ctx, f.booking.ID, f.booking.PassengerID, "driver rejected")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRecordRefunded, record.Status)
		assert.True(t, f.gateway.refunded[held.TransactionID])

		booking, err := f.bookingRepo.GetByID(ctx, f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, booking.PaymentStatus)
	})

	t.Run("capture without a hold is rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.Capture(ctx, f.booking.ID, f.trip.DriverID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("captured payment cannot be refunded", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)
		_, err = f.svc.Capture(ctx, f.booking.ID, f.trip.DriverID)
		require.NoError(t, err)

		_, err = f.svc.Refund(ctx, f.booking.ID, f.booking.PassengerID, "too late")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("outsiders cannot capture", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.Hold(ctx, f.booking.ID, f.booking.PassengerID)
		require.NoError(t, err)

		_, err = f.svc.Capture(ctx, f.booking.ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

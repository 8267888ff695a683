package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/pkg/logger"
)

// ChatService fans a trip-room chat message out as message notifications to
// the other participants, so riders who were offline still see it. The
// realtime copy is relayed by the hub before this runs.
type ChatService struct {
	tripRepo    interfaces.TripRepository
	bookingRepo interfaces.BookingRepository
	notifier    *NotificationService
	log         *logger.Logger
}

func NewChatService(
	tripRepo interfaces.TripRepository,
	bookingRepo interfaces.BookingRepository,
	notifier *NotificationService,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		log:         log,
	}
}

// HandleMessage is installed as the hub's chat hook. It never returns an
// error; relay already happened and persistence here is best-effort.
func (s *ChatService) HandleMessage(tripID, senderID primitive.ObjectID, body string) {
	if body == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		s.log.WithError(err).WithTripID(tripID).Warn("chat message for unknown trip")
		return
	}

	recipients := map[primitive.ObjectID]bool{}
	if trip.DriverID != senderID {
		recipients[trip.DriverID] = true
	}

	accepted, err := s.bookingRepo.GetByTripAndStatus(ctx, tripID, models.BookingStatusAccepted)
	if err != nil {
		s.log.WithError(err).WithTripID(tripID).Warn("failed to load chat recipients")
	} else {
		for _, b := range accepted {
			if b.PassengerID != senderID {
				recipients[b.PassengerID] = true
			}
		}
	}

	preview := truncateRunes(body, 80)
	for userID := range recipients {
		s.notifier.Dispatch(ctx, userID, models.NotificationTypeMessage,
			"New trip message",
			fmt.Sprintf("Trip chat: %s", preview),
			&tripID, models.RefTypeTrip)
	}
}

// truncateRunes shortens s to at most max runes, never splitting a multi-byte
// character.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

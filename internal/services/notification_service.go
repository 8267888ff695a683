package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/internal/utils"
	"ecopool/pkg/logger"
	"ecopool/pkg/websocket"
)

// NotificationService persists notifications and pushes them to connected
// clients over the websocket hub. Dispatch is fire-and-forget: failures are
// logged, never surfaced to the triggering flow.
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
	hub              *websocket.Hub
	log              *logger.Logger
}

func NewNotificationService(notificationRepo interfaces.NotificationRepository, hub *websocket.Hub, log *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
		log:              log,
	}
}

// Dispatch stores a notification for userID and pushes it to their room if
// they are connected.
func (s *NotificationService) Dispatch(ctx context.Context, userID primitive.ObjectID, notifType models.NotificationType, title, body string, refID *primitive.ObjectID, refType models.RefType) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Body:    body,
		RefID:   refID,
		RefType: refType,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.log.WithError(err).WithUserID(userID).Error("failed to persist notification")
		return
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, utils.EventNewNotification, map[string]interface{}{
			"id":    notification.ID.Hex(),
			"type":  notification.Type,
			"title": notification.Title,
			"body":  notification.Body,
		})
	}
}

// List returns a page of the user's notifications together with the unread
// count.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, int64, error) {
	notifications, total, err := s.notificationRepo.GetByUserID(ctx, userID, params)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notificationRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithUserID(userID).Warn("failed to count unread notifications")
		unread = 0
	}

	return notifications, total, unread, nil
}

// MarkAsRead flags a notification as read. Only the recipient may do so.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return ErrNotFound
	}
	if notification.UserID != userID {
		return ErrNotAuthorized
	}
	return s.notificationRepo.MarkAsRead(ctx, notificationID)
}

// Delete removes a notification. Only the recipient may do so.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return ErrNotFound
	}
	if notification.UserID != userID {
		return ErrNotAuthorized
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}

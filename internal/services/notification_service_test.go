package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/utils"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	t.Run("dispatch persists and list reports unread count", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		svc := newTestNotifier(repo)

		refID := primitive.NewObjectID()
		svc.Dispatch(ctx, userID, models.NotificationTypeMatch, "New booking request", "body", &refID, models.RefTypeBooking)
		svc.Dispatch(ctx, userID, models.NotificationTypeImpact, "Trip completed", "body", nil, "")

		params := &utils.PaginationParams{Page: 1, PageSize: 10}
		notifications, total, unread, err := svc.List(ctx, userID, params)
		require.NoError(t, err)
		assert.Len(t, notifications, 2)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, int64(2), unread)
	})

	t.Run("mark as read is recipient-gated", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		svc := newTestNotifier(repo)

		svc.Dispatch(ctx, userID, models.NotificationTypeSystem, "title", "body", nil, "")
		notifs := repo.forUser(userID)
		require.Len(t, notifs, 1)

		err := svc.MarkAsRead(ctx, primitive.NewObjectID(), notifs[0].ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)

		require.NoError(t, svc.MarkAsRead(ctx, userID, notifs[0].ID))
		unread, err := repo.GetUnreadCount(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, unread)
	})

	t.Run("delete is recipient-gated", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		svc := newTestNotifier(repo)

		svc.Dispatch(ctx, userID, models.NotificationTypeSystem, "title", "body", nil, "")
		notifs := repo.forUser(userID)
		require.Len(t, notifs, 1)

		err := svc.Delete(ctx, primitive.NewObjectID(), notifs[0].ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)

		require.NoError(t, svc.Delete(ctx, userID, notifs[0].ID))
		assert.Empty(t, repo.forUser(userID))
	})

	t.Run("missing notification is not found", func(t *testing.T) {
		svc := newTestNotifier(newFakeNotificationRepo())
		err := svc.MarkAsRead(ctx, userID, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

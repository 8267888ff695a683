package handlers

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/services"
	"ecopool/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications returns the caller's notifications with the unread count
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, unread, err := h.notificationService.List(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meta := &utils.Meta{Pagination: utils.NewPaginationMeta(params, total)}
	utils.SuccessResponseWithMeta(c, "Notifications retrieved successfully", gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	}, meta)
}

// MarkAsRead flags one notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), userID, notificationID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}

// DeleteNotification removes one notification
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), userID, notificationID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification deleted", nil)
}

package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetNotifications returns the caller's notifications newest first along
// with the unread count
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	ctx := c.Request.Context()

	list, err := h.notifications.List(ctx, userID, limit, offset)
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}
	unread, err := h.notifications.UnreadCount(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}
	if list == nil {
		list = []models.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{"notifications": list, "unread_count": unread})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to count notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkOneRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	found, err := h.notifications.MarkOneRead(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "Failed to mark notification as read")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkRead marks the listed notifications as read. An empty list does nothing.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.MarkReadRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var marked int64
	if len(input.IDs) > 0 {
		var err error
		if marked, err = h.notifications.MarkRead(c.Request.Context(), userID, input.IDs); err != nil {
			respondError(c, err, "Failed to mark notifications as read")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "marked": marked})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	marked, err := h.notifications.MarkRead(c.Request.Context(), userID, nil)
	if err != nil {
		respondError(c, err, "Failed to mark notifications as read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "marked": marked})
}

// DeleteNotification reports success=false for missing or foreign ids
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.notifications.DeleteNotification(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to delete notification")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List handles retrieving the caller's notifications
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := c.Get("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	notifications, err := h.notificationService.List(c.Request.Context(), userID.(int), limit)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, model.NotificationListResponse{
		Data: model.NotificationList{Notifications: notifications},
	})
}

// UnreadCount handles retrieving the caller's unread notification count
// GET /api/notifications/count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, _ := c.Get("userID")

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID.(int))
	if err != nil {
		h.logger.Error("failed to get unread notification count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get notification count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead handles marking a notification as read
// PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification ID"})
		return
	}

	userID, _ := c.Get("userID")
	if err := h.notificationService.MarkRead(c.Request.Context(), userID.(int), id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
			return
		}
		h.logger.Error("failed to mark notification as read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notification"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete handles removing a notification
// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification ID"})
		return
	}

	userID, _ := c.Get("userID")
	if err := h.notificationService.Delete(c.Request.Context(), userID.(int), id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
			return
		}
		h.logger.Error("failed to delete notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Create handles creating a notification for a user (admin)
// POST /api/admin/notifications
func (h *NotificationHandler) Create(c *gin.Context) {
	var request model.NotificationCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	id, err := h.notificationService.Create(c.Request.Context(), &request)
	if err != nil {
		h.logger.Error("failed to create notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

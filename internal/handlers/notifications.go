package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/pkg/response"
)

// NotificationHandler exposes HTTP endpoints for notifications.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns notifications newest first. `?unread=true` hides read ones.
func (h *NotificationHandler) List(c *gin.Context) {
	unread := parseBoolQuery(c, "unread")
	items, err := h.service.List(requestContext(c), services.ListNotificationsInput{
		UnreadOnly: unread != nil && *unread,
		Limit:      parseIntQuery(c, "limit", 0),
	})
	if err != nil {
		response.Error(c, asAppError(err, "Failed to fetch notifications"))
		return
	}

	response.Success(c, http.StatusOK, items)
}

// MarkRead toggles a notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notification, err := h.service.MarkRead(requestContext(c), pathID(c))
	if err != nil {
		response.Error(c, asAppError(err, "Failed to update notification"))
		return
	}

	response.Success(c, http.StatusOK, notification)
}

// MarkAllRead marks all notifications read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.service.MarkAllRead(requestContext(c))
	if err != nil {
		response.Error(c, asAppError(err, "Failed to update notifications"))
		return
	}

	response.Message(c, http.StatusOK, "Notifications marked as read", gin.H{"updated": count})
}

// Delete removes a notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), pathID(c)); err != nil {
		response.Error(c, asAppError(err, "Failed to delete notification"))
		return
	}

	response.Message(c, http.StatusOK, "Notification deleted successfully", nil)
}

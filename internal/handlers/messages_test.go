package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/roomrental/internal/handlers/testutil"
	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/services"
)

func inquiry(roomID string) gin.H {
	return gin.H{
		"roomId":      roomID,
		"senderName":  "Jordan Lee",
		"senderEmail": "jordan@example.com",
		"content":     "Is the room still available?",
	}
}

func TestCreateMessageNotifies(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddProperty("p1", "Downtown Lofts")
	env.AddRoom("1", "p1", 900)

	w := env.Request(http.MethodPost, "/api/messages", inquiry("1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	message := testutil.Decode[models.Message](t, w)
	require.Equal(t, models.PriorityMedium, message.Priority)
	require.False(t, message.IsRead)

	w = env.Request(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	notifications := testutil.Decode[[]models.Notification](t, w)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationMessage, notifications[0].Type)
	require.Equal(t, "New message from Jordan Lee", notifications[0].Title)
	require.Equal(t, "Inquiry about Room 1", notifications[0].Message)
}

func TestCreateMessageValidation(t *testing.T) {
	env := testutil.NewEnv(t)

	tests := []struct {
		name    string
		body    gin.H
		message string
	}{
		{
			name:    "missing content",
			body:    gin.H{"roomId": "1", "senderName": "A", "senderEmail": "a@example.com"},
			message: "All fields are required",
		},
		{
			name:    "blank name",
			body:    gin.H{"roomId": "1", "senderName": "  ", "senderEmail": "a@example.com", "content": "hi"},
			message: "All fields are required",
		},
		{
			name:    "invalid email",
			body:    gin.H{"roomId": "1", "senderName": "A", "senderEmail": "not-an-email", "content": "hi"},
			message: "Invalid email",
		},
		{
			name:    "unknown priority",
			body:    gin.H{"roomId": "1", "senderName": "A", "senderEmail": "a@example.com", "content": "hi", "priority": "urgent"},
			message: "priority must be one of: low, medium, high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.Request(http.MethodPost, "/api/messages", tc.body)
			testutil.RequireError(t, w, http.StatusBadRequest, tc.message)
		})
	}

	w := env.Request(http.MethodGet, "/api/messages", nil)
	require.Empty(t, testutil.Decode[[]services.MessageView](t, w))
}

func TestListMessagesByRoom(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddProperty("p1", "Downtown Lofts")
	env.AddRoom("1", "p1", 900)
	env.AddRoom("2", "p1", 1000)

	require.Equal(t, http.StatusCreated, env.Request(http.MethodPost, "/api/messages", inquiry("1")).Code)
	env.Clock.Advance(time.Minute)
	require.Equal(t, http.StatusCreated, env.Request(http.MethodPost, "/api/messages", inquiry("2")).Code)

	w := env.Request(http.MethodGet, "/api/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, testutil.Decode[[]services.MessageView](t, w), 2)

	w = env.Request(http.MethodGet, "/api/messages?roomId=2", nil)
	messages := testutil.Decode[[]services.MessageView](t, w)
	require.Len(t, messages, 1)
	require.Equal(t, "2", messages[0].RoomID)
	require.NotNil(t, messages[0].Room)
	require.Equal(t, "Room 2", messages[0].Room.Name)
}

func TestMarkReadAndDeleteMessage(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)

	w := env.Request(http.MethodPost, "/api/messages", inquiry("1"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := testutil.Decode[models.Message](t, w).ID

	w = env.Request(http.MethodPatch, "/api/messages/"+id+"/read", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Message marked as read", testutil.Decode[map[string]any](t, w)["message"])

	w = env.Request(http.MethodGet, "/api/messages", nil)
	messages := testutil.Decode[[]services.MessageView](t, w)
	require.Len(t, messages, 1)
	require.True(t, messages[0].IsRead)

	w = env.Request(http.MethodDelete, "/api/messages/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Message deleted successfully", testutil.Decode[map[string]any](t, w)["message"])

	w = env.Request(http.MethodDelete, "/api/messages/"+id, nil)
	testutil.RequireError(t, w, http.StatusNotFound, "Message not found")

	w = env.Request(http.MethodPatch, "/api/messages/missing/read", nil)
	testutil.RequireError(t, w, http.StatusNotFound, "Message not found")
}

func TestCreateMessageRateLimited(t *testing.T) {
	env := testutil.NewEnv(t, testutil.WithRateLimit(1, time.Minute))
	env.AddRoom("1", "p1", 900)

	w := env.Request(http.MethodPost, "/api/messages", inquiry("1"))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = env.Request(http.MethodPost, "/api/messages", inquiry("1"))
	testutil.RequireError(t, w, http.StatusTooManyRequests, "Too many requests, please try again later")
	require.NotEmpty(t, w.Header().Get("Retry-After"))

	// reads are not limited
	w = env.Request(http.MethodGet, "/api/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/pkg/response"
)

// MessageHandler exposes tenant inquiries.
type MessageHandler struct {
	messages *services.MessageService
}

// NewMessageHandler constructs a message handler.
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type createMessageRequest struct {
	RoomID      string `json:"roomId"`
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	SenderPhone string `json:"senderPhone"`
	Content     string `json:"content"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// List returns inquiries, optionally for a single room.
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.messages.List(requestContext(c), c.Query("roomId"))
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusOK, messages)
}

// Create stores an inquiry from the public site.
func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	message, err := h.messages.Create(requestContext(c), services.CreateMessageInput{
		RoomID:      req.RoomID,
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		SenderPhone: req.SenderPhone,
		Content:     req.Content,
		Priority:    models.Priority(req.Priority),
	})
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusCreated, message)
}

// MarkRead flags an inquiry as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if _, err := h.messages.MarkRead(requestContext(c), pathID(c)); err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Message(c, http.StatusOK, "Message marked as read", nil)
}

// Delete removes an inquiry.
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.messages.Delete(requestContext(c), pathID(c)); err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Message(c, http.StatusOK, "Message deleted successfully", nil)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
	apperrors "github.com/charlesng35/roomrental/pkg/errors"
	"github.com/charlesng35/roomrental/pkg/validator"
)

const messagesActionURL = "/admin/messages"

// CreateMessageInput is an inquiry submitted from the public site.
type CreateMessageInput struct {
	RoomID      string
	SenderName  string
	SenderEmail string
	SenderPhone string
	Content     string
	Priority    models.Priority
}

// MessageView is a message with the room it refers to.
type MessageView struct {
	models.Message
	Room *models.Room `json:"room,omitempty"`
}

// MessageService manages tenant inquiries.
type MessageService struct {
	store    store.Store
	notifier NotificationSink
	now      func() time.Time
}

// NewMessageService constructs a MessageService.
func NewMessageService(st store.Store, notifier NotificationSink, now func() time.Time) (*MessageService, error) {
	if st == nil {
		return nil, errors.New("message service: store is required")
	}
	if notifier == nil {
		return nil, errors.New("message service: notification sink is required")
	}
	if now == nil {
		now = time.Now
	}
	return &MessageService{store: st, notifier: notifier, now: now}, nil
}

// List returns messages, optionally for one room, each with its room attached.
func (s *MessageService) List(ctx context.Context, roomID string) ([]MessageView, error) {
	ctx = ensureContext(ctx)
	messages, err := s.store.Messages().List(ctx, store.MessageFilter{RoomID: strings.TrimSpace(roomID)})
	if err != nil {
		return nil, fmt.Errorf("message service: list messages: %w", err)
	}

	rooms := make(map[string]*models.Room)
	views := make([]MessageView, 0, len(messages))
	for _, message := range messages {
		room, ok := rooms[message.RoomID]
		if !ok {
			room, err = s.store.Rooms().Get(ctx, message.RoomID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("message service: load room: %w", err)
			}
			rooms[message.RoomID] = room
		}
		views = append(views, MessageView{Message: message, Room: room})
	}
	return views, nil
}

// Create stores an inquiry and notifies administrators about it.
func (s *MessageService) Create(ctx context.Context, input CreateMessageInput) (*models.Message, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(input.RoomID) == "" ||
		strings.TrimSpace(input.SenderName) == "" ||
		strings.TrimSpace(input.SenderEmail) == "" ||
		strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewBadRequest("All fields are required")
	}
	if !validator.IsEmail(input.SenderEmail) {
		return nil, apperrors.NewBadRequest("Invalid email")
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("Invalid priority %q", priority))
	}

	now := s.now()
	message := &models.Message{
		RoomID:      strings.TrimSpace(input.RoomID),
		SenderName:  strings.TrimSpace(input.SenderName),
		SenderEmail: strings.TrimSpace(input.SenderEmail),
		SenderPhone: strings.TrimSpace(input.SenderPhone),
		Content:     strings.TrimSpace(input.Content),
		Priority:    priority,
	}
	message.CreatedAt = now
	message.UpdatedAt = now

	if err := s.store.Messages().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("message service: create message: %w", err)
	}

	roomName := "a room"
	if room, err := s.store.Rooms().Get(ctx, message.RoomID); err == nil {
		roomName = room.Name
	}
	if _, err := s.notifier.Notify(ctx, CreateNotificationInput{
		Type:      models.NotificationMessage,
		Title:     "New message from " + message.SenderName,
		Message:   "Inquiry about " + roomName,
		Priority:  priority,
		ActionURL: messagesActionURL,
		Metadata: map[string]any{
			"messageId": message.ID,
			"roomId":    message.RoomID,
		},
	}); err != nil {
		return nil, fmt.Errorf("message service: notify: %w", err)
	}

	return message, nil
}

// MarkRead flags a message as read.
func (s *MessageService) MarkRead(ctx context.Context, id string) (*models.Message, error) {
	ctx = ensureContext(ctx)
	message, err := s.store.Messages().Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, translateStoreError("message service", "load message", "Message", err)
	}
	message.IsRead = true
	message.UpdatedAt = s.now()
	if err := s.store.Messages().Update(ctx, message); err != nil {
		return nil, translateStoreError("message service", "mark read", "Message", err)
	}
	return message, nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	err := s.store.Messages().Delete(ctx, strings.TrimSpace(id))
	return translateStoreError("message service", "delete message", "Message", err)
}

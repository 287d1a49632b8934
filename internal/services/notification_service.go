package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/realtime"
	"github.com/charlesng35/roomrental/internal/store"
	apperrors "github.com/charlesng35/roomrental/pkg/errors"
	"github.com/charlesng35/roomrental/pkg/metrics"
)

// CreateNotificationInput defines attributes required to persist a notification.
type CreateNotificationInput struct {
	Type      models.NotificationType
	Title     string
	Message   string
	Priority  models.Priority
	ActionURL string
	Metadata  map[string]any
}

// ListNotificationsInput defines filters for querying notifications.
type ListNotificationsInput struct {
	UnreadOnly bool
	Limit      int
}

// NotificationEventPayload represents data sent to realtime consumers.
type NotificationEventPayload struct {
	Notification   *models.Notification `json:"notification,omitempty"`
	NotificationID string               `json:"notificationId,omitempty"`
	Count          int64                `json:"count,omitempty"`
}

// NotificationService manages back office notifications.
type NotificationService struct {
	store  store.Store
	events EventPublisher
	now    func() time.Time
}

var _ NotificationSink = (*NotificationService)(nil)

// NewNotificationService constructs a NotificationService. events may be nil.
func NewNotificationService(st store.Store, events EventPublisher, now func() time.Time) (*NotificationService, error) {
	if st == nil {
		return nil, errors.New("notification service: store is required")
	}
	if events == nil {
		events = noopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationService{store: st, events: events, now: now}, nil
}

// List returns notifications ordered by recency.
func (s *NotificationService) List(ctx context.Context, input ListNotificationsInput) ([]models.Notification, error) {
	ctx = ensureContext(ctx)
	limit := input.Limit
	if limit < 0 || limit > 500 {
		limit = 0
	}
	rows, err := s.store.Notifications().List(ctx, store.NotificationFilter{
		UnreadOnly: input.UnreadOnly,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}
	return rows, nil
}

// Notify persists a notification and broadcasts it.
func (s *NotificationService) Notify(ctx context.Context, input CreateNotificationInput) (*models.Notification, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(string(input.Type)) == "" {
		return nil, errors.New("notification service: type is required")
	}
	priority := input.Priority
	if !priority.Valid() {
		priority = models.PriorityMedium
	}

	now := s.now()
	notification := &models.Notification{
		Type:      input.Type,
		Title:     strings.TrimSpace(input.Title),
		Message:   strings.TrimSpace(input.Message),
		Priority:  priority,
		ActionURL: strings.TrimSpace(input.ActionURL),
	}
	notification.CreatedAt = now
	notification.UpdatedAt = now
	if len(input.Metadata) > 0 {
		notification.Metadata = make(map[string]any, len(input.Metadata))
		for k, v := range input.Metadata {
			notification.Metadata[k] = v
		}
	}

	if err := s.store.Notifications().Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("notification service: create notification: %w", err)
	}
	metrics.NotificationsCreated.WithLabelValues(string(notification.Type)).Inc()

	s.events.Publish(realtime.StreamNotifications, "notification.created", &NotificationEventPayload{
		Notification: notification,
	})
	return notification, nil
}

// MarkRead sets the read flag on one notification.
func (s *NotificationService) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	ctx = ensureContext(ctx)
	notification, err := s.store.Notifications().Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, translateStoreError("notification service", "load notification", "Notification", err)
	}
	if notification.IsRead {
		return notification, nil
	}

	now := s.now()
	notification.IsRead = true
	notification.ReadAt = &now
	notification.UpdatedAt = now
	if err := s.store.Notifications().Update(ctx, notification); err != nil {
		return nil, translateStoreError("notification service", "mark read", "Notification", err)
	}

	s.events.Publish(realtime.StreamNotifications, "notification.read", &NotificationEventPayload{
		Notification:   notification,
		NotificationID: notification.ID,
	})
	return notification, nil
}

// MarkAllRead marks every unread notification as read and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	count, err := s.store.Notifications().MarkAllRead(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("notification service: mark all read: %w", err)
	}
	s.events.Publish(realtime.StreamNotifications, "notification.read_all", &NotificationEventPayload{Count: count})
	return count, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if err := s.store.Notifications().Delete(ctx, id); err != nil {
		return translateStoreError("notification service", "delete notification", "Notification", err)
	}
	s.events.Publish(realtime.StreamNotifications, "notification.deleted", &NotificationEventPayload{
		NotificationID: id,
	})
	return nil
}

// PurgeRead deletes read notifications created more than retention ago.
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	ctx = ensureContext(ctx)
	if retention <= 0 {
		return 0, apperrors.NewBadRequest("retention must be positive")
	}
	removed, err := s.store.Notifications().DeleteReadBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("notification service: purge read: %w", err)
	}
	return removed, nil
}

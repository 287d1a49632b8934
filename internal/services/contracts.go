package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
	apperrors "github.com/charlesng35/roomrental/pkg/errors"
)

// RoomAvailabilityUpdate is the room-side effect of a lease transition. The Lease
// Lifecycle Manager computes it and the Room Directory applies it.
type RoomAvailabilityUpdate struct {
	RoomID         string     `json:"roomId"`
	IsAvailable    bool       `json:"isAvailable"`
	AvailableFrom  *time.Time `json:"availableFrom,omitempty"`
	CurrentLeaseID *string    `json:"currentLeaseId,omitempty"`
	// Price is set only when the transition changes the asking rent.
	Price *float64 `json:"price,omitempty"`
}

// RoomAvailabilityApplier is the only writer of a room's availability projection.
type RoomAvailabilityApplier interface {
	ApplyAvailability(ctx context.Context, update RoomAvailabilityUpdate) (*models.Room, error)
}

// NotificationSink receives events raised by lease and message operations.
type NotificationSink interface {
	Notify(ctx context.Context, input CreateNotificationInput) (*models.Notification, error)
}

// EventPublisher pushes change events to realtime subscribers. *realtime.Hub satisfies it.
type EventPublisher interface {
	Publish(stream, event string, data any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, any) {}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// translateStoreError maps repository errors onto application errors.
func translateStoreError(service, op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewNotFound(resource)
	}
	if errors.Is(err, store.ErrConflict) {
		return apperrors.NewConflict(resource)
	}
	return fmt.Errorf("%s: %s: %w", service, op, err)
}

func timePtr(t time.Time) *time.Time { return &t }

func stringPtr(s string) *string { return &s }

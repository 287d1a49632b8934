// Package store defines the persistence boundary of the rental back office. Services
// depend only on these interfaces; memory and gormstore provide implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("store: record not found")

// ErrConflict is returned when a record with the same id already exists.
var ErrConflict = errors.New("store: record already exists")

// Store groups the repositories backing the application.
type Store interface {
	Properties() PropertyRepository
	Rooms() RoomRepository
	Leases() LeaseRepository
	LeaseActions() LeaseActionRepository
	Messages() MessageRepository
	Notifications() NotificationRepository

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// RoomFilter narrows room listings. Zero values match everything.
type RoomFilter struct {
	IsAvailable *bool
	PropertyID  string
}

// LeaseFilter narrows lease listings. Zero values match everything.
type LeaseFilter struct {
	RoomID   string
	Statuses []models.LeaseStatus
}

// MessageFilter narrows message listings.
type MessageFilter struct {
	RoomID     string
	UnreadOnly bool
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

// PropertyRepository persists properties ordered by creation time.
type PropertyRepository interface {
	List(ctx context.Context) ([]models.Property, error)
	Get(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id string) error
}

// RoomRepository persists rooms ordered by creation time.
type RoomRepository interface {
	List(ctx context.Context, filter RoomFilter) ([]models.Room, error)
	Get(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

// LeaseRepository persists leases ordered by creation time. Leases are never deleted.
type LeaseRepository interface {
	List(ctx context.Context, filter LeaseFilter) ([]models.Lease, error)
	Get(ctx context.Context, id string) (*models.Lease, error)
	Create(ctx context.Context, lease *models.Lease) error
	Update(ctx context.Context, lease *models.Lease) error
}

// LeaseActionRepository is the append-only action log.
type LeaseActionRepository interface {
	Append(ctx context.Context, action *models.LeaseAction) error
	// List returns actions oldest first; an empty leaseID returns every action.
	List(ctx context.Context, leaseID string) ([]models.LeaseAction, error)
}

// MessageRepository persists tenant inquiries ordered by creation time.
type MessageRepository interface {
	List(ctx context.Context, filter MessageFilter) ([]models.Message, error)
	Get(ctx context.Context, id string) (*models.Message, error)
	Create(ctx context.Context, message *models.Message) error
	Update(ctx context.Context, message *models.Message) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository persists notifications; List returns newest first.
type NotificationRepository interface {
	List(ctx context.Context, filter NotificationFilter) ([]models.Notification, error)
	Get(ctx context.Context, id string) (*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
	Delete(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, at time.Time) (int64, error)
	// DeleteReadBefore purges read notifications created before cutoff.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

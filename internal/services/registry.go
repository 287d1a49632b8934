package services

import (
	"errors"
	"time"

	"github.com/charlesng35/roomrental/internal/store"
)

// RegistryConfig carries the settings shared by the service graph.
type RegistryConfig struct {
	Now                      func() time.Time
	Events                   EventPublisher
	Actor                    string
	DefaultRenewalNoticeDays int
	ExpiringSoonDays         int
}

// Registry holds one instance of every back office service, wired to a single store.
type Registry struct {
	Store         store.Store
	Properties    *PropertyService
	Rooms         *RoomService
	Leases        *LeaseService
	Notifications *NotificationService
	Messages      *MessageService
	Dashboard     *DashboardService
}

// NewRegistry builds the service graph. The lease service writes room availability through
// the room service and raises notifications through the notification service.
func NewRegistry(st store.Store, cfg RegistryConfig) (*Registry, error) {
	if st == nil {
		return nil, errors.New("services: store is required")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	properties, err := NewPropertyService(st, now)
	if err != nil {
		return nil, err
	}
	rooms, err := NewRoomService(st, now)
	if err != nil {
		return nil, err
	}
	notifications, err := NewNotificationService(st, cfg.Events, now)
	if err != nil {
		return nil, err
	}
	messages, err := NewMessageService(st, notifications, now)
	if err != nil {
		return nil, err
	}
	leases, err := NewLeaseService(st, rooms, notifications,
		WithNow(now),
		WithActor(cfg.Actor),
		WithDefaultRenewalNoticeDays(cfg.DefaultRenewalNoticeDays),
		WithEventPublisher(cfg.Events),
	)
	if err != nil {
		return nil, err
	}
	dashboard, err := NewDashboardService(st, leases, cfg.ExpiringSoonDays)
	if err != nil {
		return nil, err
	}

	return &Registry{
		Store:         st,
		Properties:    properties,
		Rooms:         rooms,
		Leases:        leases,
		Notifications: notifications,
		Messages:      messages,
		Dashboard:     dashboard,
	}, nil
}

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
	"github.com/charlesng35/roomrental/internal/store/memory"
)

var baseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(stream, event string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, stream+":"+event)
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type serviceEnv struct {
	store         *memory.Store
	clock         *testClock
	events        *recordingPublisher
	rooms         *RoomService
	notifications *NotificationService
	leases        *LeaseService
	messages      *MessageService
	properties    *PropertyService
	dashboard     *DashboardService
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	clock := &testClock{now: baseTime}
	st := memory.New(memory.WithNow(clock.Now))
	events := &recordingPublisher{}

	rooms, err := NewRoomService(st, clock.Now)
	require.NoError(t, err)
	notifications, err := NewNotificationService(st, events, clock.Now)
	require.NoError(t, err)
	leases, err := NewLeaseService(st, rooms, notifications,
		WithNow(clock.Now),
		WithActor("admin@test"),
		WithEventPublisher(events),
	)
	require.NoError(t, err)
	messages, err := NewMessageService(st, notifications, clock.Now)
	require.NoError(t, err)
	properties, err := NewPropertyService(st, clock.Now)
	require.NoError(t, err)
	dashboard, err := NewDashboardService(st, leases, 30)
	require.NoError(t, err)

	return &serviceEnv{
		store:         st,
		clock:         clock,
		events:        events,
		rooms:         rooms,
		notifications: notifications,
		leases:        leases,
		messages:      messages,
		properties:    properties,
		dashboard:     dashboard,
	}
}

func (e *serviceEnv) addRoom(t *testing.T, id string, price float64) *models.Room {
	t.Helper()
	room := &models.Room{
		BaseModel:    models.BaseModel{ID: id},
		PropertyID:   "p1",
		Name:         "Room " + id,
		Price:        price,
		MaxOccupants: 1,
		IsAvailable:  true,
	}
	require.NoError(t, e.store.Rooms().Create(context.Background(), room))
	return room
}

func (e *serviceEnv) room(t *testing.T, id string) *models.Room {
	t.Helper()
	room, err := e.store.Rooms().Get(context.Background(), id)
	require.NoError(t, err)
	return room
}

func (e *serviceEnv) lease(t *testing.T, id string) *models.Lease {
	t.Helper()
	lease, err := e.store.Leases().Get(context.Background(), id)
	require.NoError(t, err)
	return lease
}

func (e *serviceEnv) notificationCount(t *testing.T) int {
	t.Helper()
	rows, err := e.store.Notifications().List(context.Background(), store.NotificationFilter{})
	require.NoError(t, err)
	return len(rows)
}

// createLease creates an active lease on roomID ending endOffset after the clock.
func (e *serviceEnv) createLease(t *testing.T, roomID string, endOffset time.Duration) *models.Lease {
	t.Helper()
	now := e.clock.Now()
	result, err := e.leases.Create(context.Background(), CreateLeaseInput{
		RoomID:      roomID,
		TenantName:  "A",
		TenantEmail: "a@x.com",
		StartDate:   now.AddDate(0, -6, 0),
		EndDate:     now.Add(endOffset),
		MonthlyRent: 1000,
	})
	require.NoError(t, err)
	return result.Lease
}

// requireRoomConsistent checks that availability mirrors the current lease status.
func requireRoomConsistent(t *testing.T, e *serviceEnv, roomID string) {
	t.Helper()
	room := e.room(t, roomID)
	if room.CurrentLeaseID == nil {
		require.True(t, room.IsAvailable, "room without current lease must be available")
		return
	}
	lease := e.lease(t, *room.CurrentLeaseID)
	require.Equal(t, lease.Status.IsTerminal(), room.IsAvailable)
}

func ptr[T any](v T) *T { return &v }

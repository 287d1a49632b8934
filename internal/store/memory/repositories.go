package memory

import (
	"context"
	"sort"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
)

type propertyRepo struct{ s *Store }

func (r propertyRepo) List(context.Context) ([]models.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.properties.list(nil), nil
}

func (r propertyRepo) Get(_ context.Context, id string) (*models.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.properties.get(id)
}

func (r propertyRepo) Create(_ context.Context, property *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.properties.create(property, r.s.now())
}

func (r propertyRepo) Update(_ context.Context, property *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.properties.update(property, r.s.now())
}

func (r propertyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.properties.delete(id)
}

type roomRepo struct{ s *Store }

func (r roomRepo) List(_ context.Context, filter store.RoomFilter) ([]models.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rooms.list(func(room *models.Room) bool {
		if filter.IsAvailable != nil && room.IsAvailable != *filter.IsAvailable {
			return false
		}
		return filter.PropertyID == "" || room.PropertyID == filter.PropertyID
	}), nil
}

func (r roomRepo) Get(_ context.Context, id string) (*models.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rooms.get(id)
}

func (r roomRepo) Create(_ context.Context, room *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.rooms.create(room, r.s.now())
}

func (r roomRepo) Update(_ context.Context, room *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.rooms.update(room, r.s.now())
}

func (r roomRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.rooms.delete(id)
}

type leaseRepo struct{ s *Store }

func (r leaseRepo) List(_ context.Context, filter store.LeaseFilter) ([]models.Lease, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.leases.list(func(lease *models.Lease) bool {
		if filter.RoomID != "" && lease.RoomID != filter.RoomID {
			return false
		}
		if len(filter.Statuses) == 0 {
			return true
		}
		for _, status := range filter.Statuses {
			if lease.Status == status {
				return true
			}
		}
		return false
	}), nil
}

func (r leaseRepo) Get(_ context.Context, id string) (*models.Lease, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.leases.get(id)
}

func (r leaseRepo) Create(_ context.Context, lease *models.Lease) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.leases.create(lease, r.s.now())
}

func (r leaseRepo) Update(_ context.Context, lease *models.Lease) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.leases.update(lease, r.s.now())
}

type actionRepo struct{ s *Store }

func (r actionRepo) Append(_ context.Context, action *models.LeaseAction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if action.ID == "" {
		action.ID = models.NewID()
	}
	if action.PerformedAt.IsZero() {
		action.PerformedAt = r.s.now()
	}
	r.s.actions = append(r.s.actions, *action)
	return nil
}

func (r actionRepo) List(_ context.Context, leaseID string) ([]models.LeaseAction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.LeaseAction, 0, len(r.s.actions))
	for _, action := range r.s.actions {
		if leaseID == "" || action.LeaseID == leaseID {
			out = append(out, action)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformedAt.Before(out[j].PerformedAt)
	})
	return out, nil
}

type messageRepo struct{ s *Store }

func (r messageRepo) List(_ context.Context, filter store.MessageFilter) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.messages.list(func(m *models.Message) bool {
		if filter.RoomID != "" && m.RoomID != filter.RoomID {
			return false
		}
		return !filter.UnreadOnly || !m.IsRead
	}), nil
}

func (r messageRepo) Get(_ context.Context, id string) (*models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.messages.get(id)
}

func (r messageRepo) Create(_ context.Context, message *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.messages.create(message, r.s.now())
}

func (r messageRepo) Update(_ context.Context, message *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.messages.update(message, r.s.now())
}

func (r messageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.messages.delete(id)
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) List(_ context.Context, filter store.NotificationFilter) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.notifications.list(func(n *models.Notification) bool {
		return !filter.UnreadOnly || !n.IsRead
	})
	// newest first
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (r notificationRepo) Get(_ context.Context, id string) (*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.notifications.get(id)
}

func (r notificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.notifications.create(notification, r.s.now())
}

func (r notificationRepo) Update(_ context.Context, notification *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.notifications.update(notification, r.s.now())
}

func (r notificationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.notifications.delete(id)
}

func (r notificationRepo) MarkAllRead(_ context.Context, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var updated int64
	for _, n := range r.s.notifications.rows {
		if n.IsRead {
			continue
		}
		readAt := at
		n.IsRead = true
		n.ReadAt = &readAt
		n.UpdatedAt = at
		updated++
	}
	return updated, nil
}

func (r notificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	for id, n := range r.s.notifications.rows {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(r.s.notifications.rows, id)
			removed++
		}
	}
	return removed, nil
}

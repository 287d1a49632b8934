// Package memory provides a map-backed implementation of store.Store used by tests
// and ephemeral deployments. Every read returns copies, so callers never alias
// stored state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps every collection in process memory behind a single RWMutex.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	properties    *collection[models.Property]
	rooms         *collection[models.Room]
	leases        *collection[models.Lease]
	messages      *collection[models.Message]
	notifications *collection[models.Notification]
	actions       []models.LeaseAction
}

// Option customises the Store.
type Option func(*Store)

// WithNow overrides the clock used to stamp CreatedAt/UpdatedAt when callers leave them zero.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
		properties: newCollection(func(p *models.Property) *models.BaseModel { return &p.BaseModel },
			(*models.Property).Clone),
		rooms: newCollection(func(r *models.Room) *models.BaseModel { return &r.BaseModel },
			(*models.Room).Clone),
		leases: newCollection(func(l *models.Lease) *models.BaseModel { return &l.BaseModel },
			(*models.Lease).Clone),
		messages: newCollection(func(m *models.Message) *models.BaseModel { return &m.BaseModel },
			cloneMessage),
		notifications: newCollection(func(n *models.Notification) *models.BaseModel { return &n.BaseModel },
			cloneNotification),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Properties() store.PropertyRepository        { return propertyRepo{s} }
func (s *Store) Rooms() store.RoomRepository                 { return roomRepo{s} }
func (s *Store) Leases() store.LeaseRepository               { return leaseRepo{s} }
func (s *Store) LeaseActions() store.LeaseActionRepository   { return actionRepo{s} }
func (s *Store) Messages() store.MessageRepository           { return messageRepo{s} }
func (s *Store) Notifications() store.NotificationRepository { return notificationRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// collection is an id-keyed table of T that hands out clones.
type collection[T any] struct {
	rows  map[string]*T
	base  func(*T) *models.BaseModel
	clone func(*T) *T
}

func newCollection[T any](base func(*T) *models.BaseModel, clone func(*T) *T) *collection[T] {
	return &collection[T]{rows: make(map[string]*T), base: base, clone: clone}
}

func (c *collection[T]) get(id string) (*T, error) {
	row, ok := c.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c.clone(row), nil
}

func (c *collection[T]) create(row *T, now time.Time) error {
	b := c.base(row)
	if b.ID == "" {
		b.ID = models.NewID()
	}
	if _, exists := c.rows[b.ID]; exists {
		return store.ErrConflict
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	c.rows[b.ID] = c.clone(row)
	return nil
}

func (c *collection[T]) update(row *T, now time.Time) error {
	b := c.base(row)
	existing, ok := c.rows[b.ID]
	if !ok {
		return store.ErrNotFound
	}
	b.CreatedAt = c.base(existing).CreatedAt
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	c.rows[b.ID] = c.clone(row)
	return nil
}

func (c *collection[T]) delete(id string) error {
	if _, ok := c.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.rows, id)
	return nil
}

// list returns matching clones ordered by CreatedAt then ID.
func (c *collection[T]) list(match func(*T) bool) []T {
	out := make([]T, 0, len(c.rows))
	for _, row := range c.rows {
		if match != nil && !match(row) {
			continue
		}
		out = append(out, *c.clone(row))
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := c.base(&out[i]), c.base(&out[j])
		if bi.CreatedAt.Equal(bj.CreatedAt) {
			return bi.ID < bj.ID
		}
		return bi.CreatedAt.Before(bj.CreatedAt)
	})
	return out
}

func cloneMessage(m *models.Message) *models.Message {
	cpy := *m
	return &cpy
}

func cloneNotification(n *models.Notification) *models.Notification {
	cpy := *n
	if n.ReadAt != nil {
		readAt := *n.ReadAt
		cpy.ReadAt = &readAt
	}
	if n.Metadata != nil {
		cpy.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			cpy.Metadata[k] = v
		}
	}
	return &cpy
}

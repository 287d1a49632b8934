package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
)

const creationOrder = "created_at ASC, id ASC"

type propertyRepo struct{ db *gorm.DB }

func (r propertyRepo) List(ctx context.Context) ([]models.Property, error) {
	var rows []models.Property
	err := r.db.WithContext(ctx).Order(creationOrder).Find(&rows).Error
	return rows, err
}

func (r propertyRepo) Get(ctx context.Context, id string) (*models.Property, error) {
	return get[models.Property](ctx, r.db, id)
}

func (r propertyRepo) Create(ctx context.Context, property *models.Property) error {
	return create(ctx, r.db, property)
}

func (r propertyRepo) Update(ctx context.Context, property *models.Property) error {
	return update(ctx, r.db, property.ID, property)
}

func (r propertyRepo) Delete(ctx context.Context, id string) error {
	return remove[models.Property](ctx, r.db, id)
}

type roomRepo struct{ db *gorm.DB }

func (r roomRepo) List(ctx context.Context, filter store.RoomFilter) ([]models.Room, error) {
	query := r.db.WithContext(ctx).Order(creationOrder)
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}
	if filter.PropertyID != "" {
		query = query.Where("property_id = ?", filter.PropertyID)
	}
	var rows []models.Room
	err := query.Find(&rows).Error
	return rows, err
}

func (r roomRepo) Get(ctx context.Context, id string) (*models.Room, error) {
	return get[models.Room](ctx, r.db, id)
}

func (r roomRepo) Create(ctx context.Context, room *models.Room) error {
	return create(ctx, r.db, room)
}

func (r roomRepo) Update(ctx context.Context, room *models.Room) error {
	return update(ctx, r.db, room.ID, room)
}

func (r roomRepo) Delete(ctx context.Context, id string) error {
	return remove[models.Room](ctx, r.db, id)
}

type leaseRepo struct{ db *gorm.DB }

func (r leaseRepo) List(ctx context.Context, filter store.LeaseFilter) ([]models.Lease, error) {
	query := r.db.WithContext(ctx).Order(creationOrder)
	if filter.RoomID != "" {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	var rows []models.Lease
	err := query.Find(&rows).Error
	return rows, err
}

func (r leaseRepo) Get(ctx context.Context, id string) (*models.Lease, error) {
	return get[models.Lease](ctx, r.db, id)
}

func (r leaseRepo) Create(ctx context.Context, lease *models.Lease) error {
	return create(ctx, r.db, lease)
}

func (r leaseRepo) Update(ctx context.Context, lease *models.Lease) error {
	return update(ctx, r.db, lease.ID, lease)
}

type actionRepo struct{ db *gorm.DB }

func (r actionRepo) Append(ctx context.Context, action *models.LeaseAction) error {
	if action.ID == "" {
		action.ID = models.NewID()
	}
	if action.PerformedAt.IsZero() {
		action.PerformedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(action).Error
}

func (r actionRepo) List(ctx context.Context, leaseID string) ([]models.LeaseAction, error) {
	query := r.db.WithContext(ctx).Order("performed_at ASC")
	if leaseID != "" {
		query = query.Where("lease_id = ?", leaseID)
	}
	var rows []models.LeaseAction
	err := query.Find(&rows).Error
	return rows, err
}

type messageRepo struct{ db *gorm.DB }

func (r messageRepo) List(ctx context.Context, filter store.MessageFilter) ([]models.Message, error) {
	query := r.db.WithContext(ctx).Order(creationOrder)
	if filter.RoomID != "" {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var rows []models.Message
	err := query.Find(&rows).Error
	return rows, err
}

func (r messageRepo) Get(ctx context.Context, id string) (*models.Message, error) {
	return get[models.Message](ctx, r.db, id)
}

func (r messageRepo) Create(ctx context.Context, message *models.Message) error {
	return create(ctx, r.db, message)
}

func (r messageRepo) Update(ctx context.Context, message *models.Message) error {
	return update(ctx, r.db, message.ID, message)
}

func (r messageRepo) Delete(ctx context.Context, id string) error {
	return remove[models.Message](ctx, r.db, id)
}

type notificationRepo struct{ db *gorm.DB }

func (r notificationRepo) List(ctx context.Context, filter store.NotificationFilter) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var rows []models.Notification
	err := query.Find(&rows).Error
	return rows, err
}

func (r notificationRepo) Get(ctx context.Context, id string) (*models.Notification, error) {
	return get[models.Notification](ctx, r.db, id)
}

func (r notificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	return create(ctx, r.db, notification)
}

func (r notificationRepo) Update(ctx context.Context, notification *models.Notification) error {
	return update(ctx, r.db, notification.ID, notification)
}

func (r notificationRepo) Delete(ctx context.Context, id string) error {
	return remove[models.Notification](ctx, r.db, id)
}

func (r notificationRepo) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": at, "updated_at": at})
	return result.RowsAffected, result.Error
}

func (r notificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

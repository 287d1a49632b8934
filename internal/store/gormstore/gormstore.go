// Package gormstore implements store.Store on top of gorm so the service can run against
// sqlite, postgres or mysql.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/roomrental/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store adapts a *gorm.DB to the repository interfaces.
type Store struct {
	db *gorm.DB
}

// New wraps db. The schema is expected to be migrated already.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("gormstore: db is required")
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Properties() store.PropertyRepository        { return propertyRepo{s.db} }
func (s *Store) Rooms() store.RoomRepository                 { return roomRepo{s.db} }
func (s *Store) Leases() store.LeaseRepository               { return leaseRepo{s.db} }
func (s *Store) LeaseActions() store.LeaseActionRepository   { return actionRepo{s.db} }
func (s *Store) Messages() store.MessageRepository           { return messageRepo{s.db} }
func (s *Store) Notifications() store.NotificationRepository { return notificationRepo{s.db} }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("gormstore: ping: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func get[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Take(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func create[T any](ctx context.Context, db *gorm.DB, row *T) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintError(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

// update overwrites every column except the primary key and creation timestamp. MySQL
// reports changed rows rather than matched ones, so a zero count is confirmed with a lookup.
func update[T any](ctx context.Context, db *gorm.DB, id string, row *T) error {
	var model T
	result := db.WithContext(ctx).
		Model(&model).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return nil
}

func remove[T any](ctx context.Context, db *gorm.DB, id string) error {
	var model T
	result := db.WithContext(ctx).Delete(&model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

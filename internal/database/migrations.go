package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/roomrental/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.Room{},
		&models.Lease{},
		&models.LeaseAction{},
		&models.Message{},
		&models.Notification{},
	)
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationType classifies back office notifications.
type NotificationType string

const (
	NotificationMessage       NotificationType = "message"
	NotificationLeaseExpiring NotificationType = "lease_expiring"
	NotificationPayment       NotificationType = "payment"
	NotificationMaintenance   NotificationType = "maintenance"
	NotificationLeaseEnded    NotificationType = "lease_ended"
	NotificationTenantChanged NotificationType = "tenant_changed"
)

// Notification is an in-app event shown to administrators.
type Notification struct {
	BaseModel

	Type      NotificationType  `gorm:"type:varchar(32);not null" json:"type"`
	Title     string            `gorm:"type:varchar(255);not null" json:"title"`
	Message   string            `gorm:"type:text" json:"message"`
	Priority  Priority          `gorm:"type:varchar(16)" json:"priority"`
	ActionURL string            `gorm:"type:text" json:"actionUrl,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`

	IsRead bool       `gorm:"index" json:"isRead"`
	ReadAt *time.Time `json:"readAt,omitempty"`
}

package models

// Priority ranks messages and notifications.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Message is an inquiry sent by a prospective tenant about a room.
type Message struct {
	BaseModel

	RoomID      string   `gorm:"type:varchar(64);index;not null" json:"roomId"`
	SenderName  string   `gorm:"type:varchar(255);not null" json:"senderName"`
	SenderEmail string   `gorm:"type:varchar(255);not null" json:"senderEmail"`
	SenderPhone string   `gorm:"type:varchar(64)" json:"senderPhone,omitempty"`
	Content     string   `gorm:"type:text;not null" json:"content"`
	IsRead      bool     `gorm:"index" json:"isRead"`
	IsArchived  bool     `json:"isArchived"`
	Priority    Priority `gorm:"type:varchar(16)" json:"priority"`
}

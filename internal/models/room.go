package models

import (
	"time"

	"gorm.io/datatypes"
)

// Room is a rentable unit inside a property. IsAvailable, CurrentLeaseID and
// AvailableFrom are a projection of the room's current lease.
type Room struct {
	BaseModel

	PropertyID   string                      `gorm:"type:varchar(64);index;not null" json:"propertyId"`
	Name         string                      `gorm:"type:varchar(255);not null" json:"name"`
	Description  string                      `gorm:"type:text" json:"description"`
	Price        float64                     `gorm:"not null" json:"price"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	Size         *float64                    `json:"size,omitempty"`
	MaxOccupants int                         `json:"maxOccupants"`

	IsAvailable    bool       `gorm:"index" json:"isAvailable"`
	CurrentLeaseID *string    `gorm:"type:varchar(64)" json:"currentLeaseId,omitempty"`
	AvailableFrom  *time.Time `json:"availableFrom,omitempty"`
}

// Clone returns a deep copy of the room.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	cpy := *r
	cpy.Images = cloneStrings(r.Images)
	cpy.Amenities = cloneStrings(r.Amenities)
	cpy.Requirements = cloneStrings(r.Requirements)
	cpy.AvailableFrom = cloneTime(r.AvailableFrom)
	if r.Size != nil {
		size := *r.Size
		cpy.Size = &size
	}
	if r.CurrentLeaseID != nil {
		id := *r.CurrentLeaseID
		cpy.CurrentLeaseID = &id
	}
	return &cpy
}

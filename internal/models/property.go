package models

import "gorm.io/datatypes"

// Utilities records which utilities are included in the rent ("included" | "not_included").
type Utilities struct {
	Electricity string `json:"electricity,omitempty"`
	Water       string `json:"water,omitempty"`
	Gas         string `json:"gas,omitempty"`
	Internet    string `json:"internet,omitempty"`
	Cable       string `json:"cable,omitempty"`
}

// Property is a building that contains rooms.
type Property struct {
	BaseModel

	Name        string   `gorm:"type:varchar(255);not null" json:"name"`
	Address     string   `gorm:"type:varchar(512);not null" json:"address"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	Services          datatypes.JSONSlice[string]    `json:"services,omitempty"`
	Amenities         datatypes.JSONSlice[string]    `json:"amenities,omitempty"`
	ContactEmail      string                         `gorm:"type:varchar(255)" json:"contactEmail,omitempty"`
	ContactPhone      string                         `gorm:"type:varchar(64)" json:"contactPhone,omitempty"`
	ManagementCompany string                         `gorm:"type:varchar(255)" json:"managementCompany,omitempty"`
	BuildingType      string                         `gorm:"type:varchar(32)" json:"buildingType,omitempty"`
	YearBuilt         *int                           `json:"yearBuilt,omitempty"`
	TotalRooms        *int                           `json:"totalRooms,omitempty"`
	ParkingSpaces     *int                           `json:"parkingSpaces,omitempty"`
	Pets              string                         `gorm:"type:varchar(32)" json:"pets,omitempty"`
	SmokingPolicy     string                         `gorm:"type:varchar(32)" json:"smokingPolicy,omitempty"`
	Utilities         datatypes.JSONType[*Utilities] `json:"utilities,omitempty"`
}

// Clone returns a deep copy of the property.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	cpy := *p
	cpy.Services = cloneStrings(p.Services)
	cpy.Amenities = cloneStrings(p.Amenities)
	if u := p.Utilities.Data(); u != nil {
		utilities := *u
		cpy.Utilities = datatypes.NewJSONType(&utilities)
	}
	return &cpy
}

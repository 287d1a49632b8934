package models

import (
	"time"

	"gorm.io/datatypes"
)

// LeaseActionType names the kind of mutation recorded in the action log.
type LeaseActionType string

const (
	LeaseActionExtend       LeaseActionType = "extend"
	LeaseActionTerminate    LeaseActionType = "terminate"
	LeaseActionRenew        LeaseActionType = "renew"
	LeaseActionChangeTenant LeaseActionType = "change_tenant"
	LeaseActionUpdateRent   LeaseActionType = "update_rent"
)

// LeaseActionData is the payload of a lease action. Only the fields relevant to the
// action type are populated.
type LeaseActionData struct {
	NewEndDate         *time.Time `json:"newEndDate,omitempty"`
	NewTenantName      string     `json:"newTenantName,omitempty"`
	NewTenantEmail     string     `json:"newTenantEmail,omitempty"`
	NewTenantPhone     string     `json:"newTenantPhone,omitempty"`
	PreviousTenantName string     `json:"previousTenantName,omitempty"`
	NewRent            *float64   `json:"newRent,omitempty"`
	PreviousRent       *float64   `json:"previousRent,omitempty"`
	TerminationReason  string     `json:"terminationReason,omitempty"`
	EffectiveDate      *time.Time `json:"effectiveDate,omitempty"`
}

// LeaseAction is an append-only audit record. Rows are never updated or deleted.
type LeaseAction struct {
	ID          string                              `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Type        LeaseActionType                     `gorm:"type:varchar(32);not null" json:"type"`
	LeaseID     string                              `gorm:"type:varchar(64);index;not null" json:"leaseId"`
	Data        datatypes.JSONType[LeaseActionData] `json:"data"`
	PerformedBy string                              `gorm:"type:varchar(255)" json:"performedBy"`
	PerformedAt time.Time                           `gorm:"index;not null" json:"performedAt"`
}

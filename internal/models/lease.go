package models

import (
	"time"

	"gorm.io/datatypes"
)

// LeaseStatus is the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseStatusPending    LeaseStatus = "pending"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusEndingSoon LeaseStatus = "ending_soon"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
)

// LeaseStatuses lists every known status in lifecycle order.
var LeaseStatuses = []LeaseStatus{
	LeaseStatusPending,
	LeaseStatusActive,
	LeaseStatusEndingSoon,
	LeaseStatusExpired,
	LeaseStatusTerminated,
}

// Valid reports whether s is a known status.
func (s LeaseStatus) Valid() bool {
	for _, status := range LeaseStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the lease no longer holds its room.
func (s LeaseStatus) IsTerminal() bool {
	return s == LeaseStatusExpired || s == LeaseStatusTerminated
}

// PaymentStatus tracks whether rent payments are up to date.
type PaymentStatus string

const (
	PaymentStatusCurrent PaymentStatus = "current"
	PaymentStatusLate    PaymentStatus = "late"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Lease is a tenancy agreement binding one tenant to one room for a date range.
type Lease struct {
	BaseModel

	RoomID string `gorm:"type:varchar(64);index;not null" json:"roomId"`

	TenantName             string `gorm:"type:varchar(255);not null" json:"tenantName"`
	TenantEmail            string `gorm:"type:varchar(255);not null" json:"tenantEmail"`
	TenantPhone            string `gorm:"type:varchar(64)" json:"tenantPhone,omitempty"`
	TenantEmergencyContact string `gorm:"type:varchar(255)" json:"tenantEmergencyContact,omitempty"`
	TenantEmergencyPhone   string `gorm:"type:varchar(64)" json:"tenantEmergencyPhone,omitempty"`

	StartDate     time.Time `gorm:"not null" json:"startDate"`
	EndDate       time.Time `gorm:"not null;index" json:"endDate"`
	MonthlyRent   float64   `gorm:"not null" json:"monthlyRent"`
	Deposit       float64   `json:"deposit"`
	DepositPaid   bool      `json:"depositPaid"`
	DepositAmount float64   `json:"depositAmount,omitempty"`

	Status            LeaseStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	TerminationReason string      `gorm:"type:text" json:"terminationReason,omitempty"`
	TerminationDate   *time.Time  `json:"terminationDate,omitempty"`

	LeaseTerms        datatypes.JSONSlice[string] `json:"leaseTerms"`
	SpecialConditions string                      `gorm:"type:text" json:"specialConditions,omitempty"`

	AutoRenewal           bool `json:"autoRenewal"`
	RenewalNoticeProvided bool `json:"renewalNoticeProvided"`
	RenewalNoticeDays     int  `json:"renewalNoticeDays"`

	LastPaymentDate *time.Time    `json:"lastPaymentDate,omitempty"`
	NextPaymentDue  *time.Time    `json:"nextPaymentDue,omitempty"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(16)" json:"paymentStatus"`
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (l *Lease) Clone() *Lease {
	if l == nil {
		return nil
	}
	cpy := *l
	cpy.TerminationDate = cloneTime(l.TerminationDate)
	cpy.LastPaymentDate = cloneTime(l.LastPaymentDate)
	cpy.NextPaymentDue = cloneTime(l.NextPaymentDue)
	cpy.LeaseTerms = cloneStrings(l.LeaseTerms)
	return &cpy
}

// DaysUntilExpiry returns the number of whole days between now and the end date,
// truncated toward zero. A lease ending later today yields 0.
func (l *Lease) DaysUntilExpiry(now time.Time) int {
	return int(l.EndDate.Sub(now) / (24 * time.Hour))
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/pkg/response"
)

const defaultExpiringSoonDays = 30

// LeaseHandler exposes the lease lifecycle over HTTP.
type LeaseHandler struct {
	leases       *services.LeaseService
	expiringDays int
}

// NewLeaseHandler constructs a lease handler. expiringDays is the default window for the
// expiring-soon queries.
func NewLeaseHandler(leases *services.LeaseService, expiringDays int) *LeaseHandler {
	if expiringDays <= 0 {
		expiringDays = defaultExpiringSoonDays
	}
	return &LeaseHandler{leases: leases, expiringDays: expiringDays}
}

// refresh runs the status sweep ahead of a read. Per-lease failures are logged by the sweep
// and do not block the read; only a sweep that could not list leases is reported.
func (h *LeaseHandler) refresh(ctx context.Context) error {
	if result, err := h.leases.Sweep(ctx); err != nil && result == nil {
		return err
	}
	return nil
}

type createLeaseRequest struct {
	RoomID                 string   `json:"roomId"`
	TenantName             string   `json:"tenantName"`
	TenantEmail            string   `json:"tenantEmail"`
	TenantPhone            string   `json:"tenantPhone"`
	TenantEmergencyContact string   `json:"tenantEmergencyContact"`
	TenantEmergencyPhone   string   `json:"tenantEmergencyPhone"`
	StartDate              string   `json:"startDate" validate:"omitempty,date"`
	EndDate                string   `json:"endDate" validate:"omitempty,date"`
	MonthlyRent            float64  `json:"monthlyRent"`
	Deposit                float64  `json:"deposit"`
	DepositPaid            bool     `json:"depositPaid"`
	DepositAmount          *float64 `json:"depositAmount"`
	Status                 string   `json:"status"`
	AutoRenewal            bool     `json:"autoRenewal"`
	RenewalNoticeDays      *int     `json:"renewalNoticeDays" validate:"omitempty,gte=0"`
	PaymentStatus          string   `json:"paymentStatus" validate:"omitempty,oneof=current late overdue"`
	LeaseTerms             []string `json:"leaseTerms"`
	SpecialConditions      string   `json:"specialConditions"`
}

type updateLeaseRequest struct {
	TenantName             *string  `json:"tenantName"`
	TenantEmail            *string  `json:"tenantEmail"`
	TenantPhone            *string  `json:"tenantPhone"`
	TenantEmergencyContact *string  `json:"tenantEmergencyContact"`
	TenantEmergencyPhone   *string  `json:"tenantEmergencyPhone"`
	StartDate              *string  `json:"startDate" validate:"omitempty,date"`
	EndDate                *string  `json:"endDate" validate:"omitempty,date"`
	MonthlyRent            *float64 `json:"monthlyRent"`
	Deposit                *float64 `json:"deposit"`
	DepositPaid            *bool    `json:"depositPaid"`
	DepositAmount          *float64 `json:"depositAmount"`
	Status                 *string  `json:"status"`
	TerminationReason      *string  `json:"terminationReason"`
	TerminationDate        *string  `json:"terminationDate" validate:"omitempty,date"`
	LeaseTerms             []string `json:"leaseTerms"`
	SpecialConditions      *string  `json:"specialConditions"`
	AutoRenewal            *bool    `json:"autoRenewal"`
	RenewalNoticeProvided  *bool    `json:"renewalNoticeProvided"`
	RenewalNoticeDays      *int     `json:"renewalNoticeDays" validate:"omitempty,gte=0"`
	LastPaymentDate        *string  `json:"lastPaymentDate" validate:"omitempty,date"`
	NextPaymentDue         *string  `json:"nextPaymentDue" validate:"omitempty,date"`
	PaymentStatus          *string  `json:"paymentStatus" validate:"omitempty,oneof=current late overdue"`
}

type extendLeaseRequest struct {
	NewEndDate string   `json:"newEndDate" validate:"omitempty,date"`
	NewRent    *float64 `json:"newRent"`
}

type changeTenantRequest struct {
	NewTenantName  string  `json:"newTenantName"`
	NewTenantEmail string  `json:"newTenantEmail"`
	NewTenantPhone string  `json:"newTenantPhone"`
	EffectiveDate  *string `json:"effectiveDate" validate:"omitempty,date"`
}

type terminateLeaseRequest struct {
	Reason        string  `json:"reason"`
	EffectiveDate *string `json:"effectiveDate" validate:"omitempty,date"`
}

// List returns leases after refreshing their statuses. `?expiring_soon=true&days=N`
// switches to the expiring-soon query; `?status=` and `?roomId=` filter the full list.
func (h *LeaseHandler) List(c *gin.Context) {
	ctx := requestContext(c)
	if err := h.refresh(ctx); err != nil {
		response.Error(c, asAppError(err, "Failed to fetch leases"))
		return
	}

	if strings.EqualFold(c.Query("expiring_soon"), "true") {
		leases, err := h.leases.ExpiringSoon(ctx, parseIntQuery(c, "days", h.expiringDays))
		if err != nil {
			response.Error(c, asAppError(err, "Failed to fetch leases"))
			return
		}
		response.Success(c, http.StatusOK, leases)
		return
	}

	leases, err := h.leases.List(ctx, services.LeaseListFilter{
		Status: models.LeaseStatus(strings.TrimSpace(c.Query("status"))),
		RoomID: c.Query("roomId"),
	})
	if err != nil {
		response.Error(c, asAppError(err, "Failed to fetch leases"))
		return
	}
	response.Success(c, http.StatusOK, leases)
}

// ExpiringSoon lists active leases ending within `?days=` (default 30).
func (h *LeaseHandler) ExpiringSoon(c *gin.Context) {
	ctx := requestContext(c)
	if err := h.refresh(ctx); err != nil {
		response.Error(c, asAppError(err, "Failed to fetch expiring leases"))
		return
	}

	leases, err := h.leases.ExpiringSoon(ctx, parseIntQuery(c, "days", h.expiringDays))
	if err != nil {
		response.Error(c, asAppError(err, "Failed to fetch expiring leases"))
		return
	}
	response.Success(c, http.StatusOK, leases)
}

// Actions returns the global lease action log, newest first.
func (h *LeaseHandler) Actions(c *gin.Context) {
	actions, err := h.leases.Actions(requestContext(c))
	if err != nil {
		response.Error(c, asAppError(err, "Failed to fetch lease actions"))
		return
	}
	response.Success(c, http.StatusOK, actions)
}

// Create stores a lease and marks its room as leased.
func (h *LeaseHandler) Create(c *gin.Context) {
	var req createLeaseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.leases.Create(requestContext(c), services.CreateLeaseInput{
		RoomID:                 req.RoomID,
		TenantName:             req.TenantName,
		TenantEmail:            req.TenantEmail,
		TenantPhone:            req.TenantPhone,
		TenantEmergencyContact: req.TenantEmergencyContact,
		TenantEmergencyPhone:   req.TenantEmergencyPhone,
		StartDate:              parseDate(req.StartDate),
		EndDate:                parseDate(req.EndDate),
		MonthlyRent:            req.MonthlyRent,
		Deposit:                req.Deposit,
		DepositPaid:            req.DepositPaid,
		DepositAmount:          req.DepositAmount,
		Status:                 models.LeaseStatus(strings.TrimSpace(req.Status)),
		AutoRenewal:            req.AutoRenewal,
		RenewalNoticeDays:      req.RenewalNoticeDays,
		PaymentStatus:          models.PaymentStatus(req.PaymentStatus),
		LeaseTerms:             req.LeaseTerms,
		SpecialConditions:      req.SpecialConditions,
	})
	if err != nil {
		response.Error(c, asAppError(err, "Failed to create lease"))
		return
	}
	response.Success(c, http.StatusCreated, result.Lease)
}

// Get returns a lease with its action history.
func (h *LeaseHandler) Get(c *gin.Context) {
	detail, err := h.leases.Get(requestContext(c), pathID(c))
	if err != nil {
		response.Error(c, asAppError(err, "Failed to fetch lease"))
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Update applies a partial update and returns the lease.
func (h *LeaseHandler) Update(c *gin.Context) {
	var req updateLeaseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	patch := services.LeaseUpdate{
		TenantName:             req.TenantName,
		TenantEmail:            req.TenantEmail,
		TenantPhone:            req.TenantPhone,
		TenantEmergencyContact: req.TenantEmergencyContact,
		TenantEmergencyPhone:   req.TenantEmergencyPhone,
		StartDate:              parseDatePtr(req.StartDate),
		EndDate:                parseDatePtr(req.EndDate),
		MonthlyRent:            req.MonthlyRent,
		Deposit:                req.Deposit,
		DepositPaid:            req.DepositPaid,
		DepositAmount:          req.DepositAmount,
		TerminationReason:      req.TerminationReason,
		TerminationDate:        parseDatePtr(req.TerminationDate),
		LeaseTerms:             req.LeaseTerms,
		SpecialConditions:      req.SpecialConditions,
		AutoRenewal:            req.AutoRenewal,
		RenewalNoticeProvided:  req.RenewalNoticeProvided,
		RenewalNoticeDays:      req.RenewalNoticeDays,
		LastPaymentDate:        parseDatePtr(req.LastPaymentDate),
		NextPaymentDue:         parseDatePtr(req.NextPaymentDue),
	}
	if req.Status != nil {
		status := models.LeaseStatus(strings.TrimSpace(*req.Status))
		patch.Status = &status
	}
	if req.PaymentStatus != nil {
		paymentStatus := models.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &paymentStatus
	}

	result, err := h.leases.Update(requestContext(c), pathID(c), patch)
	if err != nil {
		response.Error(c, asAppError(err, "Failed to update lease"))
		return
	}
	response.Success(c, http.StatusOK, result.Lease)
}

// Terminate ends a lease early and frees its room. The body is optional.
func (h *LeaseHandler) Terminate(c *gin.Context) {
	var req terminateLeaseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	_, err := h.leases.Terminate(requestContext(c), pathID(c), services.TerminateLeaseInput{
		Reason:        req.Reason,
		EffectiveDate: parseDatePtr(req.EffectiveDate),
	})
	if err != nil {
		response.Error(c, asAppError(err, "Failed to terminate lease"))
		return
	}
	response.Message(c, http.StatusOK, "Lease terminated successfully", nil)
}

// Extend moves the end date and reactivates the lease.
func (h *LeaseHandler) Extend(c *gin.Context) {
	var req extendLeaseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.leases.Extend(requestContext(c), pathID(c), services.ExtendLeaseInput{
		NewEndDate: parseDate(req.NewEndDate),
		NewRent:    req.NewRent,
	})
	if err != nil {
		response.Error(c, asAppError(err, "Failed to extend lease"))
		return
	}

	extra := gin.H{"newEndDate": result.Lease.EndDate}
	if req.NewRent != nil {
		extra["newRent"] = *req.NewRent
	}
	response.Message(c, http.StatusOK, "Lease extended successfully", extra)
}

// ChangeTenant replaces the tenant on a lease.
func (h *LeaseHandler) ChangeTenant(c *gin.Context) {
	var req changeTenantRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.leases.ChangeTenant(requestContext(c), pathID(c), services.ChangeTenantInput{
		NewTenantName:  req.NewTenantName,
		NewTenantEmail: req.NewTenantEmail,
		NewTenantPhone: req.NewTenantPhone,
		EffectiveDate:  parseDatePtr(req.EffectiveDate),
	})
	if err != nil {
		response.Error(c, asAppError(err, "Failed to change tenant"))
		return
	}

	extra := gin.H{
		"newTenantName":  result.Lease.TenantName,
		"newTenantEmail": result.Lease.TenantEmail,
	}
	if result.Action != nil && result.Action.Data.Data().EffectiveDate != nil {
		extra["effectiveDate"] = *result.Action.Data.Data().EffectiveDate
	}
	response.Message(c, http.StatusOK, "Tenant changed successfully", extra)
}

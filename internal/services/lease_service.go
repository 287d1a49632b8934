package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/realtime"
	"github.com/charlesng35/roomrental/internal/store"
	apperrors "github.com/charlesng35/roomrental/pkg/errors"
	"github.com/charlesng35/roomrental/pkg/logger"
	"github.com/charlesng35/roomrental/pkg/metrics"
)

const (
	defaultRenewalNoticeDays = 30
	defaultTerminationReason = "Terminated by admin"
	leasesActionURL          = "/admin/leases"
)

// CreateLeaseInput carries the attributes of a new lease. Optional pointer fields fall
// back to defaults when nil.
type CreateLeaseInput struct {
	RoomID                 string
	TenantName             string
	TenantEmail            string
	TenantPhone            string
	TenantEmergencyContact string
	TenantEmergencyPhone   string
	StartDate              time.Time
	EndDate                time.Time
	MonthlyRent            float64
	Deposit                float64
	DepositPaid            bool
	DepositAmount          *float64
	Status                 models.LeaseStatus
	AutoRenewal            bool
	RenewalNoticeDays      *int
	PaymentStatus          models.PaymentStatus
	LeaseTerms             []string
	SpecialConditions      string
}

// LeaseUpdate is a partial update; nil fields are left unchanged.
type LeaseUpdate struct {
	TenantName             *string
	TenantEmail            *string
	TenantPhone            *string
	TenantEmergencyContact *string
	TenantEmergencyPhone   *string
	StartDate              *time.Time
	EndDate                *time.Time
	MonthlyRent            *float64
	Deposit                *float64
	DepositPaid            *bool
	DepositAmount          *float64
	Status                 *models.LeaseStatus
	TerminationReason      *string
	TerminationDate        *time.Time
	LeaseTerms             []string
	SpecialConditions      *string
	AutoRenewal            *bool
	RenewalNoticeProvided  *bool
	RenewalNoticeDays      *int
	LastPaymentDate        *time.Time
	NextPaymentDue         *time.Time
	PaymentStatus          *models.PaymentStatus
}

// ExtendLeaseInput moves a lease end date and optionally the rent.
type ExtendLeaseInput struct {
	NewEndDate time.Time
	NewRent    *float64
}

// ChangeTenantInput replaces the tenant identity on a lease.
type ChangeTenantInput struct {
	NewTenantName  string
	NewTenantEmail string
	NewTenantPhone string
	EffectiveDate  *time.Time
}

// TerminateLeaseInput ends a lease early.
type TerminateLeaseInput struct {
	Reason        string
	EffectiveDate *time.Time
}

// LeaseListFilter narrows ListLeases.
type LeaseListFilter struct {
	Status models.LeaseStatus
	RoomID string
}

// LeaseResult describes the outcome of a lease mutation and its side effects.
type LeaseResult struct {
	Lease        *models.Lease
	Room         *RoomAvailabilityUpdate
	Action       *models.LeaseAction
	Notification *models.Notification
}

// LeaseDetail is a lease together with its action history.
type LeaseDetail struct {
	models.Lease
	Actions []models.LeaseAction `json:"actions"`
}

// SweepResult summarises one status sweep.
type SweepResult struct {
	Expired       []string `json:"expired"`
	EndingSoon    []string `json:"endingSoon"`
	Notifications int      `json:"notifications"`
}

// LeaseOption customises a LeaseService.
type LeaseOption func(*LeaseService)

// WithNow overrides the clock.
func WithNow(now func() time.Time) LeaseOption {
	return func(s *LeaseService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithActor sets the performedBy value recorded on lease actions.
func WithActor(actor string) LeaseOption {
	return func(s *LeaseService) {
		if actor = strings.TrimSpace(actor); actor != "" {
			s.actor = actor
		}
	}
}

// WithDefaultRenewalNoticeDays sets the notice window applied to leases created without one.
func WithDefaultRenewalNoticeDays(days int) LeaseOption {
	return func(s *LeaseService) {
		if days > 0 {
			s.noticeDays = days
		}
	}
}

// WithEventPublisher publishes lease events to realtime subscribers.
func WithEventPublisher(publisher EventPublisher) LeaseOption {
	return func(s *LeaseService) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// LeaseService is the Lease Lifecycle Manager. It owns every lease state transition and
// derives the linked room's availability from it. Mutations and the status sweep are
// serialised by a single mutex.
type LeaseService struct {
	mu         sync.Mutex
	store      store.Store
	rooms      RoomAvailabilityApplier
	notifier   NotificationSink
	events     EventPublisher
	now        func() time.Time
	actor      string
	noticeDays int
	log        *zap.Logger
}

// NewLeaseService constructs a LeaseService.
func NewLeaseService(st store.Store, rooms RoomAvailabilityApplier, notifier NotificationSink, opts ...LeaseOption) (*LeaseService, error) {
	if st == nil {
		return nil, errors.New("lease service: store is required")
	}
	if rooms == nil {
		return nil, errors.New("lease service: room directory is required")
	}
	if notifier == nil {
		return nil, errors.New("lease service: notification sink is required")
	}

	svc := &LeaseService{
		store:      st,
		rooms:      rooms,
		notifier:   notifier,
		events:     noopPublisher{},
		now:        time.Now,
		actor:      "admin",
		noticeDays: defaultRenewalNoticeDays,
		log:        logger.WithModule("leases"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create stores a new lease and marks its room as leased. The room is not checked for an
// existing current lease; a second lease replaces the room's pointer without touching the
// previous lease.
func (s *LeaseService) Create(ctx context.Context, input CreateLeaseInput) (result *LeaseResult, err error) {
	ctx = ensureContext(ctx)
	defer func() { observeOperation("create", err) }()

	if strings.TrimSpace(input.RoomID) == "" ||
		strings.TrimSpace(input.TenantName) == "" ||
		strings.TrimSpace(input.TenantEmail) == "" ||
		input.StartDate.IsZero() ||
		input.EndDate.IsZero() ||
		input.MonthlyRent == 0 {
		return nil, apperrors.NewBadRequest("Missing required fields")
	}

	status := input.Status
	if status == "" {
		status = models.LeaseStatusActive
	}
	if !status.Valid() {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("Invalid lease status %q", status))
	}

	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusCurrent
	}

	noticeDays := s.noticeDays
	if input.RenewalNoticeDays != nil {
		noticeDays = *input.RenewalNoticeDays
	}

	depositAmount := input.Deposit
	if input.DepositAmount != nil && *input.DepositAmount != 0 {
		depositAmount = *input.DepositAmount
	}

	terms := input.LeaseTerms
	if terms == nil {
		terms = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	lease := &models.Lease{
		RoomID:                 strings.TrimSpace(input.RoomID),
		TenantName:             strings.TrimSpace(input.TenantName),
		TenantEmail:            strings.TrimSpace(input.TenantEmail),
		TenantPhone:            strings.TrimSpace(input.TenantPhone),
		TenantEmergencyContact: strings.TrimSpace(input.TenantEmergencyContact),
		TenantEmergencyPhone:   strings.TrimSpace(input.TenantEmergencyPhone),
		StartDate:              input.StartDate,
		EndDate:                input.EndDate,
		MonthlyRent:            input.MonthlyRent,
		Deposit:                input.Deposit,
		DepositPaid:            input.DepositPaid,
		DepositAmount:          depositAmount,
		Status:                 status,
		LeaseTerms:             terms,
		SpecialConditions:      input.SpecialConditions,
		AutoRenewal:            input.AutoRenewal,
		RenewalNoticeDays:      noticeDays,
		PaymentStatus:          paymentStatus,
	}
	lease.CreatedAt = now
	lease.UpdatedAt = now

	if room, err := s.store.Rooms().Get(ctx, lease.RoomID); err == nil && room.CurrentLeaseID != nil && !room.IsAvailable {
		s.log.Warn("lease created for a room that already has a current lease",
			zap.String("room_id", room.ID),
			zap.String("previous_lease_id", *room.CurrentLeaseID))
	}

	if err := s.store.Leases().Create(ctx, lease); err != nil {
		return nil, fmt.Errorf("lease service: create lease: %w", err)
	}

	update := roomProjection(lease, now)
	s.applyRoom(ctx, update)

	action, err := s.appendAction(ctx, lease.ID, models.LeaseActionRenew, models.LeaseActionData{
		NewEndDate: timePtr(lease.EndDate),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lease created",
		zap.String("lease_id", lease.ID),
		zap.String("room_id", lease.RoomID),
		zap.String("status", string(lease.Status)))
	s.events.Publish(realtime.StreamLeases, "lease.created", lease)

	return &LeaseResult{Lease: lease, Room: &update, Action: action}, nil
}

// Update applies a partial update. The room projection is recomputed only when the status or
// end date changes and the lease still owns the room, so edits to a superseded lease leave
// the room alone. A rent change is recorded as an update_rent action.
func (s *LeaseService) Update(ctx context.Context, id string, patch LeaseUpdate) (result *LeaseResult, err error) {
	ctx = ensureContext(ctx)
	defer func() { observeOperation("update", err) }()

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("Invalid lease status %q", *patch.Status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lease, err := s.loadLease(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previousStatus := lease.Status
	previousRent := lease.MonthlyRent
	applyLeaseUpdate(lease, patch)
	lease.UpdatedAt = now

	if err := s.store.Leases().Update(ctx, lease); err != nil {
		return nil, translateStoreError("lease service", "update lease", "Lease", err)
	}
	if lease.Status != previousStatus {
		recordTransition(previousStatus, lease.Status)
	}

	result = &LeaseResult{Lease: lease}
	if (patch.Status != nil || patch.EndDate != nil) && s.ownsRoom(ctx, lease) {
		update := roomProjection(lease, now)
		s.applyRoom(ctx, update)
		result.Room = &update
	}

	if lease.MonthlyRent != previousRent {
		newRent := lease.MonthlyRent
		action, err := s.appendAction(ctx, lease.ID, models.LeaseActionUpdateRent, models.LeaseActionData{
			NewRent:      &newRent,
			PreviousRent: &previousRent,
		})
		if err != nil {
			return nil, err
		}
		result.Action = action
	}

	s.events.Publish(realtime.StreamLeases, "lease.updated", lease)
	return result, nil
}

// Extend moves the end date, optionally updates the rent, and forces the lease back to
// active regardless of its prior status. The renewal notice is re-armed.
func (s *LeaseService) Extend(ctx context.Context, id string, input ExtendLeaseInput) (result *LeaseResult, err error) {
	ctx = ensureContext(ctx)
	defer func() { observeOperation("extend", err) }()

	if input.NewEndDate.IsZero() {
		return nil, apperrors.NewBadRequest("New end date is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lease, err := s.loadLease(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previousStatus := lease.Status
	previousRent := lease.MonthlyRent

	var newRent *float64
	if input.NewRent != nil && *input.NewRent > 0 {
		rent := *input.NewRent
		newRent = &rent
		lease.MonthlyRent = rent
	}
	lease.EndDate = input.NewEndDate
	lease.Status = models.LeaseStatusActive
	lease.RenewalNoticeProvided = false
	lease.UpdatedAt = now

	if err := s.store.Leases().Update(ctx, lease); err != nil {
		return nil, translateStoreError("lease service", "extend lease", "Lease", err)
	}
	if previousStatus != lease.Status {
		recordTransition(previousStatus, lease.Status)
	}

	update := RoomAvailabilityUpdate{
		RoomID:         lease.RoomID,
		IsAvailable:    false,
		AvailableFrom:  timePtr(lease.EndDate),
		CurrentLeaseID: stringPtr(lease.ID),
		Price:          newRent,
	}
	s.applyRoom(ctx, update)

	data := models.LeaseActionData{NewEndDate: timePtr(lease.EndDate), NewRent: newRent}
	if newRent != nil {
		data.PreviousRent = &previousRent
	}
	action, err := s.appendAction(ctx, lease.ID, models.LeaseActionExtend, data)
	if err != nil {
		return nil, err
	}

	s.log.Info("lease extended",
		zap.String("lease_id", lease.ID),
		zap.String("from", string(previousStatus)),
		zap.Time("end_date", lease.EndDate))
	s.events.Publish(realtime.StreamLeases, "lease.extended", lease)

	return &LeaseResult{Lease: lease, Room: &update, Action: action}, nil
}

// ChangeTenant overwrites the tenant identity in place. Dates, rent and status are left
// as they are; the operation is permitted in every status.
func (s *LeaseService) ChangeTenant(ctx context.Context, id string, input ChangeTenantInput) (result *LeaseResult, err error) {
	ctx = ensureContext(ctx)
	defer func() { observeOperation("change_tenant", err) }()

	name := strings.TrimSpace(input.NewTenantName)
	email := strings.TrimSpace(input.NewTenantEmail)
	if name == "" || email == "" {
		return nil, apperrors.NewBadRequest("New tenant name and email are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lease, err := s.loadLease(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	effective := now
	if input.EffectiveDate != nil {
		effective = *input.EffectiveDate
	}

	previousTenant := lease.TenantName
	lease.TenantName = name
	lease.TenantEmail = email
	lease.TenantPhone = strings.TrimSpace(input.NewTenantPhone)
	lease.UpdatedAt = now

	if err := s.store.Leases().Update(ctx, lease); err != nil {
		return nil, translateStoreError("lease service", "change tenant", "Lease", err)
	}

	action, err := s.appendAction(ctx, lease.ID, models.LeaseActionChangeTenant, models.LeaseActionData{
		NewTenantName:      lease.TenantName,
		NewTenantEmail:     lease.TenantEmail,
		NewTenantPhone:     lease.TenantPhone,
		PreviousTenantName: previousTenant,
		EffectiveDate:      &effective,
	})
	if err != nil {
		return nil, err
	}

	roomName := "Room"
	if room, err := s.store.Rooms().Get(ctx, lease.RoomID); err == nil {
		roomName = room.Name
	}

	notification, err := s.notifier.Notify(ctx, CreateNotificationInput{
		Type:      models.NotificationTenantChanged,
		Title:     "Tenant Changed",
		Message:   fmt.Sprintf("Tenant changed from %s to %s for %s", previousTenant, lease.TenantName, roomName),
		Priority:  models.PriorityMedium,
		ActionURL: leasesActionURL,
		Metadata: map[string]any{
			"leaseId": lease.ID,
			"roomId":  lease.RoomID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("lease service: notify tenant change: %w", err)
	}

	s.log.Info("lease tenant changed", zap.String("lease_id", lease.ID), zap.String("status", string(lease.Status)))
	s.events.Publish(realtime.StreamLeases, "lease.tenant_changed", lease)

	return &LeaseResult{Lease: lease, Action: action, Notification: notification}, nil
}

// Terminate ends the lease and releases its room immediately, independent of the end date.
func (s *LeaseService) Terminate(ctx context.Context, id string, input TerminateLeaseInput) (result *LeaseResult, err error) {
	ctx = ensureContext(ctx)
	defer func() { observeOperation("terminate", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	lease, err := s.loadLease(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	effective := now
	if input.EffectiveDate != nil {
		effective = *input.EffectiveDate
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = defaultTerminationReason
	}

	previousStatus := lease.Status
	lease.Status = models.LeaseStatusTerminated
	lease.TerminationReason = reason
	lease.TerminationDate = &effective
	lease.UpdatedAt = now

	if err := s.store.Leases().Update(ctx, lease); err != nil {
		return nil, translateStoreError("lease service", "terminate lease", "Lease", err)
	}
	if previousStatus != lease.Status {
		recordTransition(previousStatus, lease.Status)
	}

	update := RoomAvailabilityUpdate{
		RoomID:        lease.RoomID,
		IsAvailable:   true,
		AvailableFrom: timePtr(effective),
	}
	s.applyRoom(ctx, update)

	action, err := s.appendAction(ctx, lease.ID, models.LeaseActionTerminate, models.LeaseActionData{
		TerminationReason: reason,
		EffectiveDate:     &effective,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lease terminated",
		zap.String("lease_id", lease.ID),
		zap.String("room_id", lease.RoomID),
		zap.String("from", string(previousStatus)))
	s.events.Publish(realtime.StreamLeases, "lease.terminated", lease)

	return &LeaseResult{Lease: lease, Room: &update, Action: action}, nil
}

// Sweep recomputes statuses of live leases against the clock. Active leases past their end
// date expire and release their room; active leases inside the renewal notice window become
// ending_soon and raise one notice. A lease stays active when its notice cannot be sent, so
// the next sweep retries it.
//
// Unlike a scan of active leases alone, ending_soon leases are scanned too and checked for
// expiry, otherwise a lease flagged ending_soon would never expire.
//
// Running it twice in a row changes nothing. Per-lease failures are logged and returned
// together with the partial result; a nil result means the leases could not be listed.
func (s *LeaseService) Sweep(ctx context.Context) (*SweepResult, error) {
	ctx = ensureContext(ctx)
	started := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(started).Seconds()) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	leases, err := s.store.Leases().List(ctx, store.LeaseFilter{
		Statuses: []models.LeaseStatus{models.LeaseStatusActive, models.LeaseStatusEndingSoon},
	})
	if err != nil {
		return nil, fmt.Errorf("lease service: sweep: list leases: %w", err)
	}

	now := s.now()
	result := &SweepResult{Expired: []string{}, EndingSoon: []string{}}
	var errs error

	for i := range leases {
		lease := &leases[i]
		days := lease.DaysUntilExpiry(now)

		switch {
		case days <= 0:
			if err := s.expire(ctx, lease, now); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			result.Expired = append(result.Expired, lease.ID)

		case lease.Status == models.LeaseStatusActive && days <= lease.RenewalNoticeDays:
			notified, err := s.markEndingSoon(ctx, lease, days, now)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			result.EndingSoon = append(result.EndingSoon, lease.ID)
			if notified {
				result.Notifications++
			}
		}
	}

	if len(result.Expired) > 0 || len(result.EndingSoon) > 0 {
		s.log.Info("lease sweep completed",
			zap.Int("expired", len(result.Expired)),
			zap.Int("ending_soon", len(result.EndingSoon)),
			zap.Int("notifications", result.Notifications))
	}
	if errs != nil {
		s.log.Warn("lease sweep left leases unchanged",
			zap.Int("failures", len(multierr.Errors(errs))),
			zap.Error(errs))
	}
	return result, errs
}

func (s *LeaseService) expire(ctx context.Context, lease *models.Lease, now time.Time) error {
	previous := lease.Status
	lease.Status = models.LeaseStatusExpired
	lease.UpdatedAt = now
	if err := s.store.Leases().Update(ctx, lease); err != nil {
		return fmt.Errorf("lease service: expire %s: %w", lease.ID, err)
	}
	recordTransition(previous, lease.Status)

	s.applyRoom(ctx, RoomAvailabilityUpdate{
		RoomID:        lease.RoomID,
		IsAvailable:   true,
		AvailableFrom: timePtr(now),
	})

	s.log.Info("lease expired", zap.String("lease_id", lease.ID), zap.String("room_id", lease.RoomID))
	s.events.Publish(realtime.StreamLeases, "lease.expired", lease)
	return nil
}

// markEndingSoon raises the renewal notice once per entry into the window and flags the
// lease. A failed notice leaves the lease untouched.
func (s *LeaseService) markEndingSoon(ctx context.Context, lease *models.Lease, days int, now time.Time) (bool, error) {
	notified := false
	if !lease.RenewalNoticeProvided {
		_, err := s.notifier.Notify(ctx, CreateNotificationInput{
			Type:      models.NotificationLeaseExpiring,
			Title:     "Lease Expiring Soon",
			Message:   fmt.Sprintf("%s's lease expires in %d days", lease.TenantName, days),
			Priority:  models.PriorityHigh,
			ActionURL: leasesActionURL,
			Metadata: map[string]any{
				"leaseId":         lease.ID,
				"roomId":          lease.RoomID,
				"daysUntilExpiry": days,
			},
		})
		if err != nil {
			return false, fmt.Errorf("lease service: renewal notice %s: %w", lease.ID, err)
		}
		lease.RenewalNoticeProvided = true
		notified = true
	}

	previous := lease.Status
	lease.Status = models.LeaseStatusEndingSoon
	lease.UpdatedAt = now
	if err := s.store.Leases().Update(ctx, lease); err != nil {
		return notified, fmt.Errorf("lease service: mark ending soon %s: %w", lease.ID, err)
	}
	recordTransition(previous, lease.Status)
	s.events.Publish(realtime.StreamLeases, "lease.ending_soon", lease)
	return notified, nil
}

// Get returns the lease with its action history, oldest first.
func (s *LeaseService) Get(ctx context.Context, id string) (*LeaseDetail, error) {
	ctx = ensureContext(ctx)
	lease, err := s.loadLease(ctx, id)
	if err != nil {
		return nil, err
	}
	actions, err := s.store.LeaseActions().List(ctx, lease.ID)
	if err != nil {
		return nil, fmt.Errorf("lease service: list actions: %w", err)
	}
	return &LeaseDetail{Lease: *lease, Actions: actions}, nil
}

// List returns leases, optionally filtered by status and room.
func (s *LeaseService) List(ctx context.Context, filter LeaseListFilter) ([]models.Lease, error) {
	ctx = ensureContext(ctx)
	query := store.LeaseFilter{RoomID: strings.TrimSpace(filter.RoomID)}
	if filter.Status != "" {
		query.Statuses = []models.LeaseStatus{filter.Status}
	}
	leases, err := s.store.Leases().List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lease service: list leases: %w", err)
	}
	return leases, nil
}

// ExpiringSoon returns active leases whose end date falls within [now, now+days]. Leases
// already flagged ending_soon are not included.
func (s *LeaseService) ExpiringSoon(ctx context.Context, days int) ([]models.Lease, error) {
	ctx = ensureContext(ctx)
	leases, err := s.store.Leases().List(ctx, store.LeaseFilter{
		Statuses: []models.LeaseStatus{models.LeaseStatusActive},
	})
	if err != nil {
		return nil, fmt.Errorf("lease service: expiring soon: %w", err)
	}

	now := s.now()
	horizon := now.AddDate(0, 0, days)
	out := make([]models.Lease, 0, len(leases))
	for _, lease := range leases {
		if !lease.EndDate.Before(now) && !lease.EndDate.After(horizon) {
			out = append(out, lease)
		}
	}
	return out, nil
}

// Actions returns the global action log, newest first.
func (s *LeaseService) Actions(ctx context.Context) ([]models.LeaseAction, error) {
	ctx = ensureContext(ctx)
	actions, err := s.store.LeaseActions().List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("lease service: list actions: %w", err)
	}
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	return actions, nil
}

func (s *LeaseService) loadLease(ctx context.Context, id string) (*models.Lease, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewNotFound("Lease")
	}
	lease, err := s.store.Leases().Get(ctx, id)
	if err != nil {
		return nil, translateStoreError("lease service", "load lease", "Lease", err)
	}
	return lease, nil
}

func (s *LeaseService) appendAction(ctx context.Context, leaseID string, actionType models.LeaseActionType, data models.LeaseActionData) (*models.LeaseAction, error) {
	action := &models.LeaseAction{
		ID:          models.NewID(),
		Type:        actionType,
		LeaseID:     leaseID,
		Data:        datatypes.NewJSONType(data),
		PerformedBy: s.actor,
		PerformedAt: s.now(),
	}
	if err := s.store.LeaseActions().Append(ctx, action); err != nil {
		return nil, fmt.Errorf("lease service: append %s action: %w", actionType, err)
	}
	return action, nil
}

// applyRoom hands the projection to the Room Directory. A lease pointing at an unknown room
// is tolerated.
func (s *LeaseService) applyRoom(ctx context.Context, update RoomAvailabilityUpdate) {
	if _, err := s.rooms.ApplyAvailability(ctx, update); err != nil {
		fields := []zap.Field{zap.String("room_id", update.RoomID), zap.Error(err)}
		if errors.Is(err, apperrors.ErrNotFound) {
			s.log.Warn("lease references unknown room", fields...)
			return
		}
		s.log.Error("apply room availability", fields...)
	}
}

// ownsRoom reports whether the lease may drive its room's availability: the room points at
// it, or points at nothing and the lease is still live.
func (s *LeaseService) ownsRoom(ctx context.Context, lease *models.Lease) bool {
	room, err := s.store.Rooms().Get(ctx, lease.RoomID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("load room for lease", zap.String("room_id", lease.RoomID), zap.Error(err))
		}
		return false
	}
	if room.CurrentLeaseID == nil {
		return !lease.Status.IsTerminal()
	}
	return *room.CurrentLeaseID == lease.ID
}

// roomProjection derives the room fields implied by a lease's status.
func roomProjection(lease *models.Lease, now time.Time) RoomAvailabilityUpdate {
	if lease.Status.IsTerminal() {
		return RoomAvailabilityUpdate{
			RoomID:        lease.RoomID,
			IsAvailable:   true,
			AvailableFrom: timePtr(now),
		}
	}
	return RoomAvailabilityUpdate{
		RoomID:         lease.RoomID,
		IsAvailable:    false,
		AvailableFrom:  timePtr(lease.EndDate),
		CurrentLeaseID: stringPtr(lease.ID),
	}
}

func applyLeaseUpdate(lease *models.Lease, patch LeaseUpdate) {
	if patch.TenantName != nil {
		lease.TenantName = strings.TrimSpace(*patch.TenantName)
	}
	if patch.TenantEmail != nil {
		lease.TenantEmail = strings.TrimSpace(*patch.TenantEmail)
	}
	if patch.TenantPhone != nil {
		lease.TenantPhone = *patch.TenantPhone
	}
	if patch.TenantEmergencyContact != nil {
		lease.TenantEmergencyContact = *patch.TenantEmergencyContact
	}
	if patch.TenantEmergencyPhone != nil {
		lease.TenantEmergencyPhone = *patch.TenantEmergencyPhone
	}
	if patch.StartDate != nil {
		lease.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		lease.EndDate = *patch.EndDate
	}
	if patch.MonthlyRent != nil {
		lease.MonthlyRent = *patch.MonthlyRent
	}
	if patch.Deposit != nil {
		lease.Deposit = *patch.Deposit
	}
	if patch.DepositPaid != nil {
		lease.DepositPaid = *patch.DepositPaid
	}
	if patch.DepositAmount != nil {
		lease.DepositAmount = *patch.DepositAmount
	}
	if patch.Status != nil {
		lease.Status = *patch.Status
	}
	if patch.TerminationReason != nil {
		lease.TerminationReason = *patch.TerminationReason
	}
	if patch.TerminationDate != nil {
		lease.TerminationDate = timePtr(*patch.TerminationDate)
	}
	if patch.LeaseTerms != nil {
		lease.LeaseTerms = append([]string(nil), patch.LeaseTerms...)
	}
	if patch.SpecialConditions != nil {
		lease.SpecialConditions = *patch.SpecialConditions
	}
	if patch.AutoRenewal != nil {
		lease.AutoRenewal = *patch.AutoRenewal
	}
	if patch.RenewalNoticeProvided != nil {
		lease.RenewalNoticeProvided = *patch.RenewalNoticeProvided
	}
	if patch.RenewalNoticeDays != nil {
		lease.RenewalNoticeDays = *patch.RenewalNoticeDays
	}
	if patch.LastPaymentDate != nil {
		lease.LastPaymentDate = timePtr(*patch.LastPaymentDate)
	}
	if patch.NextPaymentDue != nil {
		lease.NextPaymentDue = timePtr(*patch.NextPaymentDue)
	}
	if patch.PaymentStatus != nil {
		lease.PaymentStatus = *patch.PaymentStatus
	}
}

func recordTransition(from, to models.LeaseStatus) {
	metrics.LeaseTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func observeOperation(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		result = "not_found"
	case errors.Is(err, apperrors.ErrBadRequest):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.LeaseOperations.WithLabelValues(operation, result).Inc()
}

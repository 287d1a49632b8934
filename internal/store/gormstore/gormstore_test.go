package gormstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/roomrental/internal/database/testutil"
	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
	"github.com/charlesng35/roomrental/internal/store/gormstore"
)

func newStore(t *testing.T) *gormstore.Store {
	t.Helper()
	s, err := gormstore.New(testutil.MustOpenTestDB(t, testutil.WithAutoMigrate()))
	require.NoError(t, err)
	return s
}

func TestNewRequiresDB(t *testing.T) {
	_, err := gormstore.New(nil)
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestLeaseCreateUpdateAndFilter(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	lease := &models.Lease{
		RoomID:      "room-1",
		TenantName:  "Ada",
		TenantEmail: "ada@example.com",
		StartDate:   start,
		EndDate:     start.AddDate(0, 6, 0),
		MonthlyRent: 1000,
		Status:      models.LeaseStatusActive,
		LeaseTerms:  []string{"no pets"},
	}
	require.NoError(t, s.Leases().Create(ctx, lease))
	require.NotEmpty(t, lease.ID)

	lease.Status = models.LeaseStatusTerminated
	lease.TerminationReason = "moved out"
	require.NoError(t, s.Leases().Update(ctx, lease))

	stored, err := s.Leases().Get(ctx, lease.ID)
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusTerminated, stored.Status)
	require.Equal(t, "moved out", stored.TerminationReason)
	require.Equal(t, []string{"no pets"}, []string(stored.LeaseTerms))

	active, err := s.Leases().List(ctx, store.LeaseFilter{Statuses: []models.LeaseStatus{models.LeaseStatusActive}})
	require.NoError(t, err)
	require.Empty(t, active)

	byRoom, err := s.Leases().List(ctx, store.LeaseFilter{RoomID: "room-1"})
	require.NoError(t, err)
	require.Len(t, byRoom, 1)
}

func TestMissingRecordsReturnNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Leases().Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Rooms().Update(ctx, &models.Room{BaseModel: models.BaseModel{ID: "missing"}, Name: "x"})
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Properties().Delete(ctx, "missing"), store.ErrNotFound)
}

func TestUpdateWithoutChangedRowsIsNotMissing(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	// Report changed rows only, as MySQL does by default.
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:changed_rows", func(tx *gorm.DB) {
		tx.RowsAffected = 0
	}))
	s, err := gormstore.New(db)
	require.NoError(t, err)

	room := &models.Room{PropertyID: "p1", Name: "Room 1", Price: 900, IsAvailable: true}
	require.NoError(t, s.Rooms().Create(ctx, room))
	require.NoError(t, s.Rooms().Update(ctx, room))

	err = s.Rooms().Update(ctx, &models.Room{BaseModel: models.BaseModel{ID: "missing"}, Name: "x"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRoomAvailabilityFilterAndNullableLease(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	leaseID := "lease-1"
	require.NoError(t, s.Rooms().Create(ctx, &models.Room{PropertyID: "p1", Name: "Leased", Price: 900, CurrentLeaseID: &leaseID}))
	free := &models.Room{PropertyID: "p1", Name: "Free", Price: 700, IsAvailable: true}
	require.NoError(t, s.Rooms().Create(ctx, free))

	available := true
	rooms, err := s.Rooms().List(ctx, store.RoomFilter{IsAvailable: &available})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, "Free", rooms[0].Name)
	require.Nil(t, rooms[0].CurrentLeaseID)
}

func TestLeaseActionPayloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rent := 1250.0

	require.NoError(t, s.LeaseActions().Append(ctx, &models.LeaseAction{
		Type:        models.LeaseActionExtend,
		LeaseID:     "lease-1",
		Data:        datatypes.NewJSONType(models.LeaseActionData{NewEndDate: &end, NewRent: &rent}),
		PerformedBy: "admin",
		PerformedAt: end.AddDate(0, -1, 0),
	}))

	actions, err := s.LeaseActions().List(ctx, "lease-1")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	data := actions[0].Data.Data()
	require.NotNil(t, data.NewEndDate)
	require.True(t, data.NewEndDate.Equal(end))
	require.Equal(t, rent, *data.NewRent)
}

func TestNotificationBulkOperations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Notifications().Create(ctx, &models.Notification{
		BaseModel: models.BaseModel{CreatedAt: now.AddDate(0, 0, -60)},
		Type:      models.NotificationMessage,
		Title:     "old",
	}))
	require.NoError(t, s.Notifications().Create(ctx, &models.Notification{
		BaseModel: models.BaseModel{CreatedAt: now},
		Type:      models.NotificationTenantChanged,
		Title:     "new",
		Metadata:  datatypes.JSONMap{"leaseId": "lease-1"},
	}))

	listed, err := s.Notifications().List(ctx, store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "new", listed[0].Title)
	require.Equal(t, "lease-1", listed[0].Metadata["leaseId"])

	updated, err := s.Notifications().MarkAllRead(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, updated)

	removed, err := s.Notifications().DeleteReadBefore(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	unread, err := s.Notifications().List(ctx, store.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Empty(t, unread)
}

func TestCreateDuplicateIDConflicts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	property := &models.Property{BaseModel: models.BaseModel{ID: "p1"}, Name: "Harbour View", Address: "1 Quay"}
	require.NoError(t, s.Properties().Create(ctx, property))

	duplicate := &models.Property{BaseModel: models.BaseModel{ID: "p1"}, Name: "Other", Address: "2 Quay"}
	require.ErrorIs(t, s.Properties().Create(ctx, duplicate), store.ErrConflict)
}

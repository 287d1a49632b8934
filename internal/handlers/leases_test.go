package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/roomrental/internal/handlers"
	"github.com/charlesng35/roomrental/internal/handlers/testutil"
	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/services"
)

const day = 24 * time.Hour

func createLease(t *testing.T, env *testutil.Env, roomID string, end time.Time, extra gin.H) models.Lease {
	t.Helper()
	body := gin.H{
		"roomId":      roomID,
		"tenantName":  "A",
		"tenantEmail": "a@x.com",
		"startDate":   env.Clock.Now().Format(time.RFC3339),
		"endDate":     end.Format(time.RFC3339),
		"monthlyRent": 1000,
		"deposit":     500,
	}
	for key, value := range extra {
		body[key] = value
	}
	w := env.Request(http.MethodPost, "/api/leases", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.Decode[models.Lease](t, w)
}

func TestCreateLeaseMarksRoomLeased(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("5", "p1", 900)

	lease := createLease(t, env, "5", env.Clock.Now().Add(180*day), nil)
	require.Equal(t, models.LeaseStatusActive, lease.Status)
	require.Equal(t, 30, lease.RenewalNoticeDays)
	require.Equal(t, 500.0, lease.DepositAmount)
	require.Equal(t, models.PaymentStatusCurrent, lease.PaymentStatus)

	room := env.Room("5")
	require.False(t, room.IsAvailable)
	require.NotNil(t, room.CurrentLeaseID)
	require.Equal(t, lease.ID, *room.CurrentLeaseID)
}

func TestCreateLeaseAcceptsPlainDates(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)

	w := env.Request(http.MethodPost, "/api/leases", gin.H{
		"roomId": "1", "tenantName": "A", "tenantEmail": "a@x.com",
		"startDate": "2024-06-01", "endDate": "2024-12-01", "monthlyRent": 900,
		"status": "pending", "renewalNoticeDays": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	lease := testutil.Decode[models.Lease](t, w)
	require.Equal(t, models.LeaseStatusPending, lease.Status)
	require.Equal(t, 60, lease.RenewalNoticeDays)
	require.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), lease.EndDate.UTC())
	require.False(t, env.Room("1").IsAvailable)
}

func TestCreateLeaseValidation(t *testing.T) {
	env := testutil.NewEnv(t)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{
			name:    "missing fields",
			body:    gin.H{"roomId": "1", "tenantName": "A"},
			message: "Missing required fields",
		},
		{
			name: "zero rent",
			body: gin.H{
				"roomId": "1", "tenantName": "A", "tenantEmail": "a@x.com",
				"startDate": "2024-06-01", "endDate": "2024-12-01", "monthlyRent": 0,
			},
			message: "Missing required fields",
		},
		{
			name: "unparseable date",
			body: gin.H{
				"roomId": "1", "tenantName": "A", "tenantEmail": "a@x.com",
				"startDate": "01/06/2024", "endDate": "2024-12-01", "monthlyRent": 900,
			},
			message: "startDate must be a valid date",
		},
		{
			name: "unknown payment status",
			body: gin.H{
				"roomId": "1", "tenantName": "A", "tenantEmail": "a@x.com",
				"startDate": "2024-06-01", "endDate": "2024-12-01", "monthlyRent": 900,
				"paymentStatus": "someday",
			},
			message: "paymentStatus must be one of: current, late, overdue",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.Request(http.MethodPost, "/api/leases", tc.body)
			testutil.RequireError(t, w, http.StatusBadRequest, tc.message)
		})
	}
}

func TestCreateLeaseRejectsMalformedJSON(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/leases", "not an object")
	testutil.RequireError(t, w, http.StatusBadRequest, "invalid JSON payload")
}

func TestListLeasesSweepsAndFilters(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	env.AddRoom("2", "p1", 900)

	overdue := createLease(t, env, "1", env.Clock.Now().Add(-day), nil)
	current := createLease(t, env, "2", env.Clock.Now().Add(200*day), nil)

	w := env.Request(http.MethodGet, "/api/leases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	leases := testutil.Decode[[]models.Lease](t, w)
	require.Len(t, leases, 2)

	require.Equal(t, models.LeaseStatusExpired, env.Lease(overdue.ID).Status)
	require.True(t, env.Room("1").IsAvailable)

	w = env.Request(http.MethodGet, "/api/leases?status=expired", nil)
	require.Equal(t, http.StatusOK, w.Code)
	leases = testutil.Decode[[]models.Lease](t, w)
	require.Len(t, leases, 1)
	require.Equal(t, overdue.ID, leases[0].ID)

	w = env.Request(http.MethodGet, "/api/leases?status=active", nil)
	leases = testutil.Decode[[]models.Lease](t, w)
	require.Len(t, leases, 1)
	require.Equal(t, current.ID, leases[0].ID)
}

func TestExpiringSoonQueries(t *testing.T) {
	env := testutil.NewEnv(t)
	for _, id := range []string{"1", "2", "3"} {
		env.AddRoom(id, "p1", 900)
	}

	// short notice window keeps this lease active while it is inside the 30 day horizon
	inWindow := createLease(t, env, "1", env.Clock.Now().Add(20*day), gin.H{"renewalNoticeDays": 10})
	// flagged ending_soon by the sweep, so no longer active
	createLease(t, env, "2", env.Clock.Now().Add(20*day), nil)
	createLease(t, env, "3", env.Clock.Now().Add(90*day), nil)

	for _, path := range []string{"/api/leases/expiring-soon", "/api/leases?expiring_soon=true&days=30"} {
		w := env.Request(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		leases := testutil.Decode[[]models.Lease](t, w)
		require.Len(t, leases, 1, path)
		require.Equal(t, inWindow.ID, leases[0].ID)
	}

	w := env.Request(http.MethodGet, "/api/leases/expiring-soon?days=120", nil)
	leases := testutil.Decode[[]models.Lease](t, w)
	require.Len(t, leases, 2)
}

type downSink struct{}

func (downSink) Notify(context.Context, services.CreateNotificationInput) (*models.Notification, error) {
	return nil, errors.New("sink down")
}

func TestLeaseReadsSurvivePartialSweepFailure(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	lease := createLease(t, env, "1", env.Clock.Now().Add(5*day), nil)

	leases, err := services.NewLeaseService(env.Store, env.Services.Rooms, downSink{}, services.WithNow(env.Clock.Now))
	require.NoError(t, err)
	handler := handlers.NewLeaseHandler(leases, 30)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/leases", handler.List)
	router.GET("/leases/expiring-soon", handler.ExpiringSoon)

	for _, path := range []string{"/leases", "/leases/expiring-soon"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		rows := testutil.Decode[[]models.Lease](t, w)
		require.Len(t, rows, 1, path)
		require.Equal(t, lease.ID, rows[0].ID)
		require.Equal(t, models.LeaseStatusActive, rows[0].Status)
	}
}

func TestGetLeaseIncludesActions(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	lease := createLease(t, env, "1", env.Clock.Now().Add(100*day), nil)

	w := env.Request(http.MethodPost, "/api/leases/"+lease.ID+"/extend", gin.H{"newEndDate": "2025-06-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.Request(http.MethodGet, "/api/leases/"+lease.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := testutil.Decode[services.LeaseDetail](t, w)
	require.Equal(t, lease.ID, detail.ID)
	require.Len(t, detail.Actions, 2)
	require.Equal(t, models.LeaseActionRenew, detail.Actions[0].Type)
	require.Equal(t, models.LeaseActionExtend, detail.Actions[1].Type)

	w = env.Request(http.MethodGet, "/api/leases/missing", nil)
	testutil.RequireError(t, w, http.StatusNotFound, "Lease not found")
}

func TestUpdateLease(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	lease := createLease(t, env, "1", env.Clock.Now().Add(100*day), nil)

	w := env.Request(http.MethodPut, "/api/leases/"+lease.ID, gin.H{"monthlyRent": 1200, "tenantPhone": "555-0100"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := testutil.Decode[models.Lease](t, w)
	require.Equal(t, 1200.0, updated.MonthlyRent)
	require.Equal(t, "555-0100", updated.TenantPhone)

	w = env.Request(http.MethodPut, "/api/leases/"+lease.ID, gin.H{"status": "expired"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.True(t, env.Room("1").IsAvailable)

	w = env.Request(http.MethodPut, "/api/leases/missing", gin.H{"monthlyRent": 1})
	testutil.RequireError(t, w, http.StatusNotFound, "Lease not found")
}

func TestTerminateLease(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	env.AddRoom("2", "p1", 900)
	first := createLease(t, env, "1", env.Clock.Now().Add(100*day), nil)
	second := createLease(t, env, "2", env.Clock.Now().Add(100*day), nil)

	w := env.Request(http.MethodDelete, "/api/leases/"+first.ID, gin.H{"reason": "Moved abroad"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Lease terminated successfully", testutil.Decode[map[string]any](t, w)["message"])

	terminated := env.Lease(first.ID)
	require.Equal(t, models.LeaseStatusTerminated, terminated.Status)
	require.Equal(t, "Moved abroad", terminated.TerminationReason)
	require.True(t, env.Room("1").IsAvailable)

	// no body falls back to the default reason
	w = env.Request(http.MethodDelete, "/api/leases/"+second.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Terminated by admin", env.Lease(second.ID).TerminationReason)

	w = env.Request(http.MethodDelete, "/api/leases/missing", gin.H{})
	testutil.RequireError(t, w, http.StatusNotFound, "Lease not found")
}

func TestExtendLease(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	lease := createLease(t, env, "1", env.Clock.Now().Add(10*day), nil)

	// the sweep moves the lease into ending_soon first
	w := env.Request(http.MethodGet, "/api/leases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.LeaseStatusEndingSoon, env.Lease(lease.ID).Status)

	w = env.Request(http.MethodPost, "/api/leases/"+lease.ID+"/extend", gin.H{"newEndDate": "2025-06-01", "newRent": 1100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testutil.Decode[map[string]any](t, w)
	require.Equal(t, "Lease extended successfully", body["message"])
	require.Equal(t, "2025-06-01T00:00:00Z", body["newEndDate"])
	require.Equal(t, 1100.0, body["newRent"])

	extended := env.Lease(lease.ID)
	require.Equal(t, models.LeaseStatusActive, extended.Status)
	require.False(t, extended.RenewalNoticeProvided)
	require.Equal(t, 1100.0, extended.MonthlyRent)
	require.Equal(t, 1100.0, env.Room("1").Price)

	w = env.Request(http.MethodPost, "/api/leases/"+lease.ID+"/extend", gin.H{})
	testutil.RequireError(t, w, http.StatusBadRequest, "New end date is required")

	w = env.Request(http.MethodPost, "/api/leases/missing/extend", gin.H{"newEndDate": "2025-06-01"})
	testutil.RequireError(t, w, http.StatusNotFound, "Lease not found")
}

func TestChangeTenant(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	lease := createLease(t, env, "1", env.Clock.Now().Add(100*day), nil)

	w := env.Request(http.MethodDelete, "/api/leases/"+lease.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// terminated leases still accept a tenant change
	w = env.Request(http.MethodPost, "/api/leases/"+lease.ID+"/change-tenant", gin.H{
		"newTenantName":  "B",
		"newTenantEmail": "b@x.com",
		"effectiveDate":  "2024-07-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testutil.Decode[map[string]any](t, w)
	require.Equal(t, "Tenant changed successfully", body["message"])
	require.Equal(t, "B", body["newTenantName"])
	require.Equal(t, "b@x.com", body["newTenantEmail"])
	require.Equal(t, "2024-07-01T00:00:00Z", body["effectiveDate"])

	changed := env.Lease(lease.ID)
	require.Equal(t, "B", changed.TenantName)
	require.Equal(t, models.LeaseStatusTerminated, changed.Status)

	w = env.Request(http.MethodPost, "/api/leases/"+lease.ID+"/change-tenant", gin.H{"newTenantName": "C"})
	testutil.RequireError(t, w, http.StatusBadRequest, "New tenant name and email are required")

	w = env.Request(http.MethodPost, "/api/leases/missing/change-tenant", gin.H{"newTenantName": "C", "newTenantEmail": "c@x.com"})
	testutil.RequireError(t, w, http.StatusNotFound, "Lease not found")
}

func TestLeaseActionLogNewestFirst(t *testing.T) {
	env := testutil.NewEnv(t)
	env.AddRoom("1", "p1", 900)
	lease := createLease(t, env, "1", env.Clock.Now().Add(100*day), nil)

	env.Clock.Advance(time.Hour)
	w := env.Request(http.MethodDelete, "/api/leases/"+lease.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodGet, "/api/leases/actions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	actions := testutil.Decode[[]models.LeaseAction](t, w)
	require.Len(t, actions, 2)
	require.Equal(t, models.LeaseActionTerminate, actions[0].Type)
	require.Equal(t, models.LeaseActionRenew, actions[1].Type)
	require.Equal(t, "admin", actions[0].PerformedBy)
}

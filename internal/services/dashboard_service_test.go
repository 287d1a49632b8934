package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.addRoom(t, "1", 900)
	env.addRoom(t, "2", 700)
	env.addRoom(t, "3", 500)

	flagged := env.createLease(t, "1", 20*day)

	now := env.clock.Now()
	notice := 10
	_, err := env.leases.Create(ctx, CreateLeaseInput{
		RoomID:            "2",
		TenantName:        "B",
		TenantEmail:       "b@x.com",
		StartDate:         now,
		EndDate:           now.Add(20 * day),
		MonthlyRent:       700,
		RenewalNoticeDays: &notice,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := env.messages.Create(ctx, CreateMessageInput{RoomID: "3", SenderName: "J", SenderEmail: "j@x.com", Content: "hi"})
		require.NoError(t, err)
	}
	views, err := env.messages.List(ctx, "")
	require.NoError(t, err)
	_, err = env.messages.MarkRead(ctx, views[0].ID)
	require.NoError(t, err)

	stats, err := env.dashboard.Stats(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, stats.TotalRooms)
	require.Equal(t, 1, stats.AvailableRooms)
	require.Equal(t, 2, stats.OccupiedRooms)
	require.Equal(t, 1600.0, stats.MonthlyRevenue)
	require.Equal(t, 700.0, stats.AverageRoomPrice)
	require.InDelta(t, 66.67, stats.OccupancyRate, 0.01)
	require.Equal(t, 2, stats.TotalMessages)
	require.Equal(t, 1, stats.UnreadMessages)
	require.Equal(t, 2, stats.TotalActiveLeases)
	require.Equal(t, 1, stats.ExpiringSoonLeases)
	// six months for the flagged lease, zero for the short one
	require.Equal(t, 3.0, stats.AverageLeaseDuration)

	// Stats sweeps first, so the lease inside its notice window is flagged.
	require.Equal(t, "ending_soon", string(env.lease(t, flagged.ID).Status))
}

func TestDashboardStatsEmpty(t *testing.T) {
	env := newServiceEnv(t)

	stats, err := env.dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.TotalRooms)
	require.Zero(t, stats.OccupancyRate)
	require.Zero(t, stats.AverageLeaseDuration)
}

func TestDashboardStatsToleratesRenewalNoticeFailure(t *testing.T) {
	env := newServiceEnv(t)
	env.addRoom(t, "1", 900)
	env.createLease(t, "1", 5*day)

	flaky, err := NewLeaseService(env.store, env.rooms, failingSink{err: errors.New("sink down")}, WithNow(env.clock.Now))
	require.NoError(t, err)
	dashboard, err := NewDashboardService(env.store, flaky, 30)
	require.NoError(t, err)

	stats, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalActiveLeases)
	require.Equal(t, 1, stats.ExpiringSoonLeases)
	require.Equal(t, 1, stats.OccupiedRooms)
}

func TestMonthsBetween(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	require.Equal(t, 12, monthsBetween(date(2024, 1, 1), date(2025, 1, 1)))
	require.Equal(t, 11, monthsBetween(date(2024, 1, 15), date(2025, 1, 14)))
	require.Equal(t, 0, monthsBetween(date(2024, 1, 15), date(2024, 2, 14)))
	require.Equal(t, -2, monthsBetween(date(2024, 3, 1), date(2024, 1, 1)))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
)

// DashboardStats summarises occupancy, revenue and lease health.
type DashboardStats struct {
	TotalRooms           int     `json:"totalRooms"`
	AvailableRooms       int     `json:"availableRooms"`
	OccupiedRooms        int     `json:"occupiedRooms"`
	UnreadMessages       int     `json:"unreadMessages"`
	MonthlyRevenue       float64 `json:"monthlyRevenue"`
	ExpiringSoonLeases   int     `json:"expiringSoonLeases"`
	TotalMessages        int     `json:"totalMessages"`
	AverageRoomPrice     float64 `json:"averageRoomPrice"`
	OccupancyRate        float64 `json:"occupancyRate"`
	TotalActiveLeases    int     `json:"totalActiveLeases"`
	AverageLeaseDuration float64 `json:"averageLeaseDuration"`
}

// DashboardService computes DashboardStats.
type DashboardService struct {
	store        store.Store
	leases       *LeaseService
	expiringDays int
}

// NewDashboardService constructs a DashboardService. expiringDays is the horizon of the
// expiring-soon counter.
func NewDashboardService(st store.Store, leases *LeaseService, expiringDays int) (*DashboardService, error) {
	if st == nil || leases == nil {
		return nil, errors.New("dashboard service: store and lease service are required")
	}
	if expiringDays <= 0 {
		expiringDays = 30
	}
	return &DashboardService{store: st, leases: leases, expiringDays: expiringDays}, nil
}

// Stats refreshes lease statuses and returns the current figures. Leases the sweep could
// not update are counted as stored.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	ctx = ensureContext(ctx)
	if result, err := s.leases.Sweep(ctx); err != nil && result == nil {
		return nil, err
	}

	rooms, err := s.store.Rooms().List(ctx, store.RoomFilter{})
	if err != nil {
		return nil, fmt.Errorf("dashboard service: list rooms: %w", err)
	}
	messages, err := s.store.Messages().List(ctx, store.MessageFilter{})
	if err != nil {
		return nil, fmt.Errorf("dashboard service: list messages: %w", err)
	}
	live, err := s.store.Leases().List(ctx, store.LeaseFilter{
		Statuses: []models.LeaseStatus{models.LeaseStatusActive, models.LeaseStatusEndingSoon},
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard service: list leases: %w", err)
	}
	expiring, err := s.leases.ExpiringSoon(ctx, s.expiringDays)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalRooms:         len(rooms),
		TotalMessages:      len(messages),
		ExpiringSoonLeases: len(expiring),
		TotalActiveLeases:  len(live),
	}

	var totalPrice float64
	for _, room := range rooms {
		totalPrice += room.Price
		if room.IsAvailable {
			stats.AvailableRooms++
			continue
		}
		stats.MonthlyRevenue += room.Price
	}
	stats.OccupiedRooms = stats.TotalRooms - stats.AvailableRooms
	if stats.TotalRooms > 0 {
		stats.AverageRoomPrice = totalPrice / float64(stats.TotalRooms)
		stats.OccupancyRate = float64(stats.OccupiedRooms) / float64(stats.TotalRooms) * 100
	}

	for _, message := range messages {
		if !message.IsRead {
			stats.UnreadMessages++
		}
	}

	if len(live) > 0 {
		var months int
		for _, lease := range live {
			months += monthsBetween(lease.StartDate, lease.EndDate)
		}
		stats.AverageLeaseDuration = float64(months) / float64(len(live))
	}

	return stats, nil
}

// monthsBetween counts whole calendar months from start to end.
func monthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return -monthsBetween(end, start)
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if start.AddDate(0, months, 0).After(end) {
		months--
	}
	return months
}

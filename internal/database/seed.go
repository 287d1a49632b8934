package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
	"github.com/charlesng35/roomrental/internal/store/gormstore"
)

// SeedData inserts the demo catalogue into a migrated database.
func SeedData(db *gorm.DB, now time.Time) error {
	s, err := gormstore.New(db)
	if err != nil {
		return err
	}
	return SeedStore(context.Background(), s, now)
}

// SeedStore inserts demo properties, rooms, leases, messages and notifications.
// Records that already exist are left untouched, so seeding is idempotent.
// Lease dates are relative to now.
func SeedStore(ctx context.Context, s store.Store, now time.Time) error {
	now = now.UTC()
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	ptr := func(t time.Time) *time.Time { return &t }

	for _, property := range demoProperties() {
		property := property
		if err := seedOne(ctx, property.ID, s.Properties().Get, func() error {
			return s.Properties().Create(ctx, &property)
		}); err != nil {
			return fmt.Errorf("seed property %s: %w", property.ID, err)
		}
	}

	leases := []models.Lease{
		{
			BaseModel:              models.BaseModel{ID: "lease-1", CreatedAt: day(-90)},
			RoomID:                 "3",
			TenantName:             "Carlos Mendoza",
			TenantEmail:            "carlos.mendoza@email.com",
			TenantPhone:            "+1 555-123-4567",
			TenantEmergencyContact: "Maria Mendoza",
			TenantEmergencyPhone:   "+1 555-123-4568",
			StartDate:              day(-90),
			EndDate:                day(30),
			MonthlyRent:            1600,
			Deposit:                4800,
			DepositPaid:            true,
			DepositAmount:          4800,
			Status:                 models.LeaseStatusEndingSoon,
			RenewalNoticeDays:      30,
			PaymentStatus:          models.PaymentStatusCurrent,
			LastPaymentDate:        ptr(day(-5)),
			NextPaymentDue:         ptr(day(25)),
			LeaseTerms: []string{
				"No smoking inside the premises",
				"No pets allowed",
				"Quiet hours: 10 PM - 7 AM",
				"Monthly inspection allowed",
			},
			SpecialConditions: "Tenant is responsible for utilities",
		},
		{
			BaseModel:              models.BaseModel{ID: "lease-2", CreatedAt: day(-180)},
			RoomID:                 "4",
			TenantName:             "Ana García",
			TenantEmail:            "ana.garcia@email.com",
			TenantPhone:            "+1 555-987-6543",
			TenantEmergencyContact: "Luis García",
			TenantEmergencyPhone:   "+1 555-987-6544",
			StartDate:              day(-180),
			EndDate:                day(60),
			MonthlyRent:            1350,
			Deposit:                2700,
			DepositPaid:            true,
			DepositAmount:          2700,
			Status:                 models.LeaseStatusActive,
			AutoRenewal:            true,
			RenewalNoticeDays:      60,
			PaymentStatus:          models.PaymentStatusCurrent,
			LastPaymentDate:        ptr(day(-15)),
			NextPaymentDue:         ptr(day(15)),
			LeaseTerms: []string{
				"Pets allowed with additional deposit",
				"Tenant maintains terrace garden",
				"Quiet hours: 10 PM - 8 AM",
			},
			SpecialConditions: "Water and electricity included in rent",
		},
	}

	currentLease := make(map[string]models.Lease, len(leases))
	for _, lease := range leases {
		currentLease[lease.RoomID] = lease
	}

	for _, room := range demoRooms(day) {
		room := room
		if lease, ok := currentLease[room.ID]; ok {
			leaseID := lease.ID
			room.IsAvailable = false
			room.CurrentLeaseID = &leaseID
			room.AvailableFrom = ptr(lease.EndDate)
		}
		if err := seedOne(ctx, room.ID, s.Rooms().Get, func() error {
			return s.Rooms().Create(ctx, &room)
		}); err != nil {
			return fmt.Errorf("seed room %s: %w", room.ID, err)
		}
	}

	for _, lease := range leases {
		lease := lease
		created := false
		if err := seedOne(ctx, lease.ID, s.Leases().Get, func() error {
			created = true
			return s.Leases().Create(ctx, &lease)
		}); err != nil {
			return fmt.Errorf("seed lease %s: %w", lease.ID, err)
		}
		if created && lease.ID == "lease-1" {
			action := models.LeaseAction{
				Type:        models.LeaseActionExtend,
				LeaseID:     lease.ID,
				Data:        datatypes.NewJSONType(models.LeaseActionData{NewEndDate: ptr(day(30))}),
				PerformedBy: "admin@roomrental.com",
				PerformedAt: day(-10),
			}
			if err := s.LeaseActions().Append(ctx, &action); err != nil {
				return fmt.Errorf("seed lease action: %w", err)
			}
		}
	}

	for _, message := range demoMessages() {
		message := message
		if err := seedOne(ctx, message.ID, s.Messages().Get, func() error {
			return s.Messages().Create(ctx, &message)
		}); err != nil {
			return fmt.Errorf("seed message %s: %w", message.ID, err)
		}
	}

	notifications := []models.Notification{
		{
			BaseModel: models.BaseModel{ID: "1", CreatedAt: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)},
			Type:      models.NotificationMessage,
			Title:     "New message from Maria Gonzalez",
			Message:   "Inquiry about Premium Room 101",
			Priority:  models.PriorityHigh,
			ActionURL: "/admin/messages",
		},
		{
			BaseModel: models.BaseModel{ID: "2", CreatedAt: now},
			Type:      models.NotificationLeaseExpiring,
			Title:     "Contract expiring soon",
			Message:   "Executive Suite 201 available in 30 days",
			Priority:  models.PriorityHigh,
			ActionURL: "/admin/rooms/3",
		},
	}
	for _, notification := range notifications {
		notification := notification
		if err := seedOne(ctx, notification.ID, s.Notifications().Get, func() error {
			return s.Notifications().Create(ctx, &notification)
		}); err != nil {
			return fmt.Errorf("seed notification %s: %w", notification.ID, err)
		}
	}

	return nil
}

func seedOne[T any](ctx context.Context, id string, get func(context.Context, string) (T, error), create func() error) error {
	_, err := get(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return create()
}

func demoProperties() []models.Property {
	coords := func(v float64) *float64 { return &v }
	return []models.Property{
		{
			BaseModel:   models.BaseModel{ID: "1", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			Name:        "Central House",
			Address:     "1234 Main Street, Downtown",
			Description: "Main property with excellent location",
			Latitude:    coords(40.7128),
			Longitude:   coords(-74.006),
		},
		{
			BaseModel:   models.BaseModel{ID: "2", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			Name:        "North Residence",
			Address:     "5678 Oak Avenue, Uptown",
			Description: "Family residence in quiet area",
			Latitude:    coords(40.7589),
			Longitude:   coords(-73.9851),
		},
		{
			BaseModel:   models.BaseModel{ID: "3", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			Name:        "Modern Tower",
			Address:     "2345 Park Boulevard, Midtown",
			Description: "Modern building in the heart of the city",
			Latitude:    coords(40.7505),
			Longitude:   coords(-73.9934),
		},
	}
}

func demoRooms(day func(int) time.Time) []models.Room {
	size := func(v float64) *float64 { return &v }
	at := func(t time.Time) *time.Time { return &t }
	return []models.Room{
		{
			BaseModel:     models.BaseModel{ID: "1", CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
			PropertyID:    "1",
			Name:          "Premium Room 101",
			Description:   "Spacious room with street view, fully furnished",
			Price:         1200,
			Images:        []string{"/images/room1-1.jpg", "/images/room1-2.jpg", "/images/room1-3.jpg"},
			Amenities:     []string{"WiFi", "Air Conditioning", "Private Bathroom", "Closet", "Desk"},
			Requirements:  []string{"2-month deposit", "Proof of income", "Guarantor required"},
			IsAvailable:   true,
			Size:          size(25),
			MaxOccupants:  2,
			AvailableFrom: at(day(0)),
		},
		{
			BaseModel:     models.BaseModel{ID: "2", CreatedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
			PropertyID:    "1",
			Name:          "Standard Room 102",
			Description:   "Comfortable and bright room, ideal for students",
			Price:         900,
			Images:        []string{"/images/room2-1.jpg", "/images/room2-2.jpg"},
			Amenities:     []string{"WiFi", "Fan", "Closet", "Desk"},
			Requirements:  []string{"1-month deposit", "Proof of income"},
			IsAvailable:   true,
			Size:          size(18),
			MaxOccupants:  1,
			AvailableFrom: at(day(15)),
		},
		{
			BaseModel:    models.BaseModel{ID: "3", CreatedAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
			PropertyID:   "2",
			Name:         "Executive Suite 201",
			Description:  "Complete suite with kitchenette and living room",
			Price:        1600,
			Images:       []string{"/images/room3-1.jpg", "/images/room3-2.jpg", "/images/room3-3.jpg"},
			Amenities:    []string{"WiFi", "Air Conditioning", "Private Bathroom", "Kitchenette", "Living Room", "Balcony"},
			Requirements: []string{"3-month deposit", "Proof of income", "Guarantor required", "Security insurance"},
			IsAvailable:  true,
			Size:         size(45),
			MaxOccupants: 2,
		},
		{
			BaseModel:    models.BaseModel{ID: "4", CreatedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
			PropertyID:   "3",
			Name:         "Modern Loft 301",
			Description:  "Designer loft with large windows and private terrace",
			Price:        1350,
			Images:       []string{"/images/room4-1.jpg", "/images/room4-2.jpg"},
			Amenities:    []string{"WiFi", "Air Conditioning", "Terrace", "Integrated Kitchen", "Washing Machine"},
			Requirements: []string{"2-month deposit", "Proof of income"},
			IsAvailable:  true,
			Size:         size(35),
			MaxOccupants: 2,
		},
		{
			BaseModel:     models.BaseModel{ID: "5", CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
			PropertyID:    "1",
			Name:          "Shared Room 103",
			Description:   "Spacious room for sharing, ideal for students",
			Price:         650,
			Images:        []string{"/images/room5-1.jpg"},
			Amenities:     []string{"WiFi", "Fan", "Closet", "Desk", "Shared Bathroom"},
			Requirements:  []string{"1-month deposit"},
			IsAvailable:   true,
			Size:          size(20),
			MaxOccupants:  2,
			AvailableFrom: at(day(7)),
		},
	}
}

func demoMessages() []models.Message {
	return []models.Message{
		{
			BaseModel:   models.BaseModel{ID: "1", CreatedAt: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)},
			RoomID:      "1",
			SenderName:  "Maria Gonzalez",
			SenderEmail: "maria@example.com",
			SenderPhone: "+1 555-123-4567",
			Content:     "Hi, I'm very interested in this room. Could we schedule a viewing? I need to move next month.",
			Priority:    models.PriorityHigh,
		},
		{
			BaseModel:   models.BaseModel{ID: "2", CreatedAt: time.Date(2024, 6, 2, 14, 20, 0, 0, time.UTC)},
			RoomID:      "2",
			SenderName:  "John Perez",
			SenderEmail: "john@example.com",
			Content:     "Does the room include utilities? When would it be available exactly?",
			Priority:    models.PriorityMedium,
		},
		{
			BaseModel:   models.BaseModel{ID: "3", CreatedAt: time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC)},
			RoomID:      "5",
			SenderName:  "Sofia Rodriguez",
			SenderEmail: "sofia@example.com",
			SenderPhone: "+1 555-555-1234",
			Content:     "Looking for a room to share. I'm a university student, very organized and responsible.",
			IsRead:      true,
			Priority:    models.PriorityMedium,
		},
	}
}

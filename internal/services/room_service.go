package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
	apperrors "github.com/charlesng35/roomrental/pkg/errors"
)

// RoomQuery filters and orders room listings. Zero values match everything.
type RoomQuery struct {
	Available    *bool
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	MaxOccupants *int
	PropertyID   string
	Amenities    []string
	SortBy       string // price | name | date | size
	SortOrder    string // asc | desc
}

// RoomView is a room enriched with its property and current lease.
type RoomView struct {
	models.Room
	Property     *models.Property `json:"property,omitempty"`
	CurrentLease *models.Lease    `json:"currentLease,omitempty"`
}

// RoomInput carries the writable room attributes. Availability is not writable here.
type RoomInput struct {
	PropertyID   *string
	Name         *string
	Description  *string
	Price        *float64
	Images       []string
	Amenities    []string
	Requirements []string
	Size         *float64
	MaxOccupants *int
}

// RoomService is the Room Directory.
type RoomService struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
}

// NewRoomService constructs a RoomService.
func NewRoomService(st store.Store, now func() time.Time) (*RoomService, error) {
	if st == nil {
		return nil, errors.New("room service: store is required")
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{store: st, now: now}, nil
}

// List returns rooms matching query, each with its property and current lease.
func (s *RoomService) List(ctx context.Context, query RoomQuery) ([]RoomView, error) {
	ctx = ensureContext(ctx)
	rooms, err := s.store.Rooms().List(ctx, store.RoomFilter{
		IsAvailable: query.Available,
		PropertyID:  strings.TrimSpace(query.PropertyID),
	})
	if err != nil {
		return nil, fmt.Errorf("room service: list rooms: %w", err)
	}

	properties, err := s.propertyIndex(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))
	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		property := properties[room.PropertyID]
		if !matchesRoom(room, property, search, query) {
			continue
		}
		view := RoomView{Room: room, Property: property}
		if err := s.attachLease(ctx, &view); err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	sortRooms(views, query.SortBy, query.SortOrder)
	return views, nil
}

// Get returns one room with its property and current lease.
func (s *RoomService) Get(ctx context.Context, id string) (*RoomView, error) {
	ctx = ensureContext(ctx)
	room, err := s.store.Rooms().Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, translateStoreError("room service", "get room", "Room", err)
	}
	return s.view(ctx, room)
}

// Create adds a room. Name, property and price are required; new rooms are available.
func (s *RoomService) Create(ctx context.Context, input RoomInput) (*RoomView, error) {
	ctx = ensureContext(ctx)
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" ||
		input.PropertyID == nil || strings.TrimSpace(*input.PropertyID) == "" ||
		input.Price == nil {
		return nil, apperrors.NewBadRequest("Name, property and price are required")
	}

	room := &models.Room{
		Images:       []string{},
		Amenities:    []string{},
		Requirements: []string{},
		MaxOccupants: 1,
		IsAvailable:  true,
	}
	applyRoomInput(room, input)
	now := s.now()
	room.CreatedAt = now
	room.UpdatedAt = now

	if err := s.store.Rooms().Create(ctx, room); err != nil {
		return nil, fmt.Errorf("room service: create room: %w", err)
	}
	return s.view(ctx, room)
}

// Update changes descriptive room attributes.
func (s *RoomService) Update(ctx context.Context, id string, input RoomInput) (*RoomView, error) {
	ctx = ensureContext(ctx)
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, apperrors.NewBadRequest("Room name cannot be empty")
	}

	s.mu.Lock()
	room, err := s.store.Rooms().Get(ctx, strings.TrimSpace(id))
	if err != nil {
		s.mu.Unlock()
		return nil, translateStoreError("room service", "load room", "Room", err)
	}
	applyRoomInput(room, input)
	room.UpdatedAt = s.now()
	err = s.store.Rooms().Update(ctx, room)
	s.mu.Unlock()
	if err != nil {
		return nil, translateStoreError("room service", "update room", "Room", err)
	}
	return s.view(ctx, room)
}

// Delete removes a room.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return translateStoreError("room service", "delete room", "Room", s.store.Rooms().Delete(ctx, strings.TrimSpace(id)))
}

// ApplyAvailability writes the availability projection computed by a lease transition.
func (s *RoomService) ApplyAvailability(ctx context.Context, update RoomAvailabilityUpdate) (*models.Room, error) {
	ctx = ensureContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.store.Rooms().Get(ctx, update.RoomID)
	if err != nil {
		return nil, translateStoreError("room service", "load room", "Room", err)
	}

	room.IsAvailable = update.IsAvailable
	room.AvailableFrom = nil
	if update.AvailableFrom != nil {
		room.AvailableFrom = timePtr(*update.AvailableFrom)
	}
	room.CurrentLeaseID = nil
	if update.CurrentLeaseID != nil {
		room.CurrentLeaseID = stringPtr(*update.CurrentLeaseID)
	}
	if update.Price != nil {
		room.Price = *update.Price
	}
	room.UpdatedAt = s.now()

	if err := s.store.Rooms().Update(ctx, room); err != nil {
		return nil, translateStoreError("room service", "apply availability", "Room", err)
	}
	return room, nil
}

func (s *RoomService) view(ctx context.Context, room *models.Room) (*RoomView, error) {
	view := RoomView{Room: *room}
	if room.PropertyID != "" {
		property, err := s.store.Properties().Get(ctx, room.PropertyID)
		switch {
		case err == nil:
			view.Property = property
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("room service: load property: %w", err)
		}
	}
	if err := s.attachLease(ctx, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *RoomService) attachLease(ctx context.Context, view *RoomView) error {
	if view.CurrentLeaseID == nil {
		return nil
	}
	lease, err := s.store.Leases().Get(ctx, *view.CurrentLeaseID)
	switch {
	case err == nil:
		view.CurrentLease = lease
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("room service: load current lease: %w", err)
	}
	return nil
}

func (s *RoomService) propertyIndex(ctx context.Context) (map[string]*models.Property, error) {
	properties, err := s.store.Properties().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("room service: list properties: %w", err)
	}
	index := make(map[string]*models.Property, len(properties))
	for i := range properties {
		index[properties[i].ID] = &properties[i]
	}
	return index, nil
}

func matchesRoom(room models.Room, property *models.Property, search string, query RoomQuery) bool {
	if query.MinPrice != nil && room.Price < *query.MinPrice {
		return false
	}
	if query.MaxPrice != nil && room.Price > *query.MaxPrice {
		return false
	}
	if query.MaxOccupants != nil && room.MaxOccupants > *query.MaxOccupants {
		return false
	}
	for _, wanted := range query.Amenities {
		if !containsFold(room.Amenities, wanted) {
			return false
		}
	}
	if search == "" {
		return true
	}

	fields := []string{room.Name, room.Description}
	if property != nil {
		fields = append(fields, property.Name, property.Address)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return containsFold(room.Amenities, search)
}

func containsFold(values []string, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

func sortRooms(views []RoomView, sortBy, order string) {
	var less func(a, b RoomView) bool
	switch strings.ToLower(sortBy) {
	case "price":
		less = func(a, b RoomView) bool { return a.Price < b.Price }
	case "name":
		less = func(a, b RoomView) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "date":
		less = func(a, b RoomView) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "size":
		less = func(a, b RoomView) bool { return sizeOf(a) < sizeOf(b) }
	default:
		return
	}
	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(views, func(i, j int) bool {
		if desc {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
}

func sizeOf(view RoomView) float64 {
	if view.Size == nil {
		return 0
	}
	return *view.Size
}

func applyRoomInput(room *models.Room, input RoomInput) {
	if input.PropertyID != nil {
		room.PropertyID = strings.TrimSpace(*input.PropertyID)
	}
	if input.Name != nil {
		room.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		room.Description = *input.Description
	}
	if input.Price != nil {
		room.Price = *input.Price
	}
	if input.Images != nil {
		room.Images = append([]string{}, input.Images...)
	}
	if input.Amenities != nil {
		room.Amenities = append([]string{}, input.Amenities...)
	}
	if input.Requirements != nil {
		room.Requirements = append([]string{}, input.Requirements...)
	}
	if input.Size != nil {
		size := *input.Size
		room.Size = &size
	}
	if input.MaxOccupants != nil && *input.MaxOccupants > 0 {
		room.MaxOccupants = *input.MaxOccupants
	}
}

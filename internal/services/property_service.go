package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/store"
	apperrors "github.com/charlesng35/roomrental/pkg/errors"
)

// PropertyInput carries writable property attributes; nil fields are left unchanged.
type PropertyInput struct {
	Name              *string
	Address           *string
	Description       *string
	Latitude          *float64
	Longitude         *float64
	Services          []string
	Amenities         []string
	ContactEmail      *string
	ContactPhone      *string
	ManagementCompany *string
	BuildingType      *string
	YearBuilt         *int
	TotalRooms        *int
	ParkingSpaces     *int
	Pets              *string
	SmokingPolicy     *string
	Utilities         *models.Utilities
}

// PropertyService manages the property catalogue.
type PropertyService struct {
	store store.Store
	now   func() time.Time
}

// NewPropertyService constructs a PropertyService.
func NewPropertyService(st store.Store, now func() time.Time) (*PropertyService, error) {
	if st == nil {
		return nil, errors.New("property service: store is required")
	}
	if now == nil {
		now = time.Now
	}
	return &PropertyService{store: st, now: now}, nil
}

func (s *PropertyService) List(ctx context.Context) ([]models.Property, error) {
	properties, err := s.store.Properties().List(ensureContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("property service: list properties: %w", err)
	}
	return properties, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	property, err := s.store.Properties().Get(ensureContext(ctx), strings.TrimSpace(id))
	if err != nil {
		return nil, translateStoreError("property service", "get property", "Property", err)
	}
	return property, nil
}

// Create adds a property; name and address are required.
func (s *PropertyService) Create(ctx context.Context, input PropertyInput) (*models.Property, error) {
	ctx = ensureContext(ctx)
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" ||
		input.Address == nil || strings.TrimSpace(*input.Address) == "" {
		return nil, apperrors.NewBadRequest("Name and address are required")
	}

	property := &models.Property{}
	applyPropertyInput(property, input)
	now := s.now()
	property.CreatedAt = now
	property.UpdatedAt = now

	if err := s.store.Properties().Create(ctx, property); err != nil {
		return nil, fmt.Errorf("property service: create property: %w", err)
	}
	return property, nil
}

func (s *PropertyService) Update(ctx context.Context, id string, input PropertyInput) (*models.Property, error) {
	ctx = ensureContext(ctx)
	if (input.Name != nil && strings.TrimSpace(*input.Name) == "") ||
		(input.Address != nil && strings.TrimSpace(*input.Address) == "") {
		return nil, apperrors.NewBadRequest("Name and address cannot be empty")
	}

	property, err := s.store.Properties().Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, translateStoreError("property service", "load property", "Property", err)
	}
	applyPropertyInput(property, input)
	property.UpdatedAt = s.now()

	if err := s.store.Properties().Update(ctx, property); err != nil {
		return nil, translateStoreError("property service", "update property", "Property", err)
	}
	return property, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	err := s.store.Properties().Delete(ensureContext(ctx), strings.TrimSpace(id))
	return translateStoreError("property service", "delete property", "Property", err)
}

func applyPropertyInput(property *models.Property, input PropertyInput) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&property.Name, input.Name)
	setString(&property.Address, input.Address)
	setString(&property.Description, input.Description)
	setString(&property.ContactEmail, input.ContactEmail)
	setString(&property.ContactPhone, input.ContactPhone)
	setString(&property.ManagementCompany, input.ManagementCompany)
	setString(&property.BuildingType, input.BuildingType)
	setString(&property.Pets, input.Pets)
	setString(&property.SmokingPolicy, input.SmokingPolicy)

	if input.Latitude != nil {
		property.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		property.Longitude = input.Longitude
	}
	if input.YearBuilt != nil {
		property.YearBuilt = input.YearBuilt
	}
	if input.TotalRooms != nil {
		property.TotalRooms = input.TotalRooms
	}
	if input.ParkingSpaces != nil {
		property.ParkingSpaces = input.ParkingSpaces
	}
	if input.Services != nil {
		property.Services = append([]string{}, input.Services...)
	}
	if input.Amenities != nil {
		property.Amenities = append([]string{}, input.Amenities...)
	}
	if input.Utilities != nil {
		utilities := *input.Utilities
		property.Utilities = datatypes.NewJSONType(&utilities)
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/models"
	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/pkg/response"
)

// PropertyHandler exposes the property catalogue.
type PropertyHandler struct {
	properties *services.PropertyService
}

// NewPropertyHandler constructs a property handler.
func NewPropertyHandler(properties *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

type propertyRequest struct {
	Name              *string           `json:"name"`
	Address           *string           `json:"address"`
	Description       *string           `json:"description"`
	Latitude          *float64          `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64          `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Services          []string          `json:"services"`
	Amenities         []string          `json:"amenities"`
	ContactEmail      *string           `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone      *string           `json:"contactPhone"`
	ManagementCompany *string           `json:"managementCompany"`
	BuildingType      *string           `json:"buildingType"`
	YearBuilt         *int              `json:"yearBuilt"`
	TotalRooms        *int              `json:"totalRooms" validate:"omitempty,gte=0"`
	ParkingSpaces     *int              `json:"parkingSpaces" validate:"omitempty,gte=0"`
	Pets              *string           `json:"pets"`
	SmokingPolicy     *string           `json:"smokingPolicy"`
	Utilities         *models.Utilities `json:"utilities"`
}

func (r propertyRequest) input() services.PropertyInput {
	return services.PropertyInput{
		Name:              r.Name,
		Address:           r.Address,
		Description:       r.Description,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		Services:          r.Services,
		Amenities:         r.Amenities,
		ContactEmail:      r.ContactEmail,
		ContactPhone:      r.ContactPhone,
		ManagementCompany: r.ManagementCompany,
		BuildingType:      r.BuildingType,
		YearBuilt:         r.YearBuilt,
		TotalRooms:        r.TotalRooms,
		ParkingSpaces:     r.ParkingSpaces,
		Pets:              r.Pets,
		SmokingPolicy:     r.SmokingPolicy,
		Utilities:         r.Utilities,
	}
}

// List returns every property.
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.properties.List(requestContext(c))
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusOK, properties)
}

// Get returns one property.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.properties.Get(requestContext(c), pathID(c))
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusOK, property)
}

// Create adds a property.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req propertyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	property, err := h.properties.Create(requestContext(c), req.input())
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusCreated, property)
}

// Update edits a property.
func (h *PropertyHandler) Update(c *gin.Context) {
	var req propertyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	property, err := h.properties.Update(requestContext(c), pathID(c), req.input())
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusOK, property)
}

// Delete removes a property.
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.properties.Delete(requestContext(c), pathID(c)); err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Message(c, http.StatusOK, "Property deleted successfully", nil)
}

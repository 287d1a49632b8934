package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/pkg/response"
)

// RoomHandler exposes the room directory.
type RoomHandler struct {
	rooms *services.RoomService
}

// NewRoomHandler constructs a room handler.
func NewRoomHandler(rooms *services.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

type roomRequest struct {
	PropertyID   *string  `json:"propertyId"`
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Requirements []string `json:"requirements"`
	Size         *float64 `json:"size" validate:"omitempty,gte=0"`
	MaxOccupants *int     `json:"maxOccupants" validate:"omitempty,gte=1"`
}

func (r roomRequest) input() services.RoomInput {
	return services.RoomInput{
		PropertyID:   r.PropertyID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Images:       r.Images,
		Amenities:    r.Amenities,
		Requirements: r.Requirements,
		Size:         r.Size,
		MaxOccupants: r.MaxOccupants,
	}
}

// List returns rooms matching `?available`, `?search` and the extended catalogue filters.
func (h *RoomHandler) List(c *gin.Context) {
	query := services.RoomQuery{
		Available:    parseBoolQuery(c, "available"),
		Search:       c.Query("search"),
		MinPrice:     parseFloatQuery(c, "minPrice"),
		MaxPrice:     parseFloatQuery(c, "maxPrice"),
		MaxOccupants: parseIntPtrQuery(c, "maxOccupants"),
		PropertyID:   c.Query("propertyId"),
		SortBy:       c.Query("sortBy"),
		SortOrder:    c.Query("sortOrder"),
	}
	for _, raw := range c.QueryArray("amenities") {
		for _, amenity := range strings.Split(raw, ",") {
			if amenity = strings.TrimSpace(amenity); amenity != "" {
				query.Amenities = append(query.Amenities, amenity)
			}
		}
	}

	rooms, err := h.rooms.List(requestContext(c), query)
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

// Get returns a room with its property and current lease.
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.rooms.Get(requestContext(c), pathID(c))
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusOK, room)
}

// Create adds a room to the catalogue.
func (h *RoomHandler) Create(c *gin.Context) {
	var req roomRequest
	if !bindAndValidate(c, &req) {
		return
	}

	room, err := h.rooms.Create(requestContext(c), req.input())
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusCreated, room)
}

// Update edits the descriptive attributes of a room.
func (h *RoomHandler) Update(c *gin.Context) {
	var req roomRequest
	if !bindAndValidate(c, &req) {
		return
	}

	room, err := h.rooms.Update(requestContext(c), pathID(c), req.input())
	if err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Success(c, http.StatusOK, room)
}

// Delete removes a room.
func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.rooms.Delete(requestContext(c), pathID(c)); err != nil {
		response.Error(c, asAppError(err, "Internal server error"))
		return
	}
	response.Message(c, http.StatusOK, "Room deleted successfully", nil)
}

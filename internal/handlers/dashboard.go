package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/services"
	"github.com/charlesng35/roomrental/pkg/response"
)

// DashboardHandler serves back office statistics.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns occupancy, revenue and lease figures.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(requestContext(c))
	if err != nil {
		response.Error(c, asAppError(err, "Failed to fetch dashboard stats"))
		return
	}
	response.Success(c, http.StatusOK, stats)
}

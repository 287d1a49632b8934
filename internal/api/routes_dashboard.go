package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/handlers"
)

func registerDashboardRoutes(api *gin.RouterGroup, handler *handlers.DashboardHandler) {
	api.GET("/dashboard/stats", handler.Stats)
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/handlers"
)

func registerLeaseRoutes(api *gin.RouterGroup, handler *handlers.LeaseHandler) {
	group := api.Group("/leases")
	{
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/expiring-soon", handler.ExpiringSoon)
		group.GET("/actions", handler.Actions)

		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Terminate)
		group.POST("/:id/extend", handler.Extend)
		group.POST("/:id/change-tenant", handler.ChangeTenant)
	}
}

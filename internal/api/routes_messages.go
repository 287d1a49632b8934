package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/handlers"
)

// registerMessageRoutes mounts the inquiry endpoints. Only the public create endpoint is
// rate limited.
func registerMessageRoutes(api *gin.RouterGroup, handler *handlers.MessageHandler, limit gin.HandlerFunc) {
	group := api.Group("/messages")
	{
		group.GET("", handler.List)
		group.POST("", limit, handler.Create)
		group.PATCH("/:id/read", handler.MarkRead)
		group.DELETE("/:id", handler.Delete)
	}
}

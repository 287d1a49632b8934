package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/handlers"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler, stream *handlers.RealtimeHandler) {
	group := api.Group("/notifications")
	{
		group.GET("", handler.List)
		group.POST("/read-all", handler.MarkAllRead)
		group.GET("/stream", stream.Stream)

		group.PATCH("/:id/read", handler.MarkRead)
		group.DELETE("/:id", handler.Delete)
	}
}

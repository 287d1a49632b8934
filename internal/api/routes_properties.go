package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/handlers"
)

func registerPropertyRoutes(api *gin.RouterGroup, handler *handlers.PropertyHandler) {
	group := api.Group("/properties")
	{
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}
}

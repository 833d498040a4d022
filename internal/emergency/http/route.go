package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/emergency/locations")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Share)
		group.DELETE("/:id", h.Delete)
	}
}

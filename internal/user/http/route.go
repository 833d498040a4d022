package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/users")
	group.Use(authMiddleware)
	{
		group.GET("/providers", h.ListProviders)
		group.PATCH("/me", h.UpdateProfile)
	}

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.DELETE("/:id", h.Deactivate)
	}
}

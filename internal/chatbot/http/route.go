package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/assistant")

	group.Use(authMiddleware)
	{
		group.POST("/ask", h.Ask)
		group.GET("/history", h.History)
		group.GET("/settings", h.GetSettings)
	}

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.PUT("/settings", h.UpdateSettings)
		admin.GET("/responses", h.ListCanned)
		admin.POST("/responses", h.CreateCanned)
		admin.PATCH("/responses/:id", h.UpdateCanned)
		admin.DELETE("/responses/:id", h.DeleteCanned)
	}
}

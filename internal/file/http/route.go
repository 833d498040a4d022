package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/files")

	group.Use(authMiddleware)
	{
		group.POST("", h.Upload)
		group.GET("/:id", h.ServeFile)
		group.GET("/:id/thumbnail", h.ServeThumbnail)
	}
}

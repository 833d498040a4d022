package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/messages")

	group.Use(authMiddleware)
	{
		group.GET("", h.ListInbox)
		group.POST("", h.Send)
		group.GET("/:peerId", h.ListConversation)
		group.POST("/:peerId/read", h.MarkRead)
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/message"
	"github.com/varun4522/calm-campus-backend/internal/pkg/response"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

type Handler struct {
	service message.Service
}

func NewHandler(service message.Service) *Handler {
	return &Handler{service: service}
}

func mapMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, message.ErrEmptyBody),
		errors.Is(err, message.ErrRecipientMissing),
		errors.Is(err, message.ErrSelfMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) Send(c *gin.Context) {
	var body SendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	m, err := h.service.Send(c.Request.Context(), message.SendRequest{
		SenderID:    auth.GetUserID(c),
		RecipientID: body.RecipientID,
		Body:        body.Body,
	})
	if err != nil {
		mapMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewMessageResponse(m))
}

func (h *Handler) ListConversation(c *gin.Context) {
	peerID := c.Param("peerId")
	if _, err := uuid.Parse(peerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req ListConversationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	messages, total, err := h.service.ListConversation(c.Request.Context(), auth.GetUserID(c), peerID, message.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		mapMessageError(c, err)
		return
	}

	items := make([]MessageResponse, len(messages))
	for i, m := range messages {
		items[i] = NewMessageResponse(m)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) ListInbox(c *gin.Context) {
	conversations, err := h.service.ListInbox(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		mapMessageError(c, err)
		return
	}

	items := make([]ConversationResponse, len(conversations))
	for i, conv := range conversations {
		items[i] = NewConversationResponse(conv)
	}

	c.JSON(http.StatusOK, gin.H{"conversations": items})
}

func (h *Handler) MarkRead(c *gin.Context) {
	peerID := c.Param("peerId")
	if _, err := uuid.Parse(peerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	updated, err := h.service.MarkRead(c.Request.Context(), auth.GetUserID(c), peerID)
	if err != nil {
		mapMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/chatbot"
)

type Handler struct {
	service chatbot.Service
}

func NewHandler(service chatbot.Service) *Handler {
	return &Handler{service: service}
}

func mapChatbotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chatbot.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "canned response not found"})
	case errors.Is(err, chatbot.ErrQuestionRequired), errors.Is(err, chatbot.ErrAnswerRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chatbot.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is disabled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) Ask(c *gin.Context) {
	var body AskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	answer, err := h.service.Ask(c.Request.Context(), auth.GetUserID(c), body.Question)
	if err != nil {
		mapChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, AskResponse{Answer: answer.Text, Source: string(answer.Source)})
}

func (h *Handler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.service.History(c.Request.Context(), auth.GetUserID(c), limit)
	if err != nil {
		mapChatbotError(c, err)
		return
	}

	items := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewHistoryEntryResponse(e)
	}

	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *Handler) CreateCanned(c *gin.Context) {
	var body CannedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cr, err := h.service.CreateCanned(c.Request.Context(), chatbot.CannedRequest{
		Question: body.Question,
		Answer:   body.Answer,
		Keywords: body.Keywords,
	})
	if err != nil {
		mapChatbotError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCannedResponseDTO(cr))
}

func (h *Handler) ListCanned(c *gin.Context) {
	responses, err := h.service.ListCanned(c.Request.Context())
	if err != nil {
		mapChatbotError(c, err)
		return
	}

	items := make([]CannedResponseDTO, len(responses))
	for i, cr := range responses {
		items[i] = NewCannedResponseDTO(cr)
	}

	c.JSON(http.StatusOK, gin.H{"responses": items})
}

func (h *Handler) UpdateCanned(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CannedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cr, err := h.service.UpdateCanned(c.Request.Context(), id, chatbot.CannedRequest{
		Question: body.Question,
		Answer:   body.Answer,
		Keywords: body.Keywords,
	})
	if err != nil {
		mapChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCannedResponseDTO(cr))
}

func (h *Handler) DeleteCanned(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.DeleteCanned(c.Request.Context(), id); err != nil {
		mapChatbotError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		mapChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(settings))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var body SettingsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), chatbot.SettingsRequest{
		Name:          body.Name,
		Personality:   body.Personality,
		ResponseStyle: body.ResponseStyle,
		Enabled:       body.Enabled,
	})
	if err != nil {
		mapChatbotError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSettingsResponse(settings))
}

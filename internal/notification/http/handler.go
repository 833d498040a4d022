package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/notification"
	"github.com/varun4522/calm-campus-backend/internal/pkg/response"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

type Handler struct {
	service     notification.Service
	userService user.Service
}

func NewHandler(service notification.Service, userService user.Service) *Handler {
	return &Handler{service: service, userService: userService}
}

func mapNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
	case errors.Is(err, notification.ErrTitleRequired),
		errors.Is(err, notification.ErrMessageRequired),
		errors.Is(err, notification.ErrInvalidAudience),
		errors.Is(err, notification.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, notification.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateNotificationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	senderName := u.Email
	if u.DisplayName != nil && *u.DisplayName != "" {
		senderName = *u.DisplayName
	}

	n, err := h.service.Create(c.Request.Context(), notification.CreateRequest{
		SenderID:   u.ID,
		SenderName: senderName,
		SenderRole: string(u.Role),
		Title:      body.Title,
		Message:    body.Message,
		Audience:   body.Audience,
		Priority:   body.Priority,
	})
	if err != nil {
		mapNotificationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewNotificationResponse(n))
}

func (h *Handler) List(c *gin.Context) {
	var req ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	var (
		notifications []*notification.Notification
		total         int
		err           error
	)

	if req.Sent {
		notifications, total, err = h.service.ListBySender(c.Request.Context(), auth.GetUserID(c), req.Page, req.PageSize)
	} else {
		notifications, total, err = h.service.ListForRole(c.Request.Context(), auth.GetUserRole(c), req.Page, req.PageSize)
	}
	if err != nil {
		mapNotificationError(c, err)
		return
	}

	items := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		items[i] = NewNotificationResponse(n)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	isAdmin := auth.GetUserRole(c) == string(user.RoleAdmin)
	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c), isAdmin); err != nil {
		mapNotificationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package http

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/notification"
	"github.com/varun4522/calm-campus-backend/internal/pkg/request"
)

type CreateNotificationBody struct {
	Title    string `json:"title" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Audience string `json:"audience" binding:"required,oneof=students experts peers admin all"`
	Priority string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type ListNotificationsRequest struct {
	request.ListParams
	Sent bool `form:"sent"`
}

type NotificationResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Audience   string    `json:"audience"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		SenderID:   n.SenderID,
		SenderName: n.SenderName,
		SenderRole: n.SenderRole,
		Title:      n.Title,
		Message:    n.Message,
		Audience:   string(n.Audience),
		Priority:   string(n.Priority),
		CreatedAt:  n.CreatedAt,
	}
}
